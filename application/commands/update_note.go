package commands

import "errors"

// UpdateNoteCommand represents the command to update an existing note.
// Nil pointer fields are left unchanged.
type UpdateNoteCommand struct {
	NoteID  string    `json:"note_id" validate:"required"`
	UserID  string    `json:"user_id" validate:"required"`
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Format  *string   `json:"format,omitempty"`
	X       *float64  `json:"x,omitempty"`
	Y       *float64  `json:"y,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// Validate validates the command
func (cmd UpdateNoteCommand) Validate() error {
	if cmd.NoteID == "" {
		return errors.New("note ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.Title != nil && len(*cmd.Title) > MaxTitleLength {
		return errors.New("title exceeds maximum length")
	}
	if cmd.Content != nil && len(*cmd.Content) > MaxContentLength {
		return errors.New("content exceeds maximum length")
	}
	return nil
}

// DeleteNoteCommand represents the command to delete a note
type DeleteNoteCommand struct {
	NoteID string `json:"note_id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteNoteCommand) Validate() error {
	if cmd.NoteID == "" {
		return errors.New("note ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
