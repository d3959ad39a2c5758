package commands

import "errors"

// RecordEmbeddingCommand attaches an externally computed embedding vector to
// a note. The vector is stored as-is; no transformation happens here.
type RecordEmbeddingCommand struct {
	NoteID string    `json:"note_id" validate:"required"`
	UserID string    `json:"user_id" validate:"required"`
	Vector []float64 `json:"vector" validate:"required,min=1"`
}

// Validate validates the command
func (cmd RecordEmbeddingCommand) Validate() error {
	if cmd.NoteID == "" {
		return errors.New("note ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if len(cmd.Vector) == 0 {
		return errors.New("vector is required")
	}
	return nil
}

// RunAnalysisCommand triggers a full analysis pass over a user's notes:
// duplicates, contradictions, merge candidates, activity regions, and
// concept clusters.
type RunAnalysisCommand struct {
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd RunAnalysisCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
