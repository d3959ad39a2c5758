package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 50000
)

// CreateNoteCommand represents the command to create a new note
type CreateNoteCommand struct {
	NoteID  string   `json:"note_id" validate:"omitempty,uuid"`
	UserID  string   `json:"user_id" validate:"required"`
	Title   string   `json:"title" validate:"required,min=1,max=200"`
	Content string   `json:"content" validate:"max=50000"`
	Format  string   `json:"format" validate:"oneof=text markdown html"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Tags    []string `json:"tags" validate:"max=20,dive,min=1,max=30"`
}

// Validate validates the command
func (cmd CreateNoteCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.Title == "" {
		return errors.New("title is required")
	}
	if len(cmd.Title) > MaxTitleLength {
		return errors.New("title exceeds maximum length")
	}
	if len(cmd.Content) > MaxContentLength {
		return errors.New("content exceeds maximum length")
	}
	return nil
}

// CreateNoteHandler handles the CreateNoteCommand
type CreateNoteHandler struct {
	noteRepo ports.NoteRepository
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewCreateNoteHandler creates a new handler instance
func NewCreateNoteHandler(
	noteRepo ports.NoteRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *CreateNoteHandler {
	return &CreateNoteHandler{
		noteRepo: noteRepo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Handle executes the create note command
func (h *CreateNoteHandler) Handle(ctx context.Context, cmd CreateNoteCommand) (*entities.Note, error) {
	format := valueobjects.ContentFormat(cmd.Format)
	if cmd.Format == "" {
		format = valueobjects.FormatPlainText
	}

	content, err := valueobjects.NewNoteContent(cmd.Title, cmd.Content, format)
	if err != nil {
		return nil, err
	}

	position, err := valueobjects.NewPosition(cmd.X, cmd.Y)
	if err != nil {
		return nil, err
	}

	var note *entities.Note
	if cmd.NoteID != "" {
		noteID, idErr := valueobjects.NewNoteIDFromString(cmd.NoteID)
		if idErr != nil {
			return nil, idErr
		}
		note, err = entities.NewNoteWithID(noteID, cmd.UserID, content, position)
	} else {
		note, err = entities.NewNote(cmd.UserID, content, position)
	}
	if err != nil {
		return nil, err
	}

	for _, tag := range cmd.Tags {
		if err := note.AddTag(tag); err != nil {
			h.logger.Warn("skipping tag", zap.String("tag", tag), zap.Error(err))
		}
	}

	if err := h.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	if err := h.eventBus.PublishBatch(ctx, note.GetUncommittedEvents()); err != nil {
		// Events can be retried; the note itself is already durable
		h.logger.Warn("failed to publish note events", zap.Error(err))
	}
	note.MarkEventsAsCommitted()

	h.logger.Info("note created",
		zap.String("noteID", note.ID().String()),
		zap.String("userID", cmd.UserID),
	)

	return note, nil
}
