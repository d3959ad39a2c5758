package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cortex/application/commands"
	"cortex/application/ports"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// UpdateNoteHandler handles note update commands
type UpdateNoteHandler struct {
	noteRepo ports.NoteRepository
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewUpdateNoteHandler creates a new update note handler
func NewUpdateNoteHandler(
	noteRepo ports.NoteRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *UpdateNoteHandler {
	return &UpdateNoteHandler{
		noteRepo: noteRepo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Handle executes the update note command
func (h *UpdateNoteHandler) Handle(ctx context.Context, cmd commands.UpdateNoteCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	noteID, err := valueobjects.NewNoteIDFromString(cmd.NoteID)
	if err != nil {
		return fmt.Errorf("invalid note ID: %w", err)
	}

	note, err := h.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}

	if note.UserID() != cmd.UserID {
		return pkgerrors.NewUnauthorizedError("note does not belong to user")
	}

	if cmd.Title != nil || cmd.Content != nil || cmd.Format != nil {
		current := note.Content()
		title := current.Title()
		body := current.Body()
		format := current.Format()

		if cmd.Title != nil {
			title = *cmd.Title
		}
		if cmd.Content != nil {
			body = *cmd.Content
		}
		if cmd.Format != nil {
			format = valueobjects.ContentFormat(*cmd.Format)
		}

		newContent, err := valueobjects.NewNoteContent(title, body, format)
		if err != nil {
			return fmt.Errorf("invalid content: %w", err)
		}

		if err := note.UpdateContent(newContent); err != nil {
			return fmt.Errorf("failed to update content: %w", err)
		}
	}

	if cmd.X != nil || cmd.Y != nil {
		current := note.Position()
		x, y := current.X(), current.Y()

		if cmd.X != nil {
			x = *cmd.X
		}
		if cmd.Y != nil {
			y = *cmd.Y
		}

		newPosition, err := valueobjects.NewPosition(x, y)
		if err != nil {
			return fmt.Errorf("invalid position: %w", err)
		}

		if err := note.MoveTo(newPosition); err != nil {
			return fmt.Errorf("failed to update position: %w", err)
		}
	}

	if cmd.Tags != nil {
		for _, tag := range note.Tags() {
			if err := note.RemoveTag(tag); err != nil {
				h.logger.Warn("failed to remove tag", zap.String("tag", tag), zap.Error(err))
			}
		}
		for _, tag := range *cmd.Tags {
			if err := note.AddTag(tag); err != nil {
				h.logger.Warn("failed to add tag", zap.String("tag", tag), zap.Error(err))
			}
		}
	}

	if err := h.noteRepo.Save(ctx, note); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	for _, event := range note.GetUncommittedEvents() {
		if err := h.eventBus.Publish(ctx, event); err != nil {
			h.logger.Warn("failed to publish event", zap.Error(err))
		}
	}
	note.MarkEventsAsCommitted()

	h.logger.Info("note updated",
		zap.String("noteID", cmd.NoteID),
		zap.String("userID", cmd.UserID),
	)

	return nil
}
