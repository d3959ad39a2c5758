package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cortex/application/commands"
	"cortex/application/ports"
	"cortex/domain/core/valueobjects"
	"cortex/domain/events"
	pkgerrors "cortex/pkg/errors"
)

// DeleteNoteHandler handles note deletion commands
type DeleteNoteHandler struct {
	noteRepo      ports.NoteRepository
	embeddingRepo ports.EmbeddingRepository
	eventBus      ports.EventBus
	logger        *zap.Logger
}

// NewDeleteNoteHandler creates a new delete note handler
func NewDeleteNoteHandler(
	noteRepo ports.NoteRepository,
	embeddingRepo ports.EmbeddingRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *DeleteNoteHandler {
	return &DeleteNoteHandler{
		noteRepo:      noteRepo,
		embeddingRepo: embeddingRepo,
		eventBus:      eventBus,
		logger:        logger,
	}
}

// Handle executes the delete note command
func (h *DeleteNoteHandler) Handle(ctx context.Context, cmd commands.DeleteNoteCommand) error {
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

	if err := h.noteRepo.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	// The embedding is derived data; a missing one is not an error
	if err := h.embeddingRepo.Delete(ctx, cmd.UserID, cmd.NoteID); err != nil {
		h.logger.Warn("failed to delete embedding",
			zap.String("noteID", cmd.NoteID),
			zap.Error(err),
		)
	}

	event := events.NewNoteDeleted(noteID, cmd.UserID, note.Tags(), time.Now())
	if err := h.eventBus.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish delete event", zap.Error(err))
	}

	h.logger.Info("note deleted",
		zap.String("noteID", cmd.NoteID),
		zap.String("userID", cmd.UserID),
	)

	return nil
}
