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

// RecordEmbeddingHandler handles embedding recording commands
type RecordEmbeddingHandler struct {
	noteRepo      ports.NoteRepository
	embeddingRepo ports.EmbeddingRepository
	eventBus      ports.EventBus
	logger        *zap.Logger
}

// NewRecordEmbeddingHandler creates a new record embedding handler
func NewRecordEmbeddingHandler(
	noteRepo ports.NoteRepository,
	embeddingRepo ports.EmbeddingRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *RecordEmbeddingHandler {
	return &RecordEmbeddingHandler{
		noteRepo:      noteRepo,
		embeddingRepo: embeddingRepo,
		eventBus:      eventBus,
		logger:        logger,
	}
}

// Handle stores an externally computed embedding for a note the user owns
func (h *RecordEmbeddingHandler) Handle(ctx context.Context, cmd commands.RecordEmbeddingCommand) error {
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

	embedding, err := valueobjects.NewEmbedding(cmd.NoteID, cmd.Vector)
	if err != nil {
		return fmt.Errorf("invalid embedding: %w", err)
	}

	if err := h.embeddingRepo.Save(ctx, cmd.UserID, embedding); err != nil {
		return fmt.Errorf("failed to save embedding: %w", err)
	}

	event := events.NewEmbeddingRecorded(noteID, embedding.Dimension(), time.Now())
	if err := h.eventBus.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish embedding event", zap.Error(err))
	}

	h.logger.Info("embedding recorded",
		zap.String("noteID", cmd.NoteID),
		zap.Int("dimension", embedding.Dimension()),
	)

	return nil
}
