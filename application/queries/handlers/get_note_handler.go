package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/application/queries"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// GetNoteHandler handles single-note queries
type GetNoteHandler struct {
	noteRepo ports.NoteRepository
	logger   *zap.Logger
}

// NewGetNoteHandler creates a new get note handler
func NewGetNoteHandler(noteRepo ports.NoteRepository, logger *zap.Logger) *GetNoteHandler {
	return &GetNoteHandler{
		noteRepo: noteRepo,
		logger:   logger,
	}
}

// Handle resolves the query
func (h *GetNoteHandler) Handle(ctx context.Context, query queries.GetNoteQuery) (*queries.GetNoteResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	noteID, err := valueobjects.NewNoteIDFromString(query.NoteID)
	if err != nil {
		return nil, fmt.Errorf("invalid note ID: %w", err)
	}

	note, err := h.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if note.UserID() != query.UserID {
		return nil, pkgerrors.NewNotFoundError("note")
	}

	result := toNoteResult(note)
	return &result, nil
}

// toNoteResult maps a note entity to its read model
func toNoteResult(note *entities.Note) queries.GetNoteResult {
	return queries.GetNoteResult{
		ID:      note.ID().String(),
		UserID:  note.UserID(),
		Title:   note.Content().Title(),
		Content: note.Content().Body(),
		Format:  string(note.Content().Format()),
		Position: queries.Position{
			X: note.Position().X(),
			Y: note.Position().Y(),
		},
		Tags:      note.Tags(),
		Status:    string(note.Status()),
		Version:   note.Version(),
		CreatedAt: note.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt().UTC().Format(time.RFC3339),
	}
}
