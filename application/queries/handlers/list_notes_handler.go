package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/application/queries"
	"cortex/domain/config"
)

// ListNotesHandler handles note listing queries
type ListNotesHandler struct {
	noteRepo ports.NoteRepository
	config   *config.DomainConfig
	logger   *zap.Logger
}

// NewListNotesHandler creates a new list notes handler
func NewListNotesHandler(noteRepo ports.NoteRepository, cfg *config.DomainConfig, logger *zap.Logger) *ListNotesHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ListNotesHandler{
		noteRepo: noteRepo,
		config:   cfg,
		logger:   logger,
	}
}

// Handle resolves the query
func (h *ListNotesHandler) Handle(ctx context.Context, query queries.ListNotesQuery) (*queries.ListNotesResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	limit := query.Limit
	if limit <= 0 || limit > h.config.MaxNotesPerQuery {
		limit = h.config.MaxNotesPerQuery
	}

	notes, err := h.noteRepo.Search(ctx, ports.SearchCriteria{
		UserID: query.UserID,
		Query:  query.Query,
		Tags:   query.Tags,
		Limit:  limit,
		Offset: query.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	result := &queries.ListNotesResult{
		Notes: make([]queries.GetNoteResult, 0, len(notes)),
		Total: len(notes),
	}
	for _, note := range notes {
		result.Notes = append(result.Notes, toNoteResult(note))
	}

	return result, nil
}
