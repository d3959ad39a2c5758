package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/application/queries"
	"cortex/domain/core/valueobjects"
	domainservices "cortex/domain/services"
)

// InsightQueryHandler resolves the single-detector insight queries. Each
// handler method loads a fresh snapshot and runs one pure detector over it.
type InsightQueryHandler struct {
	noteRepo      ports.NoteRepository
	embeddingRepo ports.EmbeddingRepository
	conceptRepo   ports.ConceptRepository
	positions     ports.PositionSource

	duplicates     *domainservices.DuplicateDetector
	contradictions *domainservices.ContradictionDetector
	merges         *domainservices.MergeCandidateDetector
	spatial        *domainservices.SpatialClusterDetector
	concepts       *domainservices.ConceptClusterDetector

	logger *zap.Logger
}

// NewInsightQueryHandler creates an insight query handler
func NewInsightQueryHandler(
	noteRepo ports.NoteRepository,
	embeddingRepo ports.EmbeddingRepository,
	conceptRepo ports.ConceptRepository,
	positions ports.PositionSource,
	duplicates *domainservices.DuplicateDetector,
	contradictions *domainservices.ContradictionDetector,
	merges *domainservices.MergeCandidateDetector,
	spatial *domainservices.SpatialClusterDetector,
	concepts *domainservices.ConceptClusterDetector,
	logger *zap.Logger,
) *InsightQueryHandler {
	return &InsightQueryHandler{
		noteRepo:       noteRepo,
		embeddingRepo:  embeddingRepo,
		conceptRepo:    conceptRepo,
		positions:      positions,
		duplicates:     duplicates,
		contradictions: contradictions,
		merges:         merges,
		spatial:        spatial,
		concepts:       concepts,
		logger:         logger,
	}
}

// HandleDetectDuplicates runs duplicate detection for the user
func (h *InsightQueryHandler) HandleDetectDuplicates(ctx context.Context, query queries.DetectDuplicatesQuery) ([]domainservices.DuplicatePair, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	notes, err := h.noteRepo.GetByUserID(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	embeddings, err := h.embeddingRepo.GetByUserID(ctx, query.UserID)
	if err != nil {
		// Advisory heuristic: no embeddings means no duplicates, not an error
		h.logger.Warn("embeddings unavailable", zap.String("userID", query.UserID), zap.Error(err))
		embeddings = map[string][]float64{}
	}

	return h.duplicates.Detect(notes, embeddings), nil
}

// HandleDetectContradictions runs contradiction detection for the user
func (h *InsightQueryHandler) HandleDetectContradictions(ctx context.Context, query queries.DetectContradictionsQuery) ([]domainservices.Contradiction, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	notes, err := h.noteRepo.GetByUserID(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	return h.contradictions.Detect(notes), nil
}

// HandleFindMergeCandidates runs merge candidate detection for the user
func (h *InsightQueryHandler) HandleFindMergeCandidates(ctx context.Context, query queries.FindMergeCandidatesQuery) ([]domainservices.MergeCandidate, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	notes, err := h.noteRepo.GetByUserID(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	return h.merges.Detect(notes), nil
}

// HandleGetActivityRegions runs spatial clustering for the user
func (h *InsightQueryHandler) HandleGetActivityRegions(ctx context.Context, query queries.GetActivityRegionsQuery) ([]domainservices.ActivityRegion, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	events, err := h.loadPositionEvents(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	return h.spatial.Detect(events), nil
}

// HandleGetConceptClusters runs concept clustering for the user
func (h *InsightQueryHandler) HandleGetConceptClusters(ctx context.Context, query queries.GetConceptClustersQuery) ([]domainservices.ConceptCluster, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	concepts, err := h.conceptRepo.GetByUserID(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}

	return h.concepts.Detect(concepts), nil
}

// loadPositionEvents prefers explicitly recorded events and falls back to
// the notes' own positions
func (h *InsightQueryHandler) loadPositionEvents(ctx context.Context, userID string) ([]domainservices.PositionEvent, error) {
	if h.positions != nil {
		recorded, err := h.positions.GetByUserID(ctx, userID)
		if err == nil && len(recorded) > 0 {
			events := make([]domainservices.PositionEvent, 0, len(recorded))
			for _, ev := range recorded {
				pos, err := valueobjects.NewPosition(ev.X, ev.Y)
				if err != nil {
					continue
				}
				events = append(events, domainservices.PositionEvent{Position: pos, OwnerID: ev.OwnerID})
			}
			return events, nil
		}
	}

	notes, err := h.noteRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	events := make([]domainservices.PositionEvent, 0, len(notes))
	for _, note := range notes {
		events = append(events, domainservices.PositionEvent{
			Position: note.Position(),
			OwnerID:  note.ID().String(),
		})
	}
	return events, nil
}
