package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	"cortex/domain/events"
	domainservices "cortex/domain/services"
	"cortex/pkg/observability"
)

// AnalysisReport is the combined result of one analysis pass over a user's
// notes.
type AnalysisReport struct {
	UserID          string                          `json:"user_id"`
	NotesAnalyzed   int                             `json:"notes_analyzed"`
	Duplicates      []domainservices.DuplicatePair  `json:"duplicates"`
	Contradictions  []domainservices.Contradiction  `json:"contradictions"`
	MergeCandidates []domainservices.MergeCandidate `json:"merge_candidates"`
	ActivityRegions []domainservices.ActivityRegion `json:"activity_regions"`
	ConceptClusters []domainservices.ConceptCluster `json:"concept_clusters"`
	GeneratedAt     time.Time                       `json:"generated_at"`
}

// InsightRepository persists the most recent analysis report per user
type InsightRepository interface {
	SaveReport(ctx context.Context, report *AnalysisReport) error
	GetLatestReport(ctx context.Context, userID string) (*AnalysisReport, error)
}

// InsightService orchestrates the detectors over a stable snapshot of a
// user's notes. Each detector is pure; this service does the I/O around
// them and publishes findings as events.
type InsightService struct {
	noteRepo       ports.NoteRepository
	embeddingRepo  ports.EmbeddingRepository
	conceptRepo    ports.ConceptRepository
	positions      ports.PositionSource
	reports        InsightRepository
	duplicates     *domainservices.DuplicateDetector
	contradictions *domainservices.ContradictionDetector
	merges         *domainservices.MergeCandidateDetector
	spatial        *domainservices.SpatialClusterDetector
	concepts       *domainservices.ConceptClusterDetector
	eventBus       ports.EventBus
	metrics        *observability.Metrics
	logger         *zap.Logger
}

// NewInsightService creates an insight service
func NewInsightService(
	noteRepo ports.NoteRepository,
	embeddingRepo ports.EmbeddingRepository,
	conceptRepo ports.ConceptRepository,
	positions ports.PositionSource,
	reports InsightRepository,
	duplicates *domainservices.DuplicateDetector,
	contradictions *domainservices.ContradictionDetector,
	merges *domainservices.MergeCandidateDetector,
	spatial *domainservices.SpatialClusterDetector,
	concepts *domainservices.ConceptClusterDetector,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *InsightService {
	return &InsightService{
		noteRepo:       noteRepo,
		embeddingRepo:  embeddingRepo,
		conceptRepo:    conceptRepo,
		positions:      positions,
		reports:        reports,
		duplicates:     duplicates,
		contradictions: contradictions,
		merges:         merges,
		spatial:        spatial,
		concepts:       concepts,
		eventBus:       eventBus,
		metrics:        metrics,
		logger:         logger,
	}
}

// RunAnalysis executes every detector for the user and publishes findings.
// Detectors that need data the user doesn't have simply contribute empty
// results; nothing here is fatal.
func (s *InsightService) RunAnalysis(ctx context.Context, userID string) (*AnalysisReport, error) {
	notes, err := s.noteRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	report := &AnalysisReport{
		UserID:        userID,
		NotesAnalyzed: len(notes),
		GeneratedAt:   time.Now(),
	}

	embeddings, err := s.embeddingRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("embeddings unavailable, skipping duplicate detection",
			zap.String("userID", userID), zap.Error(err))
		embeddings = map[string][]float64{}
	}

	start := time.Now()
	report.Duplicates = s.duplicates.Detect(notes, embeddings)
	s.record(ctx, "duplicates", len(notes), len(report.Duplicates), start)

	start = time.Now()
	report.Contradictions = s.contradictions.Detect(notes)
	s.record(ctx, "contradictions", len(notes), len(report.Contradictions), start)

	start = time.Now()
	report.MergeCandidates = s.merges.Detect(notes)
	s.record(ctx, "merge_candidates", len(notes), len(report.MergeCandidates), start)

	positionEvents := s.loadPositions(ctx, userID, notes)
	start = time.Now()
	report.ActivityRegions = s.spatial.Detect(positionEvents)
	s.record(ctx, "activity_regions", len(positionEvents), len(report.ActivityRegions), start)

	concepts, err := s.conceptRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("concept graph unavailable, skipping concept clustering",
			zap.String("userID", userID), zap.Error(err))
	}
	start = time.Now()
	report.ConceptClusters = s.concepts.Detect(concepts)
	s.record(ctx, "concept_clusters", len(concepts), len(report.ConceptClusters), start)

	if s.reports != nil {
		if err := s.reports.SaveReport(ctx, report); err != nil {
			s.logger.Warn("failed to persist analysis report",
				zap.String("userID", userID), zap.Error(err))
		}
	}

	s.publishFindings(ctx, report)

	s.logger.Info("analysis pass completed",
		zap.String("userID", userID),
		zap.Int("notes", report.NotesAnalyzed),
		zap.Int("duplicates", len(report.Duplicates)),
		zap.Int("contradictions", len(report.Contradictions)),
		zap.Int("mergeCandidates", len(report.MergeCandidates)),
		zap.Int("activityRegions", len(report.ActivityRegions)),
		zap.Int("conceptClusters", len(report.ConceptClusters)),
	)

	return report, nil
}

// loadPositions prefers recorded canvas events and falls back to the notes'
// own positions when no event source is wired
func (s *InsightService) loadPositions(ctx context.Context, userID string, notes []*entities.Note) []domainservices.PositionEvent {
	if s.positions != nil {
		recorded, err := s.positions.GetByUserID(ctx, userID)
		if err != nil {
			s.logger.Warn("position events unavailable, falling back to note positions",
				zap.String("userID", userID), zap.Error(err))
		} else if len(recorded) > 0 {
			out := make([]domainservices.PositionEvent, 0, len(recorded))
			for _, ev := range recorded {
				pos, err := valueobjects.NewPosition(ev.X, ev.Y)
				if err != nil {
					continue
				}
				out = append(out, domainservices.PositionEvent{Position: pos, OwnerID: ev.OwnerID})
			}
			return out
		}
	}

	out := make([]domainservices.PositionEvent, 0, len(notes))
	for _, note := range notes {
		out = append(out, domainservices.PositionEvent{
			Position: note.Position(),
			OwnerID:  note.ID().String(),
		})
	}
	return out
}

// record feeds detector timing into CloudWatch when metrics are configured
func (s *InsightService) record(ctx context.Context, detector string, inputSize, findings int, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordDetectorRun(ctx, detector, time.Since(start), inputSize, findings)
}

// publishFindings emits one event per finding plus a completion event
func (s *InsightService) publishFindings(ctx context.Context, report *AnalysisReport) {
	batch := []events.DomainEvent{}
	now := report.GeneratedAt

	for _, d := range report.Duplicates {
		batch = append(batch, events.NewDuplicatePairDetected(report.UserID, d.NoteA, d.NoteB, d.Score, now))
	}
	for _, c := range report.Contradictions {
		batch = append(batch, events.NewContradictionDetected(report.UserID, c.NoteA, c.NoteB, c.UnitPhrase, now))
	}
	for _, m := range report.MergeCandidates {
		batch = append(batch, events.NewMergeCandidateDetected(report.UserID, m.NoteIDs, m.Heuristic, now))
	}

	batch = append(batch, events.NewAnalysisCompleted(
		report.UserID,
		report.NotesAnalyzed,
		len(report.Duplicates),
		len(report.Contradictions),
		len(report.MergeCandidates),
		len(report.ConceptClusters),
		now,
	))

	if err := s.eventBus.PublishBatch(ctx, batch); err != nil {
		s.logger.Warn("failed to publish analysis events",
			zap.String("userID", report.UserID), zap.Error(err))
	}
}
