package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cortex/application/commands"
	cmdhandlers "cortex/application/commands/handlers"
	"cortex/application/queries"
	qryhandlers "cortex/application/queries/handlers"
	"cortex/application/services"
	domainservices "cortex/domain/services"
	"cortex/infrastructure/messaging/local"
	"cortex/infrastructure/persistence/memory"
)

// pipeline wires the command handlers, the analysis service, and the query
// handlers over in-memory storage, the same shape the DI container builds
// against DynamoDB and EventBridge.
type pipeline struct {
	createNote *commands.CreateNoteHandler
	embeddings *cmdhandlers.RecordEmbeddingHandler
	analysis   *cmdhandlers.RunAnalysisHandler
	getNote    *qryhandlers.GetNoteHandler
	getReport  *qryhandlers.GetReportHandler
	insights   *qryhandlers.InsightQueryHandler
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	logger := zap.NewNop()
	noteRepo := memory.NewNoteRepository()
	embeddingRepo := memory.NewEmbeddingRepository()
	conceptRepo := memory.NewConceptRepository()
	positions := memory.NewPositionSource()
	reports := memory.NewInsightRepository()
	bus := local.NewBus(logger)

	extractor := domainservices.NewClaimExtractor()
	analyzer := domainservices.NewDefaultTextAnalyzer()
	duplicates := domainservices.NewDuplicateDetector(nil)
	contradictions := domainservices.NewContradictionDetector(nil, extractor, analyzer)
	merges := domainservices.NewMergeCandidateDetector(nil, analyzer)
	spatial := domainservices.NewSpatialClusterDetector(nil)
	concepts := domainservices.NewConceptClusterDetector(nil)

	insightService := services.NewInsightService(
		noteRepo, embeddingRepo, conceptRepo, positions, reports,
		duplicates, contradictions, merges, spatial, concepts,
		bus, nil, logger,
	)

	return &pipeline{
		createNote: commands.NewCreateNoteHandler(noteRepo, bus, logger),
		embeddings: cmdhandlers.NewRecordEmbeddingHandler(noteRepo, embeddingRepo, bus, logger),
		analysis:   cmdhandlers.NewRunAnalysisHandler(insightService, nil, logger),
		getNote:    qryhandlers.NewGetNoteHandler(noteRepo, logger),
		getReport:  qryhandlers.NewGetReportHandler(reports, logger),
		insights: qryhandlers.NewInsightQueryHandler(
			noteRepo, embeddingRepo, conceptRepo, positions,
			duplicates, contradictions, merges, spatial, concepts,
			logger,
		),
	}
}

func (p *pipeline) create(t *testing.T, userID, title, content string, x, y float64, tags ...string) string {
	t.Helper()

	noteID := uuid.New().String()
	_, err := p.createNote.Handle(context.Background(), commands.CreateNoteCommand{
		NoteID:  noteID,
		UserID:  userID,
		Title:   title,
		Content: content,
		X:       x,
		Y:       y,
		Tags:    tags,
	})
	require.NoError(t, err)
	return noteID
}

func TestAnalysisPipeline(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	const userID = "integration-user"

	body := strings.Repeat("retro notes from the march planning offsite ", 3)
	noteA := p.create(t, userID, "Planning retro", body, 10, 10, "planning")
	noteB := p.create(t, userID, "Planning retro again", body, 20, 20, "planning")
	p.create(t, userID, "Budget Q1", "Budget grew 12% year over year.", 30, 30, "budget")
	p.create(t, userID, "Budget Q2", "Budget grew 7% year over year.", 40, 40, "budget")

	t.Run("created notes are queryable", func(t *testing.T) {
		result, err := p.getNote.Handle(ctx, queries.GetNoteQuery{UserID: userID, NoteID: noteA})
		require.NoError(t, err)
		assert.Equal(t, "Planning retro", result.Title)
		assert.Equal(t, []string{"planning"}, result.Tags)
		assert.Equal(t, 10.0, result.Position.X)
	})

	t.Run("embeddings attach to owned notes only", func(t *testing.T) {
		for _, id := range []string{noteA, noteB} {
			err := p.embeddings.Handle(ctx, commands.RecordEmbeddingCommand{
				UserID: userID,
				NoteID: id,
				Vector: []float64{0.3, 0.7},
			})
			require.NoError(t, err)
		}

		err := p.embeddings.Handle(ctx, commands.RecordEmbeddingCommand{
			UserID: "someone-else",
			NoteID: noteA,
			Vector: []float64{1, 0},
		})
		require.Error(t, err)
	})

	t.Run("analysis reports findings across detectors", func(t *testing.T) {
		report, err := p.analysis.Handle(ctx, commands.RunAnalysisCommand{UserID: userID})
		require.NoError(t, err)

		assert.Equal(t, 4, report.NotesAnalyzed)

		require.Len(t, report.Duplicates, 1)
		assert.ElementsMatch(t,
			[]string{noteA, noteB},
			[]string{report.Duplicates[0].NoteA, report.Duplicates[0].NoteB})

		require.Len(t, report.Contradictions, 1)
		assert.ElementsMatch(t,
			[]string{"12", "7"},
			[]string{report.Contradictions[0].ValueA, report.Contradictions[0].ValueB})

		// All four notes fit one compact bounding box
		require.Len(t, report.ActivityRegions, 1)
		assert.Equal(t, 4, report.ActivityRegions[0].EventCount)
	})

	t.Run("insight queries match the batch report", func(t *testing.T) {
		pairs, err := p.insights.HandleDetectDuplicates(ctx, queries.DetectDuplicatesQuery{UserID: userID})
		require.NoError(t, err)
		require.Len(t, pairs, 1)

		conflicts, err := p.insights.HandleDetectContradictions(ctx, queries.DetectContradictionsQuery{UserID: userID})
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Contains(t, conflicts[0].UnitPhrase, "year over year")

		regions, err := p.insights.HandleGetActivityRegions(ctx, queries.GetActivityRegionsQuery{UserID: userID})
		require.NoError(t, err)
		require.Len(t, regions, 1)

		clusters, err := p.insights.HandleGetConceptClusters(ctx, queries.GetConceptClustersQuery{UserID: userID})
		require.NoError(t, err)
		assert.Empty(t, clusters)
	})

	t.Run("latest report is persisted and retrievable", func(t *testing.T) {
		stored, err := p.getReport.Handle(ctx, queries.GetAnalysisReportQuery{UserID: userID})
		require.NoError(t, err)
		assert.Equal(t, 4, stored.NotesAnalyzed)
		require.Len(t, stored.Duplicates, 1)

		_, err = p.getReport.Handle(ctx, queries.GetAnalysisReportQuery{UserID: "stranger"})
		require.Error(t, err)
	})

	t.Run("other users see nothing", func(t *testing.T) {
		report, err := p.analysis.Handle(ctx, commands.RunAnalysisCommand{UserID: "stranger"})
		require.NoError(t, err)
		assert.Equal(t, 0, report.NotesAnalyzed)

		_, err = p.getNote.Handle(ctx, queries.GetNoteQuery{UserID: "stranger", NoteID: noteA})
		require.Error(t, err)
	})
}
