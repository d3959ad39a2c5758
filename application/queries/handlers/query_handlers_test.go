package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cortex/application/queries"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	domainservices "cortex/domain/services"
	"cortex/infrastructure/persistence/memory"
)

func seedNote(t *testing.T, repo *memory.NoteRepository, userID, title, body string, tags ...string) *entities.Note {
	t.Helper()

	content, err := valueobjects.NewNoteContent(title, body, valueobjects.FormatPlainText)
	require.NoError(t, err)
	position, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)

	note, err := entities.NewNote(userID, content, position)
	require.NoError(t, err)
	for _, tag := range tags {
		require.NoError(t, note.AddTag(tag))
	}
	note.MarkEventsAsCommitted()

	require.NoError(t, repo.Save(context.Background(), note))
	return note
}

func newTestInsightHandler(notes *memory.NoteRepository, embeddings *memory.EmbeddingRepository) *InsightQueryHandler {
	extractor := domainservices.NewClaimExtractor()
	analyzer := domainservices.NewDefaultTextAnalyzer()

	return NewInsightQueryHandler(
		notes,
		embeddings,
		memory.NewConceptRepository(),
		memory.NewPositionSource(),
		domainservices.NewDuplicateDetector(nil),
		domainservices.NewContradictionDetector(nil, extractor, analyzer),
		domainservices.NewMergeCandidateDetector(nil, analyzer),
		domainservices.NewSpatialClusterDetector(nil),
		domainservices.NewConceptClusterDetector(nil),
		zap.NewNop(),
	)
}

func TestGetNoteHandler_ReturnsNote(t *testing.T) {
	// Arrange
	repo := memory.NewNoteRepository()
	note := seedNote(t, repo, "user123", "Reading list", "Books to read this summer.", "books")
	handler := NewGetNoteHandler(repo, zap.NewNop())

	// Act
	result, err := handler.Handle(context.Background(), queries.GetNoteQuery{
		UserID: "user123",
		NoteID: note.ID().String(),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, note.ID().String(), result.ID)
	assert.Equal(t, "Reading list", result.Title)
	assert.Equal(t, "Books to read this summer.", result.Content)
	assert.Equal(t, []string{"books"}, result.Tags)
	assert.Equal(t, "active", result.Status)
}

func TestGetNoteHandler_HidesOtherUsersNotes(t *testing.T) {
	repo := memory.NewNoteRepository()
	note := seedNote(t, repo, "owner", "Private", "secret")
	handler := NewGetNoteHandler(repo, zap.NewNop())

	_, err := handler.Handle(context.Background(), queries.GetNoteQuery{
		UserID: "intruder",
		NoteID: note.ID().String(),
	})

	require.Error(t, err)
	assert.Contains(t, strings.ToLower(err.Error()), "not found")
}

func TestListNotesHandler_FiltersByTag(t *testing.T) {
	repo := memory.NewNoteRepository()
	seedNote(t, repo, "user123", "Work journal", "standup notes", "work")
	seedNote(t, repo, "user123", "Recipes", "pasta", "cooking")
	handler := NewListNotesHandler(repo, nil, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.ListNotesQuery{
		UserID: "user123",
		Tags:   []string{"work"},
	})

	require.NoError(t, err)
	require.Len(t, result.Notes, 1)
	assert.Equal(t, "Work journal", result.Notes[0].Title)
}

func TestListNotesHandler_PaginatesDeterministically(t *testing.T) {
	repo := memory.NewNoteRepository()
	for i := 0; i < 5; i++ {
		seedNote(t, repo, "user123", "Note", "body")
	}
	handler := NewListNotesHandler(repo, nil, zap.NewNop())

	first, err := handler.Handle(context.Background(), queries.ListNotesQuery{
		UserID: "user123",
		Limit:  2,
	})
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), queries.ListNotesQuery{
		UserID: "user123",
		Limit:  2,
		Offset: 2,
	})
	require.NoError(t, err)

	require.Len(t, first.Notes, 2)
	require.Len(t, second.Notes, 2)
	assert.NotEqual(t, first.Notes[0].ID, second.Notes[0].ID)
	assert.NotEqual(t, first.Notes[1].ID, second.Notes[1].ID)
}

func TestInsightQueryHandler_DetectsDuplicates(t *testing.T) {
	repo := memory.NewNoteRepository()
	embeddings := memory.NewEmbeddingRepository()

	body := strings.Repeat("shared meeting summary for the platform team ", 3)
	noteA := seedNote(t, repo, "user123", "Summary", body)
	noteB := seedNote(t, repo, "user123", "Summary copy", body)

	for _, note := range []*entities.Note{noteA, noteB} {
		embedding, err := valueobjects.NewEmbedding(note.ID().String(), []float64{0.4, 0.4, 0.2})
		require.NoError(t, err)
		require.NoError(t, embeddings.Save(context.Background(), "user123", embedding))
	}

	handler := newTestInsightHandler(repo, embeddings)

	pairs, err := handler.HandleDetectDuplicates(context.Background(), queries.DetectDuplicatesQuery{UserID: "user123"})

	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.InDelta(t, 1.0, pairs[0].Score, 1e-9)
}

func TestInsightQueryHandler_ActivityRegionsFallBackToNotePositions(t *testing.T) {
	repo := memory.NewNoteRepository()

	// Two notes in a compact area produce a single region even without
	// recorded canvas events
	for i := 0; i < 2; i++ {
		content, err := valueobjects.NewNoteContent("Clustered", "body", valueobjects.FormatPlainText)
		require.NoError(t, err)
		position, err := valueobjects.NewPosition(float64(i*10), float64(i*10))
		require.NoError(t, err)
		note, err := entities.NewNote("user123", content, position)
		require.NoError(t, err)
		note.MarkEventsAsCommitted()
		require.NoError(t, repo.Save(context.Background(), note))
	}

	handler := newTestInsightHandler(repo, memory.NewEmbeddingRepository())

	regions, err := handler.HandleGetActivityRegions(context.Background(), queries.GetActivityRegionsQuery{UserID: "user123"})

	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, 2, regions[0].EventCount)
}

func TestInsightQueryHandler_RequiresUserID(t *testing.T) {
	handler := newTestInsightHandler(memory.NewNoteRepository(), memory.NewEmbeddingRepository())

	_, err := handler.HandleDetectDuplicates(context.Background(), queries.DetectDuplicatesQuery{})

	assert.Error(t, err)
}
