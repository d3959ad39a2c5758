package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cortex/application/commands"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	"cortex/infrastructure/messaging/local"
	"cortex/infrastructure/persistence/memory"
	pkgerrors "cortex/pkg/errors"
)

func seedNote(t *testing.T, repo *memory.NoteRepository, userID, title, body string) *entities.Note {
	t.Helper()

	content, err := valueobjects.NewNoteContent(title, body, valueobjects.FormatPlainText)
	require.NoError(t, err)
	position, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)

	note, err := entities.NewNote(userID, content, position)
	require.NoError(t, err)
	note.MarkEventsAsCommitted()

	require.NoError(t, repo.Save(context.Background(), note))
	return note
}

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64  { return &f }
func tagsPtr(t []string) *[]string { return &t }

func TestUpdateNoteHandler_UpdatesContentAndPosition(t *testing.T) {
	// Arrange
	repo := memory.NewNoteRepository()
	note := seedNote(t, repo, "user123", "Old title", "old body")
	handler := NewUpdateNoteHandler(repo, local.NewBus(zap.NewNop()), zap.NewNop())

	cmd := commands.UpdateNoteCommand{
		NoteID:  note.ID().String(),
		UserID:  "user123",
		Title:   strPtr("New title"),
		Content: strPtr("new body"),
		X:       floatPtr(42),
	}

	// Act
	err := handler.Handle(context.Background(), cmd)

	// Assert
	require.NoError(t, err)
	updated, err := repo.GetByID(context.Background(), note.ID())
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Content().Title())
	assert.Equal(t, "new body", updated.Content().Body())
	assert.Equal(t, 42.0, updated.Position().X())
	assert.Equal(t, 0.0, updated.Position().Y())
}

func TestUpdateNoteHandler_ReplacesTags(t *testing.T) {
	repo := memory.NewNoteRepository()
	note := seedNote(t, repo, "user123", "Tagged", "body")
	require.NoError(t, note.AddTag("stale"))
	require.NoError(t, repo.Save(context.Background(), note))

	handler := NewUpdateNoteHandler(repo, local.NewBus(zap.NewNop()), zap.NewNop())

	err := handler.Handle(context.Background(), commands.UpdateNoteCommand{
		NoteID: note.ID().String(),
		UserID: "user123",
		Tags:   tagsPtr([]string{"Fresh", "NEW"}),
	})

	require.NoError(t, err)
	updated, err := repo.GetByID(context.Background(), note.ID())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fresh", "new"}, updated.Tags())
}

func TestUpdateNoteHandler_RejectsOtherUsersNote(t *testing.T) {
	repo := memory.NewNoteRepository()
	note := seedNote(t, repo, "owner", "Private", "body")
	handler := NewUpdateNoteHandler(repo, local.NewBus(zap.NewNop()), zap.NewNop())

	err := handler.Handle(context.Background(), commands.UpdateNoteCommand{
		NoteID: note.ID().String(),
		UserID: "intruder",
		Title:  strPtr("Hijacked"),
	})

	require.Error(t, err)
	var appErr *pkgerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.ErrorTypeUnauthorized, appErr.Type)

	unchanged, err := repo.GetByID(context.Background(), note.ID())
	require.NoError(t, err)
	assert.Equal(t, "Private", unchanged.Content().Title())
}

func TestDeleteNoteHandler_RemovesNoteAndEmbedding(t *testing.T) {
	repo := memory.NewNoteRepository()
	embeddings := memory.NewEmbeddingRepository()
	note := seedNote(t, repo, "user123", "Doomed", "body")

	embedding, err := valueobjects.NewEmbedding(note.ID().String(), []float64{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, embeddings.Save(context.Background(), "user123", embedding))

	handler := NewDeleteNoteHandler(repo, embeddings, local.NewBus(zap.NewNop()), zap.NewNop())

	err = handler.Handle(context.Background(), commands.DeleteNoteCommand{
		NoteID: note.ID().String(),
		UserID: "user123",
	})

	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), note.ID())
	assert.Error(t, err)

	remaining, err := embeddings.GetByUserID(context.Background(), "user123")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDeleteNoteHandler_RejectsOtherUsersNote(t *testing.T) {
	repo := memory.NewNoteRepository()
	note := seedNote(t, repo, "owner", "Keep", "body")
	handler := NewDeleteNoteHandler(repo, memory.NewEmbeddingRepository(), local.NewBus(zap.NewNop()), zap.NewNop())

	err := handler.Handle(context.Background(), commands.DeleteNoteCommand{
		NoteID: note.ID().String(),
		UserID: "intruder",
	})

	require.Error(t, err)
	_, err = repo.GetByID(context.Background(), note.ID())
	assert.NoError(t, err)
}

func TestRecordEmbeddingHandler_StoresVector(t *testing.T) {
	repo := memory.NewNoteRepository()
	embeddings := memory.NewEmbeddingRepository()
	note := seedNote(t, repo, "user123", "Embedded", "body")

	handler := NewRecordEmbeddingHandler(repo, embeddings, local.NewBus(zap.NewNop()), zap.NewNop())

	err := handler.Handle(context.Background(), commands.RecordEmbeddingCommand{
		NoteID: note.ID().String(),
		UserID: "user123",
		Vector: []float64{0.1, 0.2, 0.3},
	})

	require.NoError(t, err)
	stored, err := embeddings.GetByNoteID(context.Background(), "user123", note.ID().String())
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, stored.Vector())
}

func TestRecordEmbeddingHandler_RejectsOtherUsersNote(t *testing.T) {
	repo := memory.NewNoteRepository()
	embeddings := memory.NewEmbeddingRepository()
	note := seedNote(t, repo, "owner", "Private", "body")

	handler := NewRecordEmbeddingHandler(repo, embeddings, local.NewBus(zap.NewNop()), zap.NewNop())

	err := handler.Handle(context.Background(), commands.RecordEmbeddingCommand{
		NoteID: note.ID().String(),
		UserID: "intruder",
		Vector: []float64{1},
	})

	require.Error(t, err)
	stored, err := embeddings.GetByUserID(context.Background(), "owner")
	require.NoError(t, err)
	assert.Empty(t, stored)
}
