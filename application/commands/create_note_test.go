package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cortex/domain/core/valueobjects"
	"cortex/infrastructure/messaging/local"
	"cortex/infrastructure/persistence/memory"
)

func TestCreateNoteHandler_PersistsNote(t *testing.T) {
	// Arrange
	repo := memory.NewNoteRepository()
	handler := NewCreateNoteHandler(repo, local.NewBus(zap.NewNop()), zap.NewNop())

	cmd := CreateNoteCommand{
		UserID:  "user123",
		Title:   "Quarterly planning",
		Content: "Draft agenda for the Q3 planning session.",
		X:       10,
		Y:       20,
		Tags:    []string{"Planning", "q3"},
	}

	// Act
	note, err := handler.Handle(context.Background(), cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user123", note.UserID())
	assert.Equal(t, "Quarterly planning", note.Content().Title())
	assert.ElementsMatch(t, []string{"planning", "q3"}, note.Tags())

	stored, err := repo.GetByID(context.Background(), note.ID())
	require.NoError(t, err)
	assert.Equal(t, note.ID().String(), stored.ID().String())
}

func TestCreateNoteHandler_UsesProvidedID(t *testing.T) {
	repo := memory.NewNoteRepository()
	handler := NewCreateNoteHandler(repo, local.NewBus(zap.NewNop()), zap.NewNop())

	noteID := uuid.New().String()
	cmd := CreateNoteCommand{
		NoteID:  noteID,
		UserID:  "user123",
		Title:   "Pinned note",
		Content: "content",
	}

	note, err := handler.Handle(context.Background(), cmd)

	require.NoError(t, err)
	assert.Equal(t, noteID, note.ID().String())
}

func TestCreateNoteHandler_DefaultsToPlainText(t *testing.T) {
	repo := memory.NewNoteRepository()
	handler := NewCreateNoteHandler(repo, local.NewBus(zap.NewNop()), zap.NewNop())

	note, err := handler.Handle(context.Background(), CreateNoteCommand{
		UserID:  "user123",
		Title:   "No format given",
		Content: "body",
	})

	require.NoError(t, err)
	assert.Equal(t, valueobjects.FormatPlainText, note.Content().Format())
}

func TestCreateNoteCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     CreateNoteCommand
		wantErr string
	}{
		{
			name:    "missing user",
			cmd:     CreateNoteCommand{Title: "t"},
			wantErr: "user ID is required",
		},
		{
			name:    "missing title",
			cmd:     CreateNoteCommand{UserID: "u"},
			wantErr: "title is required",
		},
		{
			name:    "title too long",
			cmd:     CreateNoteCommand{UserID: "u", Title: strings.Repeat("x", MaxTitleLength+1)},
			wantErr: "title exceeds maximum length",
		},
		{
			name: "valid",
			cmd:  CreateNoteCommand{UserID: "u", Title: "t"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}
