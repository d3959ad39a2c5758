package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
)

// newTestNote builds a note with the given title, body, and tags
func newTestNote(t *testing.T, title, body string, tags ...string) *entities.Note {
	t.Helper()

	content, err := valueobjects.NewNoteContent(title, body, valueobjects.FormatPlainText)
	require.NoError(t, err)

	position, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)

	note, err := entities.NewNote("user123", content, position)
	require.NoError(t, err)

	for _, tag := range tags {
		require.NoError(t, note.AddTag(tag))
	}

	return note
}

// newTestEvent builds a position event at the given coordinates
func newTestEvent(t *testing.T, x, y float64, ownerID string) PositionEvent {
	t.Helper()

	position, err := valueobjects.NewPosition(x, y)
	require.NoError(t, err)

	return PositionEvent{Position: position, OwnerID: ownerID}
}

// newTestConcept builds a concept node related to the given concept IDs
func newTestConcept(t *testing.T, label string, relatedIDs ...string) *entities.ConceptNode {
	t.Helper()

	concept, err := entities.NewConceptNode("user123", label, relatedIDs)
	require.NoError(t, err)
	return concept
}
