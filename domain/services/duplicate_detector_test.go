package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/domain/core/entities"
)

func TestDuplicateDetector_FlagsIdenticalEmbeddings(t *testing.T) {
	// Arrange
	body := strings.Repeat("meeting notes about the quarterly roadmap ", 3)
	noteA := newTestNote(t, "Roadmap notes", body)
	noteB := newTestNote(t, "Roadmap notes copy", body)
	embeddings := map[string][]float64{
		noteA.ID().String(): {0.5, 0.5, 0.5},
		noteB.ID().String(): {0.5, 0.5, 0.5},
	}
	detector := NewDuplicateDetector(nil)

	// Act
	pairs := detector.Detect([]*entities.Note{noteA, noteB}, embeddings)

	// Assert
	require.Len(t, pairs, 1)
	assert.InDelta(t, 1.0, pairs[0].Score, 1e-9)
	assert.Less(t, pairs[0].NoteA, pairs[0].NoteB)
}

func TestDuplicateDetector_OrderIndependent(t *testing.T) {
	body := strings.Repeat("shared grocery list for the week ", 3)
	noteA := newTestNote(t, "Groceries", body)
	noteB := newTestNote(t, "Groceries again", body)
	embeddings := map[string][]float64{
		noteA.ID().String(): {1, 2, 3},
		noteB.ID().String(): {1, 2, 3},
	}
	detector := NewDuplicateDetector(nil)

	forward := detector.Detect([]*entities.Note{noteA, noteB}, embeddings)
	reversed := detector.Detect([]*entities.Note{noteB, noteA}, embeddings)

	assert.Equal(t, forward, reversed)
	require.Len(t, forward, 1)
}

func TestDuplicateDetector_NeverFlagsNoteAgainstItself(t *testing.T) {
	body := strings.Repeat("a note that is certainly long enough ", 3)
	note := newTestNote(t, "Solo note", body)
	embeddings := map[string][]float64{
		note.ID().String(): {1, 0, 0},
	}
	detector := NewDuplicateDetector(nil)

	pairs := detector.Detect([]*entities.Note{note, note}, embeddings)

	assert.Empty(t, pairs)
}

func TestDuplicateDetector_SkipsShortNotes(t *testing.T) {
	// Bodies under the minimum content length produce unreliable embeddings
	noteA := newTestNote(t, "Short A", "tiny")
	noteB := newTestNote(t, "Short B", "tiny")
	embeddings := map[string][]float64{
		noteA.ID().String(): {1, 1},
		noteB.ID().String(): {1, 1},
	}
	detector := NewDuplicateDetector(nil)

	pairs := detector.Detect([]*entities.Note{noteA, noteB}, embeddings)

	assert.Empty(t, pairs)
}

func TestDuplicateDetector_BelowThresholdNotFlagged(t *testing.T) {
	body := strings.Repeat("unrelated content in each of these notes ", 3)
	noteA := newTestNote(t, "First", body)
	noteB := newTestNote(t, "Second", body)
	embeddings := map[string][]float64{
		noteA.ID().String(): {1, 0},
		noteB.ID().String(): {0, 1},
	}
	detector := NewDuplicateDetector(nil)

	pairs := detector.Detect([]*entities.Note{noteA, noteB}, embeddings)

	assert.Empty(t, pairs)
}

func TestDuplicateDetector_SkipsNotesWithoutEmbeddings(t *testing.T) {
	body := strings.Repeat("content without a computed embedding vector ", 3)
	noteA := newTestNote(t, "Embedded", body)
	noteB := newTestNote(t, "Not embedded", body)
	embeddings := map[string][]float64{
		noteA.ID().String(): {1, 2, 3},
	}
	detector := NewDuplicateDetector(nil)

	pairs := detector.Detect([]*entities.Note{noteA, noteB}, embeddings)

	assert.Empty(t, pairs)
}

func TestDuplicateDetector_StrongestMatchesFirst(t *testing.T) {
	body := strings.Repeat("three drafts of the same meeting summary ", 3)
	noteA := newTestNote(t, "Draft 1", body)
	noteB := newTestNote(t, "Draft 2", body)
	noteC := newTestNote(t, "Draft 3", body)
	// A and B are identical; C is close to both but not identical
	embeddings := map[string][]float64{
		noteA.ID().String(): {1, 0},
		noteB.ID().String(): {1, 0},
		noteC.ID().String(): {1, 0.2},
	}
	detector := NewDuplicateDetector(nil)

	pairs := detector.Detect([]*entities.Note{noteA, noteB, noteC}, embeddings)

	require.Len(t, pairs, 3)
	assert.InDelta(t, 1.0, pairs[0].Score, 1e-9)
	for i := 1; i < len(pairs); i++ {
		assert.GreaterOrEqual(t, pairs[i-1].Score, pairs[i].Score)
	}
}

func TestDuplicateDetector_Idempotent(t *testing.T) {
	body := strings.Repeat("the same body repeated across two notes ", 3)
	noteA := newTestNote(t, "Left", body)
	noteB := newTestNote(t, "Right", body)
	embeddings := map[string][]float64{
		noteA.ID().String(): {2, 4, 6},
		noteB.ID().String(): {1, 2, 3},
	}
	detector := NewDuplicateDetector(nil)
	notes := []*entities.Note{noteA, noteB}

	first := detector.Detect(notes, embeddings)
	second := detector.Detect(notes, embeddings)

	assert.Equal(t, first, second)
}
