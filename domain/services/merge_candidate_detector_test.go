package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/domain/core/entities"
)

func TestMergeCandidateDetector_BelowThresholdNotFlagged(t *testing.T) {
	// Arrange: word sets {weekly, planning, meeting} vs {weekly, planning,
	// meeting, notes} overlap at 3/4, under the threshold
	noteA := newTestNote(t, "Weekly planning meeting", "body text")
	noteB := newTestNote(t, "weekly PLANNING meeting notes?", "body text")
	detector := NewMergeCandidateDetector(nil, nil)

	// Act
	candidates := detector.Detect([]*entities.Note{noteA, noteB})

	// Assert
	assert.Empty(t, candidates)
}

func TestMergeCandidateDetector_NearIdenticalTitlesFlagged(t *testing.T) {
	noteA := newTestNote(t, "Weekly planning meeting", "body text")
	noteB := newTestNote(t, "weekly planning... meeting!", "body text")
	detector := NewMergeCandidateDetector(nil, nil)

	candidates := detector.Detect([]*entities.Note{noteA, noteB})

	require.Len(t, candidates, 1)
	assert.Equal(t, HeuristicTitleSimilarity, candidates[0].Heuristic)
	assert.InDelta(t, 1.0, candidates[0].Score, 1e-9)
	assert.Len(t, candidates[0].NoteIDs, 2)
}

func TestMergeCandidateDetector_IdenticalTitlesNotFlagged(t *testing.T) {
	noteA := newTestNote(t, "Shopping list", "milk and bread")
	noteB := newTestNote(t, "Shopping List", "eggs and butter")
	detector := NewMergeCandidateDetector(nil, nil)

	candidates := detector.Detect([]*entities.Note{noteA, noteB})

	assert.Empty(t, candidates)
}

func TestMergeCandidateDetector_SharedPrefixGroupFlagged(t *testing.T) {
	// Three short notes under the same "Project X:" prefix
	noteA := newTestNote(t, "Project X: kickoff", "short note")
	noteB := newTestNote(t, "Project X: budget", "short note")
	noteC := newTestNote(t, "Project X: risks", "short note")
	detector := NewMergeCandidateDetector(nil, nil)

	candidates := detector.Detect([]*entities.Note{noteA, noteB, noteC})

	require.Len(t, candidates, 1)
	assert.Equal(t, HeuristicSharedPrefix, candidates[0].Heuristic)
	assert.Len(t, candidates[0].NoteIDs, 3)
	assert.Contains(t, candidates[0].Reason, "project x")
}

func TestMergeCandidateDetector_LongNotesBlockPrefixGroup(t *testing.T) {
	long := strings.Repeat("a lot of content in this note body ", 20)
	noteA := newTestNote(t, "Project X: kickoff", long)
	noteB := newTestNote(t, "Project X: budget", "short note")
	noteC := newTestNote(t, "Project X: risks", "short note")
	detector := NewMergeCandidateDetector(nil, nil)

	candidates := detector.Detect([]*entities.Note{noteA, noteB, noteC})

	assert.Empty(t, candidates)
}

func TestMergeCandidateDetector_TwoNotePrefixGroupNotFlagged(t *testing.T) {
	noteA := newTestNote(t, "Project X: kickoff", "short note")
	noteB := newTestNote(t, "Project X: budget", "short note")
	detector := NewMergeCandidateDetector(nil, nil)

	candidates := detector.Detect([]*entities.Note{noteA, noteB})

	assert.Empty(t, candidates)
}

func TestMergeCandidateDetector_EarliestSeparatorWins(t *testing.T) {
	// A title with both separator kinds cuts at whichever comes first, so
	// these group under "team", not "team - notes"
	noteA := newTestNote(t, "Team - notes: agenda", "short note")
	noteB := newTestNote(t, "Team - notes: minutes", "short note")
	noteC := newTestNote(t, "Team: retro", "short note")
	detector := NewMergeCandidateDetector(nil, nil)

	candidates := detector.Detect([]*entities.Note{noteA, noteB, noteC})

	require.Len(t, candidates, 1)
	assert.Equal(t, HeuristicSharedPrefix, candidates[0].Heuristic)
	assert.Len(t, candidates[0].NoteIDs, 3)
	assert.Contains(t, candidates[0].Reason, "\"team\"")
}

func TestMergeCandidateDetector_HeuristicsNotCrossDeduplicated(t *testing.T) {
	// The same notes can be reported by both heuristics
	noteA := newTestNote(t, "Project X: status update", "short")
	noteB := newTestNote(t, "Project X: status... update", "short")
	noteC := newTestNote(t, "Project X: other", "short")
	detector := NewMergeCandidateDetector(nil, nil)

	candidates := detector.Detect([]*entities.Note{noteA, noteB, noteC})

	heuristics := make(map[string]int)
	for _, c := range candidates {
		heuristics[c.Heuristic]++
	}

	assert.Equal(t, 1, heuristics[HeuristicTitleSimilarity])
	assert.Equal(t, 1, heuristics[HeuristicSharedPrefix])
}

func TestMergeCandidateDetector_Idempotent(t *testing.T) {
	noteA := newTestNote(t, "Project X: kickoff", "short note")
	noteB := newTestNote(t, "Project X: budget", "short note")
	noteC := newTestNote(t, "Project X: risks", "short note")
	detector := NewMergeCandidateDetector(nil, nil)
	notes := []*entities.Note{noteA, noteB, noteC}

	assert.Equal(t, detector.Detect(notes), detector.Detect(notes))
}
