package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/domain/core/entities"
)

func TestContradictionDetector_FlagsConflictingClaims(t *testing.T) {
	// Arrange: both notes share the "revenue" tag and a long title word, so
	// the same disagreement is reachable through two topic groups
	noteA := newTestNote(t, "Sales Q1", "We made 50 percent margin", "revenue")
	noteB := newTestNote(t, "Sales Q2", "We made 65 percent margin", "revenue")
	detector := NewContradictionDetector(nil, nil, nil)

	// Act
	findings := detector.Detect([]*entities.Note{noteA, noteB})

	// Assert: exactly one finding, not one per group
	require.Len(t, findings, 1)
	finding := findings[0]
	assert.NotEqual(t, finding.NoteA, finding.NoteB)
	assert.Contains(t, finding.UnitPhrase, "percent margin")
	assert.ElementsMatch(t, []string{"50", "65"}, []string{finding.ValueA, finding.ValueB})
}

func TestContradictionDetector_AgreementIsNotFlagged(t *testing.T) {
	noteA := newTestNote(t, "Sales Q1", "We made 50 percent margin", "revenue")
	noteB := newTestNote(t, "Sales recap", "We made 50 percent margin", "revenue")
	detector := NewContradictionDetector(nil, nil, nil)

	findings := detector.Detect([]*entities.Note{noteA, noteB})

	assert.Empty(t, findings)
}

func TestContradictionDetector_NoSelfComparison(t *testing.T) {
	// One note with two different claims must not contradict itself
	note := newTestNote(t, "Budget review", "We spent 40 percent in March. We spent 60 percent in April.", "budget")
	other := newTestNote(t, "Budget notes", "Nothing numeric here.", "budget")
	detector := NewContradictionDetector(nil, nil, nil)

	findings := detector.Detect([]*entities.Note{note, other})

	assert.Empty(t, findings)
}

func TestContradictionDetector_DifferentUnitPhrasesNotCompared(t *testing.T) {
	noteA := newTestNote(t, "Metrics", "Signups grew 20 percent this month", "growth")
	noteB := newTestNote(t, "Report", "Churn dropped 5 percent this month", "growth")
	detector := NewContradictionDetector(nil, nil, nil)

	findings := detector.Detect([]*entities.Note{noteA, noteB})

	assert.Empty(t, findings)
}

func TestContradictionDetector_UngroupedNotesNotCompared(t *testing.T) {
	// No shared tag, no shared long title word
	noteA := newTestNote(t, "Alpha", "We made 50 percent margin")
	noteB := newTestNote(t, "Beta", "We made 65 percent margin")
	detector := NewContradictionDetector(nil, nil, nil)

	findings := detector.Detect([]*entities.Note{noteA, noteB})

	assert.Empty(t, findings)
}

func TestContradictionDetector_Idempotent(t *testing.T) {
	noteA := newTestNote(t, "Sales Q1", "We made 50 percent margin", "revenue")
	noteB := newTestNote(t, "Sales Q2", "We made 65 percent margin", "revenue")
	detector := NewContradictionDetector(nil, nil, nil)
	notes := []*entities.Note{noteA, noteB}

	first := detector.Detect(notes)
	second := detector.Detect(notes)

	assert.Equal(t, first, second)
}

func TestContradictionDetector_BuildTopicGroups(t *testing.T) {
	noteA := newTestNote(t, "Quarterly planning", "body", "work")
	noteB := newTestNote(t, "Quarterly review", "body", "work")
	detector := NewContradictionDetector(nil, nil, nil)

	groups := detector.BuildTopicGroups([]*entities.Note{noteA, noteB})

	byKey := make(map[string][]string)
	for _, g := range groups {
		byKey[g.Key] = g.NoteIDs
	}

	assert.Len(t, byKey["tag:work"], 2)
	assert.Len(t, byKey["word:quarterly"], 2)
	assert.Len(t, byKey["word:planning"], 1)
	// Short title words do not seed groups
	assert.NotContains(t, byKey, "word:body")
}

func TestContradictionDetector_PunctuatedTitleWordsSeedGroups(t *testing.T) {
	// Tokenization strips the punctuation around title words, so "Margin:"
	// and "(margin)" land in the same group
	noteA := newTestNote(t, "Margin: Q1", "We made 50 percent margin")
	noteB := newTestNote(t, "Report (margin)", "We made 65 percent margin")
	detector := NewContradictionDetector(nil, nil, nil)

	groups := detector.BuildTopicGroups([]*entities.Note{noteA, noteB})

	byKey := make(map[string][]string)
	for _, g := range groups {
		byKey[g.Key] = g.NoteIDs
	}
	assert.Len(t, byKey["word:margin"], 2)

	findings := detector.Detect([]*entities.Note{noteA, noteB})
	require.Len(t, findings, 1)
	assert.ElementsMatch(t, []string{"50", "65"}, []string{findings[0].ValueA, findings[0].ValueB})
}
