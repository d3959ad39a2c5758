package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTextAnalyzer_TokenizeWords(t *testing.T) {
	analyzer := NewDefaultTextAnalyzer()

	words := analyzer.TokenizeWords("Planning: the Q3 roadmap, v2 (draft)")

	assert.Equal(t, map[string]bool{
		"planning": true,
		"the":      true,
		"q3":       true,
		"roadmap":  true,
		"v2":       true,
		"draft":    true,
	}, words)
}

func TestDefaultTextAnalyzer_TokenizeWordsDropsSingleCharacters(t *testing.T) {
	analyzer := NewDefaultTextAnalyzer()

	words := analyzer.TokenizeWords("a b note")

	assert.Equal(t, map[string]bool{"note": true}, words)
}

func TestDefaultTextAnalyzer_ExtractSignificantWords(t *testing.T) {
	analyzer := NewDefaultTextAnalyzer()

	// Strictly longer than 4, duplicates collapsed, output sorted
	words := analyzer.ExtractSignificantWords("Sales sales review: review the pipe", 4)

	assert.Equal(t, []string{"review", "sales"}, words)
}
