package services

import (
	"sort"
	"strings"
	"unicode"
)

// TextAnalyzer tokenizes free text for the detectors. Both methods case-fold
// and deduplicate, so callers compare word sets, not raw text.
type TextAnalyzer interface {
	// TokenizeWords breaks text into a set of unique lowercase words
	TokenizeWords(text string) map[string]bool

	// ExtractSignificantWords returns the distinct words strictly longer
	// than minLength, sorted
	ExtractSignificantWords(text string, minLength int) []string
}

// DefaultTextAnalyzer splits on any non-alphanumeric rune and drops
// single-character tokens.
type DefaultTextAnalyzer struct{}

// NewDefaultTextAnalyzer creates a new text analyzer
func NewDefaultTextAnalyzer() *DefaultTextAnalyzer {
	return &DefaultTextAnalyzer{}
}

// TokenizeWords breaks text into a set of unique lowercase words
func (ta *DefaultTextAnalyzer) TokenizeWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(word) > 1 {
			words[word] = true
		}
	}
	return words
}

// ExtractSignificantWords returns the distinct words of text strictly longer
// than minLength, in sorted order so output built from them is deterministic.
func (ta *DefaultTextAnalyzer) ExtractSignificantWords(text string, minLength int) []string {
	significant := []string{}
	for word := range ta.TokenizeWords(text) {
		if len(word) > minLength {
			significant = append(significant, word)
		}
	}
	sort.Strings(significant)
	return significant
}
