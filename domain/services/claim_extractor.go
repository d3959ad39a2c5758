package services

import (
	"regexp"
	"strings"

	"github.com/tsawler/prose/v3"

	"cortex/domain/core/entities"
)

// Claim is a numeric statement extracted from note text. Claims are
// ephemeral: they live for a single detection pass and are never persisted.
type Claim struct {
	NoteID       string
	RawText      string
	NumericValue string
	Unit         string
	UnitPhrase   string
}

// claimPattern matches a number followed by one of a fixed unit vocabulary.
// The vocabulary mirrors what users actually write in notes: percentages,
// currency, counts, durations, sizes.
// Symbol units match bare; word units carry a boundary so "k" never matches
// the start of a longer word.
var claimPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(%|\$|€|£|percentage points?\b|percent\b|usd\b|eur\b|gbp\b|users?\b|customers?\b|requests?\b|sessions?\b|hours?\b|days?\b|weeks?\b|months?\b|years?\b|minutes?\b|seconds?\b|ms\b|gb\b|mb\b|kb\b|tb\b|million\b|billion\b|thousand\b|k\b)`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// ClaimExtractor pulls numeric claims out of note content. Sentence
// segmentation uses the prose NLP tokenizer so a claim's unit phrase stays
// scoped to one sentence instead of the whole note.
type ClaimExtractor struct{}

// NewClaimExtractor creates a claim extractor
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{}
}

// Extract returns all numeric claims found in the note's title and body
func (ce *ClaimExtractor) Extract(note *entities.Note) []Claim {
	if note == nil {
		return nil
	}

	// Title and body are segmented separately so a claim's unit phrase never
	// absorbs the title
	segments := []string{note.Content().Title()}
	segments = append(segments, splitSentences(note.Content().Body())...)

	claims := []Claim{}
	for _, sentence := range segments {
		matches := claimPattern.FindAllStringSubmatch(sentence, -1)
		if len(matches) == 0 {
			continue
		}

		for _, m := range matches {
			claims = append(claims, Claim{
				NoteID:       note.ID().String(),
				RawText:      strings.TrimSpace(sentence),
				NumericValue: m[1],
				Unit:         strings.ToLower(m[2]),
				UnitPhrase:   normalizeUnitPhrase(sentence, m[1]),
			})
		}
	}

	return claims
}

// ExtractAll extracts claims from every note in the collection
func (ce *ClaimExtractor) ExtractAll(notes []*entities.Note) []Claim {
	claims := []Claim{}
	for _, note := range notes {
		claims = append(claims, ce.Extract(note)...)
	}
	return claims
}

// splitSentences segments text into sentences, falling back to the whole
// text when the tokenizer cannot parse it
func splitSentences(text string) []string {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return []string{text}
	}

	sentences := doc.Sentences()
	if len(sentences) == 0 {
		return []string{text}
	}

	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		out = append(out, s.Text)
	}
	return out
}

// normalizeUnitPhrase strips the numeric value from a claim sentence and
// case-folds what remains. Two claims with the same unit phrase but
// different values are talking about the same quantity.
func normalizeUnitPhrase(sentence, value string) string {
	phrase := strings.Replace(sentence, value, "", 1)
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	phrase = whitespacePattern.ReplaceAllString(phrase, " ")
	return strings.Trim(phrase, ".,!?;: ")
}
