package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimExtractor_ExtractsNumericClaims(t *testing.T) {
	note := newTestNote(t, "Launch metrics", "We onboarded 120 users in the first week.")
	extractor := NewClaimExtractor()

	claims := extractor.Extract(note)

	require.Len(t, claims, 1)
	assert.Equal(t, note.ID().String(), claims[0].NoteID)
	assert.Equal(t, "120", claims[0].NumericValue)
	assert.Equal(t, "users", claims[0].Unit)
	assert.NotContains(t, claims[0].UnitPhrase, "120")
}

func TestClaimExtractor_UnitVocabulary(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		value string
		unit  string
	}{
		{"percent", "Margin was 50 percent overall", "50", "percent"},
		{"percent sign", "Margin was 50% overall", "50", "%"},
		{"currency", "The contract is worth 300 usd", "300", "usd"},
		{"duration", "The migration took 36 hours end to end", "36", "hours"},
		{"size", "The export weighs 2.5 gb compressed", "2.5", "gb"},
		{"magnitude", "Revenue reached 3 million this year", "3", "million"},
	}

	extractor := NewClaimExtractor()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			note := newTestNote(t, "Numbers", tc.body)

			claims := extractor.Extract(note)

			require.Len(t, claims, 1)
			assert.Equal(t, tc.value, claims[0].NumericValue)
			assert.Equal(t, tc.unit, claims[0].Unit)
		})
	}
}

func TestClaimExtractor_NumberWithoutUnitIgnored(t *testing.T) {
	note := newTestNote(t, "Plain numbers", "There were 42 things on the list somewhere.")
	extractor := NewClaimExtractor()

	claims := extractor.Extract(note)

	assert.Empty(t, claims)
}

func TestClaimExtractor_MultipleClaimsPerNote(t *testing.T) {
	note := newTestNote(t, "Status", "We spent 40 percent in March. We onboarded 15 users in April.")
	extractor := NewClaimExtractor()

	claims := extractor.Extract(note)

	require.Len(t, claims, 2)
	// Each claim's unit phrase is scoped to its own sentence
	assert.NotEqual(t, claims[0].UnitPhrase, claims[1].UnitPhrase)
}

func TestClaimExtractor_CaseInsensitiveUnits(t *testing.T) {
	note := newTestNote(t, "Caps", "Latency dropped by 30 PERCENT after the fix.")
	extractor := NewClaimExtractor()

	claims := extractor.Extract(note)

	require.Len(t, claims, 1)
	assert.Equal(t, "percent", claims[0].Unit)
}

func TestClaimExtractor_NilNote(t *testing.T) {
	extractor := NewClaimExtractor()

	assert.Nil(t, extractor.Extract(nil))
}
