package services

import (
	"sort"

	"cortex/domain/config"
	"cortex/domain/core/entities"
)

// DuplicatePair is an unordered pair of notes whose embeddings scored at or
// above the duplicate threshold. NoteA is always the lexicographically
// smaller ID so a pair has one canonical form.
type DuplicatePair struct {
	NoteA  string  `json:"note_a"`
	NoteB  string  `json:"note_b"`
	TitleA string  `json:"title_a"`
	TitleB string  `json:"title_b"`
	Score  float64 `json:"score"`
}

// DuplicateDetector finds near-identical notes by comparing their embedding
// vectors pairwise. Embeddings are produced by an external provider; the
// detector only reads snapshots handed to it.
type DuplicateDetector struct {
	config *config.DomainConfig
}

// NewDuplicateDetector creates a duplicate detector
func NewDuplicateDetector(cfg *config.DomainConfig) *DuplicateDetector {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &DuplicateDetector{config: cfg}
}

// Detect runs an all-pairs comparison over the notes that have embeddings.
// Notes shorter than the minimum content length are skipped since short
// notes produce unreliable embeddings. Pairs with mismatched vector
// dimensions are skipped rather than failing the whole pass.
func (dd *DuplicateDetector) Detect(notes []*entities.Note, embeddings map[string][]float64) []DuplicatePair {
	// Stable candidate order keeps the output deterministic
	candidates := make([]*entities.Note, 0, len(notes))
	for _, note := range notes {
		if note == nil {
			continue
		}
		if note.Content().Length() < dd.config.MinContentLength {
			continue
		}
		if _, ok := embeddings[note.ID().String()]; !ok {
			continue
		}
		candidates = append(candidates, note)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID().String() < candidates[j].ID().String()
	})

	pairs := []DuplicatePair{}
	seen := make(map[string]bool)

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			idA, idB := a.ID().String(), b.ID().String()
			if idA == idB {
				continue
			}

			key := pairKey(idA, idB)
			if seen[key] {
				continue
			}

			score, err := CosineSimilarity(embeddings[idA], embeddings[idB])
			if err != nil {
				continue
			}
			if score < dd.config.DuplicateScoreThreshold {
				continue
			}

			seen[key] = true
			first, second := a, b
			if idB < idA {
				first, second = b, a
			}
			pairs = append(pairs, DuplicatePair{
				NoteA:  first.ID().String(),
				NoteB:  second.ID().String(),
				TitleA: first.Content().Title(),
				TitleB: second.Content().Title(),
				Score:  score,
			})
		}
	}

	// Strongest matches first; ties broken by pair key for determinism
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		if pairs[i].NoteA != pairs[j].NoteA {
			return pairs[i].NoteA < pairs[j].NoteA
		}
		return pairs[i].NoteB < pairs[j].NoteB
	})

	return pairs
}

// pairKey builds a canonical key for an unordered note pair
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
