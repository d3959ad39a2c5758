package services

import (
	"sort"
	"strings"

	"cortex/domain/config"
	"cortex/domain/core/entities"
)

// Merge heuristic names carried on each candidate so callers can tell which
// rule produced it.
const (
	HeuristicTitleSimilarity = "title_similarity"
	HeuristicSharedPrefix    = "shared_prefix"
)

// MergeCandidate is a group of notes that look like fragments of one note.
type MergeCandidate struct {
	NoteIDs   []string `json:"note_ids"`
	Titles    []string `json:"titles"`
	Heuristic string   `json:"heuristic"`
	Score     float64  `json:"score,omitempty"`
	Reason    string   `json:"reason"`
}

// MergeCandidateDetector finds notes worth merging using two independent
// heuristics: near-identical titles, and families of short notes sharing a
// title prefix. Results are concatenated, not deduplicated against each
// other, so a pair can appear once per heuristic.
type MergeCandidateDetector struct {
	config   *config.DomainConfig
	analyzer TextAnalyzer
}

// NewMergeCandidateDetector creates a merge candidate detector
func NewMergeCandidateDetector(cfg *config.DomainConfig, analyzer TextAnalyzer) *MergeCandidateDetector {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if analyzer == nil {
		analyzer = NewDefaultTextAnalyzer()
	}
	return &MergeCandidateDetector{config: cfg, analyzer: analyzer}
}

// Detect runs both heuristics over the collection
func (md *MergeCandidateDetector) Detect(notes []*entities.Note) []MergeCandidate {
	sorted := make([]*entities.Note, 0, len(notes))
	for _, note := range notes {
		if note != nil {
			sorted = append(sorted, note)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID().String() < sorted[j].ID().String()
	})

	candidates := md.detectSimilarTitles(sorted)
	candidates = append(candidates, md.detectSharedPrefixes(sorted)...)
	return candidates
}

// detectSimilarTitles flags pairs whose title word sets overlap above the
// threshold but whose titles are not already identical
func (md *MergeCandidateDetector) detectSimilarTitles(notes []*entities.Note) []MergeCandidate {
	words := make([]map[string]bool, len(notes))
	for i, note := range notes {
		words[i] = md.titleWords(note.Content().Title())
	}

	candidates := []MergeCandidate{}
	for i := 0; i < len(notes); i++ {
		for j := i + 1; j < len(notes); j++ {
			titleA := notes[i].Content().Title()
			titleB := notes[j].Content().Title()
			if strings.EqualFold(titleA, titleB) {
				continue
			}

			score := JaccardSimilarity(words[i], words[j])
			if score < md.config.TitleSimilarityThreshold {
				continue
			}

			candidates = append(candidates, MergeCandidate{
				NoteIDs:   []string{notes[i].ID().String(), notes[j].ID().String()},
				Titles:    []string{titleA, titleB},
				Heuristic: HeuristicTitleSimilarity,
				Score:     score,
				Reason:    "titles share most of their words",
			})
		}
	}
	return candidates
}

// detectSharedPrefixes flags families of short notes whose titles share the
// text before the first separator, e.g. "Project X: notes" / "Project X: todo"
func (md *MergeCandidateDetector) detectSharedPrefixes(notes []*entities.Note) []MergeCandidate {
	groups := make(map[string][]*entities.Note)
	for _, note := range notes {
		prefix := titlePrefix(note.Content().Title())
		if prefix == "" {
			continue
		}
		groups[prefix] = append(groups[prefix], note)
	}

	prefixes := make([]string, 0, len(groups))
	for prefix := range groups {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	candidates := []MergeCandidate{}
	for _, prefix := range prefixes {
		group := groups[prefix]
		if len(group) < md.config.PrefixGroupMinSize {
			continue
		}

		short := 0
		for _, note := range group {
			if note.Content().Length() < md.config.ShortContentLength {
				short++
			}
		}
		if short < md.config.PrefixGroupMinShort {
			continue
		}

		ids := make([]string, len(group))
		titles := make([]string, len(group))
		for i, note := range group {
			ids[i] = note.ID().String()
			titles[i] = note.Content().Title()
		}

		candidates = append(candidates, MergeCandidate{
			NoteIDs:   ids,
			Titles:    titles,
			Heuristic: HeuristicSharedPrefix,
			Reason:    "several short notes share the title prefix \"" + prefix + "\"",
		})
	}
	return candidates
}

// titleWords tokenizes a title keeping only words longer than the configured
// minimum
func (md *MergeCandidateDetector) titleWords(title string) map[string]bool {
	words := make(map[string]bool)
	for word := range md.analyzer.TokenizeWords(title) {
		if len(word) > md.config.TitleWordMinLength {
			words[word] = true
		}
	}
	return words
}

// titlePrefix returns the case-folded text before the first colon, dash, or
// en-dash separator, or "" when the title has no separator. The earliest
// separator wins, whichever kind it is.
func titlePrefix(title string) string {
	cut := -1
	for _, sep := range []string{":", " - ", " – "} {
		if idx := strings.Index(title, sep); idx > 0 && (cut == -1 || idx < cut) {
			cut = idx
		}
	}
	if cut == -1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(title[:cut]))
}
