package services

import (
	"sort"
	"strings"

	"cortex/domain/config"
	"cortex/domain/core/entities"
)

// TopicGroup is a set of notes sharing a tag or a long title word. Groups
// are rebuilt on every pass and never cached.
type TopicGroup struct {
	Key     string
	NoteIDs []string
}

// Contradiction flags two notes in the same topic group that state different
// numeric values for the same quantity.
type Contradiction struct {
	NoteA      string `json:"note_a"`
	NoteB      string `json:"note_b"`
	TitleA     string `json:"title_a"`
	TitleB     string `json:"title_b"`
	ValueA     string `json:"value_a"`
	ValueB     string `json:"value_b"`
	UnitPhrase string `json:"unit_phrase"`
	TopicKey   string `json:"topic_key"`
}

// ContradictionDetector groups notes by topic, extracts numeric claims per
// group, and flags claims from different notes that disagree on a value.
type ContradictionDetector struct {
	config    *config.DomainConfig
	extractor *ClaimExtractor
	analyzer  TextAnalyzer
}

// NewContradictionDetector creates a contradiction detector
func NewContradictionDetector(cfg *config.DomainConfig, extractor *ClaimExtractor, analyzer TextAnalyzer) *ContradictionDetector {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if extractor == nil {
		extractor = NewClaimExtractor()
	}
	if analyzer == nil {
		analyzer = NewDefaultTextAnalyzer()
	}
	return &ContradictionDetector{config: cfg, extractor: extractor, analyzer: analyzer}
}

// Detect finds contradictions across the note collection. A note typically
// belongs to several topic groups, so findings are deduplicated by note pair
// and unit phrase: the same disagreement surfacing through both a shared tag
// and a shared title word is reported once.
func (cd *ContradictionDetector) Detect(notes []*entities.Note) []Contradiction {
	byID := make(map[string]*entities.Note, len(notes))
	for _, note := range notes {
		if note != nil {
			byID[note.ID().String()] = note
		}
	}

	groups := cd.BuildTopicGroups(notes)

	// Claims per note, extracted once and reused across groups
	claims := make(map[string][]Claim, len(byID))
	for id, note := range byID {
		claims[id] = cd.extractor.Extract(note)
	}

	findings := []Contradiction{}
	seen := make(map[string]bool)

	for _, group := range groups {
		if len(group.NoteIDs) < cd.config.MinTopicGroupSize {
			continue
		}

		groupClaims := []Claim{}
		for _, id := range group.NoteIDs {
			groupClaims = append(groupClaims, claims[id]...)
		}

		for i := 0; i < len(groupClaims); i++ {
			for j := i + 1; j < len(groupClaims); j++ {
				a, b := groupClaims[i], groupClaims[j]

				// A note's own claims are never compared against themselves
				if a.NoteID == b.NoteID {
					continue
				}
				if a.UnitPhrase == "" || a.UnitPhrase != b.UnitPhrase {
					continue
				}
				if a.NumericValue == b.NumericValue {
					continue
				}

				key := pairKey(a.NoteID, b.NoteID) + "|" + a.UnitPhrase
				if seen[key] {
					continue
				}
				seen[key] = true

				first, second := a, b
				if second.NoteID < first.NoteID {
					first, second = second, first
				}
				findings = append(findings, Contradiction{
					NoteA:      first.NoteID,
					NoteB:      second.NoteID,
					TitleA:     byID[first.NoteID].Content().Title(),
					TitleB:     byID[second.NoteID].Content().Title(),
					ValueA:     first.NumericValue,
					ValueB:     second.NumericValue,
					UnitPhrase: first.UnitPhrase,
					TopicKey:   group.Key,
				})
			}
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].NoteA != findings[j].NoteA {
			return findings[i].NoteA < findings[j].NoteA
		}
		if findings[i].NoteB != findings[j].NoteB {
			return findings[i].NoteB < findings[j].NoteB
		}
		return findings[i].UnitPhrase < findings[j].UnitPhrase
	})

	return findings
}

// BuildTopicGroups groups notes by shared tags and by case-folded title
// words longer than the configured minimum
func (cd *ContradictionDetector) BuildTopicGroups(notes []*entities.Note) []TopicGroup {
	members := make(map[string][]string)

	for _, note := range notes {
		if note == nil {
			continue
		}
		id := note.ID().String()

		for _, tag := range note.Tags() {
			key := "tag:" + strings.ToLower(tag)
			members[key] = appendUnique(members[key], id)
		}

		for _, word := range cd.analyzer.ExtractSignificantWords(note.Content().Title(), cd.config.TopicKeywordMinLength) {
			key := "word:" + word
			members[key] = appendUnique(members[key], id)
		}
	}

	keys := make([]string, 0, len(members))
	for key := range members {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]TopicGroup, 0, len(keys))
	for _, key := range keys {
		ids := members[key]
		sort.Strings(ids)
		groups = append(groups, TopicGroup{Key: key, NoteIDs: ids})
	}

	return groups
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
