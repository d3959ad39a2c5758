package services

import (
	"sort"

	"cortex/domain/config"
	"cortex/domain/core/entities"
)

// ConceptCluster is a connected component of the concept graph.
type ConceptCluster struct {
	ConceptIDs []string `json:"concept_ids"`
	Labels     []string `json:"labels"`
	Size       int      `json:"size"`
}

// ConceptClusterDetector finds groups of related concepts as connected
// components of the concept graph. Relations are treated as undirected even
// when the upstream edge carries a direction.
type ConceptClusterDetector struct {
	config *config.DomainConfig
}

// NewConceptClusterDetector creates a concept cluster detector
func NewConceptClusterDetector(cfg *config.DomainConfig) *ConceptClusterDetector {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ConceptClusterDetector{config: cfg}
}

// Detect returns connected components of size >= the configured minimum,
// sorted by descending size. Isolated concepts are excluded.
func (cc *ConceptClusterDetector) Detect(concepts []*entities.ConceptNode) []ConceptCluster {
	byID := make(map[string]*entities.ConceptNode, len(concepts))
	adjacency := make(map[string][]string, len(concepts))

	for _, concept := range concepts {
		if concept == nil {
			continue
		}
		byID[concept.ID().String()] = concept
	}

	// Build a symmetric adjacency list; relations pointing at unknown
	// concepts are dropped
	for id, concept := range byID {
		for _, related := range concept.RelatedIDs() {
			if related == id {
				continue
			}
			if _, ok := byID[related]; !ok {
				continue
			}
			adjacency[id] = append(adjacency[id], related)
			adjacency[related] = append(adjacency[related], id)
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	visited := make(map[string]bool, len(ids))
	clusters := []ConceptCluster{}

	for _, start := range ids {
		if visited[start] {
			continue
		}

		// Breadth-first walk from this concept
		component := []string{}
		queue := []string{start}
		visited[start] = true

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component = append(component, current)

			for _, neighbor := range adjacency[current] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}

		if len(component) < cc.config.MinClusterSize {
			continue
		}

		sort.Strings(component)
		labels := make([]string, len(component))
		for i, id := range component {
			labels[i] = byID[id].Label()
		}

		clusters = append(clusters, ConceptCluster{
			ConceptIDs: component,
			Labels:     labels,
			Size:       len(component),
		})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].Size != clusters[j].Size {
			return clusters[i].Size > clusters[j].Size
		}
		return clusters[i].ConceptIDs[0] < clusters[j].ConceptIDs[0]
	})

	return clusters
}
