package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortex/domain/core/entities"
)

func TestConceptClusterDetector_ConnectedComponentWithIsolatedNode(t *testing.T) {
	// Arrange: A-B and B-C connected, D isolated
	a := newTestConcept(t, "alpha")
	b := newTestConcept(t, "beta", a.ID().String())
	c := newTestConcept(t, "gamma", b.ID().String())
	d := newTestConcept(t, "delta")
	detector := NewConceptClusterDetector(nil)

	// Act
	clusters := detector.Detect([]*entities.ConceptNode{a, b, c, d})

	// Assert: one cluster of {A, B, C}, D excluded
	require.Len(t, clusters, 1)
	assert.Equal(t, 3, clusters[0].Size)
	assert.ElementsMatch(t,
		[]string{a.ID().String(), b.ID().String(), c.ID().String()},
		clusters[0].ConceptIDs)
	assert.NotContains(t, clusters[0].ConceptIDs, d.ID().String())
}

func TestConceptClusterDetector_SortedByDescendingSize(t *testing.T) {
	a := newTestConcept(t, "a")
	b := newTestConcept(t, "b", a.ID().String())
	c := newTestConcept(t, "c")
	d := newTestConcept(t, "d", c.ID().String())
	e := newTestConcept(t, "e", c.ID().String())
	detector := NewConceptClusterDetector(nil)

	clusters := detector.Detect([]*entities.ConceptNode{a, b, c, d, e})

	require.Len(t, clusters, 2)
	assert.Equal(t, 3, clusters[0].Size)
	assert.Equal(t, 2, clusters[1].Size)
}

func TestConceptClusterDetector_RelationsAreUndirected(t *testing.T) {
	// Only B lists the relation, but A still joins the cluster
	a := newTestConcept(t, "a")
	b := newTestConcept(t, "b", a.ID().String())
	detector := NewConceptClusterDetector(nil)

	clusters := detector.Detect([]*entities.ConceptNode{a, b})

	require.Len(t, clusters, 1)
	assert.ElementsMatch(t,
		[]string{a.ID().String(), b.ID().String()},
		clusters[0].ConceptIDs)
}

func TestConceptClusterDetector_UnknownRelationsDropped(t *testing.T) {
	a := newTestConcept(t, "a", "no-such-concept")
	detector := NewConceptClusterDetector(nil)

	clusters := detector.Detect([]*entities.ConceptNode{a})

	assert.Empty(t, clusters)
}

func TestConceptClusterDetector_EmptyInput(t *testing.T) {
	detector := NewConceptClusterDetector(nil)

	assert.Empty(t, detector.Detect(nil))
}

func TestConceptClusterDetector_Idempotent(t *testing.T) {
	a := newTestConcept(t, "a")
	b := newTestConcept(t, "b", a.ID().String())
	detector := NewConceptClusterDetector(nil)
	concepts := []*entities.ConceptNode{a, b}

	assert.Equal(t, detector.Detect(concepts), detector.Detect(concepts))
}
