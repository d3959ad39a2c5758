package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity_SelfSimilarityIsOne(t *testing.T) {
	v := []float64{0.3, -1.2, 4.5, 0.01}

	score, err := CosineSimilarity(v, v)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestCosineSimilarity_Symmetry(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-4, 0.5, 2}

	ab, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	ba, err := CosineSimilarity(b, a)
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
}

func TestCosineSimilarity_OrthogonalVectors(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}

	score, err := CosineSimilarity(a, b)

	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-9)
}

func TestCosineSimilarity_OppositeVectors(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{-1, -2}

	score, err := CosineSimilarity(a, b)

	require.NoError(t, err)
	assert.InDelta(t, -1.0, score, 1e-9)
}

func TestCosineSimilarity_ZeroVectorScoresZero(t *testing.T) {
	zero := []float64{0, 0, 0}
	v := []float64{1, 2, 3}

	score, err := CosineSimilarity(zero, v)

	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2}

	_, err := CosineSimilarity(a, b)

	assert.Error(t, err)
}

func TestJaccardSimilarity_SelfSimilarityIsOne(t *testing.T) {
	set := map[string]bool{"alpha": true, "beta": true, "gamma": true}

	assert.Equal(t, 1.0, JaccardSimilarity(set, set))
}

func TestJaccardSimilarity_BothEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, JaccardSimilarity(map[string]bool{}, map[string]bool{}))
}

func TestJaccardSimilarity_PartialOverlap(t *testing.T) {
	a := map[string]bool{"alpha": true, "beta": true}
	b := map[string]bool{"beta": true, "gamma": true}

	// |{beta}| / |{alpha, beta, gamma}|
	assert.InDelta(t, 1.0/3.0, JaccardSimilarity(a, b), 1e-9)
}

func TestJaccardSimilarity_DisjointSetsAreZero(t *testing.T) {
	a := map[string]bool{"alpha": true}
	b := map[string]bool{"beta": true}

	assert.Equal(t, 0.0, JaccardSimilarity(a, b))
}
