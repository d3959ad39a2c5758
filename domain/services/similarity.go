package services

import (
	"math"

	pkgerrors "cortex/pkg/errors"
)

// CosineSimilarity computes the cosine of the angle between two vectors,
// in [-1, 1]. Vectors must have equal length; a dimension mismatch is a
// caller bug and returns a validation error. If either vector is all-zero
// the result is 0 rather than NaN.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, pkgerrors.NewValidationError("embedding dimension mismatch")
	}
	if len(a) == 0 {
		return 0, nil
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// JaccardSimilarity computes |A ∩ B| / |A ∪ B| over two token sets, in
// [0, 1]. Two empty sets score 0 by convention since 0/0 is undefined.
func JaccardSimilarity(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	union := make(map[string]bool, len(a)+len(b))

	for key := range a {
		union[key] = true
		if b[key] {
			intersection++
		}
	}
	for key := range b {
		union[key] = true
	}

	if len(union) == 0 {
		return 0
	}

	return float64(intersection) / float64(len(union))
}
