package valueobjects

import (
	pkgerrors "cortex/pkg/errors"
)

// Embedding is a fixed-length numeric vector representing a note's semantic
// content. Vectors are produced by an external embedding provider; this value
// object only guards the invariants the detectors rely on.
type Embedding struct {
	noteID string
	vector []float64
}

// NewEmbedding creates an embedding with validation
func NewEmbedding(noteID string, vector []float64) (Embedding, error) {
	if noteID == "" {
		return Embedding{}, pkgerrors.NewValidationError("embedding requires a note ID")
	}
	if len(vector) == 0 {
		return Embedding{}, pkgerrors.NewValidationError("embedding vector cannot be empty")
	}

	// Copy to keep the value object immutable
	v := make([]float64, len(vector))
	copy(v, vector)

	return Embedding{noteID: noteID, vector: v}, nil
}

// NoteID returns the owning note's ID
func (e Embedding) NoteID() string {
	return e.noteID
}

// Vector returns a copy of the underlying vector
func (e Embedding) Vector() []float64 {
	v := make([]float64, len(e.vector))
	copy(v, e.vector)
	return v
}

// Dimension returns the vector length
func (e Embedding) Dimension() int {
	return len(e.vector)
}

// IsZero reports whether the embedding is missing or all-zero
func (e Embedding) IsZero() bool {
	if len(e.vector) == 0 {
		return true
	}
	for _, v := range e.vector {
		if v != 0 {
			return false
		}
	}
	return true
}
