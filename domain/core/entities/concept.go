package entities

import (
	"strings"
	"time"

	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// ConceptNode represents a named concept extracted from a user's notes.
// Concepts form an undirected graph: each node lists the concepts it is
// related to, and clustering walks those links.
type ConceptNode struct {
	id         valueobjects.NoteID
	userID     string
	label      string
	relatedIDs []string
	createdAt  time.Time
}

// NewConceptNode creates a concept node with validation
func NewConceptNode(userID, label string, relatedIDs []string) (*ConceptNode, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return nil, pkgerrors.NewValidationError("concept label cannot be empty")
	}

	if relatedIDs == nil {
		relatedIDs = []string{}
	}

	return &ConceptNode{
		id:         valueobjects.NewNoteID(),
		userID:     userID,
		label:      label,
		relatedIDs: relatedIDs,
		createdAt:  time.Now(),
	}, nil
}

// ReconstructConceptNode rebuilds a concept node from repository data
func ReconstructConceptNode(id valueobjects.NoteID, userID, label string, relatedIDs []string, createdAt time.Time) *ConceptNode {
	if relatedIDs == nil {
		relatedIDs = []string{}
	}
	return &ConceptNode{
		id:         id,
		userID:     userID,
		label:      label,
		relatedIDs: relatedIDs,
		createdAt:  createdAt,
	}
}

// ID returns the concept's unique identifier
func (c *ConceptNode) ID() valueobjects.NoteID {
	return c.id
}

// UserID returns the owner's ID
func (c *ConceptNode) UserID() string {
	return c.userID
}

// Label returns the concept's display label
func (c *ConceptNode) Label() string {
	return c.label
}

// RelatedIDs returns the IDs of related concepts
func (c *ConceptNode) RelatedIDs() []string {
	ids := make([]string, len(c.relatedIDs))
	copy(ids, c.relatedIDs)
	return ids
}

// AddRelation links this concept to another
func (c *ConceptNode) AddRelation(conceptID string) {
	for _, id := range c.relatedIDs {
		if id == conceptID {
			return
		}
	}
	c.relatedIDs = append(c.relatedIDs, conceptID)
}

// CreatedAt returns when the concept was created
func (c *ConceptNode) CreatedAt() time.Time {
	return c.createdAt
}
