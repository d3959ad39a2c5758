package entities

import (
	"fmt"
	"strings"
	"time"

	"cortex/domain/config"
	"cortex/domain/core/valueobjects"
	"cortex/domain/events"
	pkgerrors "cortex/pkg/errors"
)

// NoteStatus represents the lifecycle state of a note
type NoteStatus string

const (
	StatusActive   NoteStatus = "active"
	StatusArchived NoteStatus = "archived"
)

// Note is the main aggregate representing a single note on a user's canvas.
// Fields are private; all mutation goes through methods that enforce the
// business rules and record domain events.
type Note struct {
	id        valueobjects.NoteID
	userID    string
	content   valueobjects.NoteContent
	position  valueobjects.Position
	tags      []string
	createdAt time.Time
	updatedAt time.Time
	version   int
	status    NoteStatus

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// NewNote creates a new note with full business rule validation
func NewNote(userID string, content valueobjects.NoteContent, position valueobjects.Position) (*Note, error) {
	return NewNoteWithID(valueobjects.NewNoteID(), userID, content, position)
}

// NewNoteWithID creates a new note with a caller-supplied identifier. The
// HTTP layer generates IDs up front so responses can reference the note
// before the command completes.
func NewNoteWithID(id valueobjects.NoteID, userID string, content valueobjects.NoteContent, position valueobjects.Position) (*Note, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	now := time.Now()
	note := &Note{
		id:        id,
		userID:    userID,
		content:   content,
		position:  position,
		tags:      []string{},
		createdAt: now,
		updatedAt: now,
		version:   1,
		status:    StatusActive,
		events:    []events.DomainEvent{},
	}

	keywords := extractKeywords(content.Title() + " " + content.Body())

	note.addEvent(events.NewNoteCreated(
		note.id,
		userID,
		content.Title(),
		keywords,
		[]string{},
		now,
	))

	return note, nil
}

// ReconstructNote rebuilds a note from repository data with preserved timestamps
func ReconstructNote(
	id valueobjects.NoteID,
	userID string,
	content valueobjects.NoteContent,
	position valueobjects.Position,
	tags []string,
	createdAt, updatedAt time.Time,
	version int,
	status NoteStatus,
) (*Note, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	if tags == nil {
		tags = []string{}
	}
	if version < 1 {
		version = 1
	}

	return &Note{
		id:        id,
		userID:    userID,
		content:   content,
		position:  position,
		tags:      tags,
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
		status:    status,
		events:    []events.DomainEvent{},
	}, nil
}

// ID returns the note's unique identifier
func (n *Note) ID() valueobjects.NoteID {
	return n.id
}

// UserID returns the owner's ID
func (n *Note) UserID() string {
	return n.userID
}

// Content returns the note's content
func (n *Note) Content() valueobjects.NoteContent {
	return n.content
}

// Position returns the note's canvas position
func (n *Note) Position() valueobjects.Position {
	return n.position
}

// Status returns the note's current status
func (n *Note) Status() NoteStatus {
	return n.status
}

// Version returns the note's version for optimistic locking
func (n *Note) Version() int {
	return n.version
}

// UpdateContent updates the note's content with validation
func (n *Note) UpdateContent(content valueobjects.NoteContent) error {
	if n.status == StatusArchived {
		return pkgerrors.NewValidationError("cannot update archived note")
	}

	if content.IsEmpty() {
		return pkgerrors.NewValidationError("content cannot be empty")
	}

	if content.Equals(n.content) {
		return nil // No change needed
	}

	oldContent := n.content
	n.content = content
	n.updatedAt = time.Now()
	n.version++

	n.addEvent(events.NewNoteContentUpdated(n.id, oldContent, content, n.updatedAt))

	return nil
}

// MoveTo moves the note to a new canvas position
func (n *Note) MoveTo(position valueobjects.Position) error {
	if n.status == StatusArchived {
		return pkgerrors.NewValidationError("cannot move archived note")
	}

	if position.Equals(n.position) {
		return nil // No movement needed
	}

	oldPosition := n.position
	n.position = position
	n.updatedAt = time.Now()

	n.addEvent(events.NewNoteMoved(n.id, oldPosition, position, n.updatedAt))

	return nil
}

// Archive moves the note to archived status
func (n *Note) Archive() error {
	if n.status == StatusArchived {
		return nil // Already archived
	}

	n.status = StatusArchived
	n.updatedAt = time.Now()
	n.version++

	n.addEvent(events.NewNoteArchived(n.id, n.updatedAt))

	return nil
}

// AddTag adds a tag to the note
func (n *Note) AddTag(tag string) error {
	return n.AddTagWithConfig(tag, config.DefaultDomainConfig())
}

// AddTagWithConfig adds a tag to the note with configuration
func (n *Note) AddTagWithConfig(tag string, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	tag = strings.TrimSpace(strings.ToLower(tag))
	if tag == "" {
		return pkgerrors.NewValidationError("tag cannot be empty")
	}

	for _, t := range n.tags {
		if t == tag {
			return nil // Tag already exists
		}
	}

	if len(n.tags) >= cfg.MaxTagsPerNote {
		return fmt.Errorf("maximum tags reached: %d", cfg.MaxTagsPerNote)
	}

	n.tags = append(n.tags, tag)
	n.updatedAt = time.Now()

	// Keep the pending NoteCreated event in sync with the tags
	for i, event := range n.events {
		if created, ok := event.(events.NoteCreated); ok {
			created.Tags = n.Tags()
			n.events[i] = created
			break
		}
	}

	return nil
}

// RemoveTag removes a tag from the note
func (n *Note) RemoveTag(tag string) error {
	tag = strings.TrimSpace(strings.ToLower(tag))
	newTags := []string{}
	found := false

	for _, t := range n.tags {
		if t != tag {
			newTags = append(newTags, t)
		} else {
			found = true
		}
	}

	if !found {
		return pkgerrors.NewNotFoundError("tag")
	}

	n.tags = newTags
	n.updatedAt = time.Now()

	return nil
}

// HasTag reports whether the note carries the given tag
func (n *Note) HasTag(tag string) bool {
	tag = strings.TrimSpace(strings.ToLower(tag))
	for _, t := range n.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags returns all tags
func (n *Note) Tags() []string {
	// Return a copy to maintain encapsulation
	tags := make([]string, len(n.tags))
	copy(tags, n.tags)
	return tags
}

// CreatedAt returns when the note was created
func (n *Note) CreatedAt() time.Time {
	return n.createdAt
}

// UpdatedAt returns when the note was last updated
func (n *Note) UpdatedAt() time.Time {
	return n.updatedAt
}

// GetUncommittedEvents returns all uncommitted domain events
func (n *Note) GetUncommittedEvents() []events.DomainEvent {
	return n.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (n *Note) MarkEventsAsCommitted() {
	n.events = []events.DomainEvent{}
}

// addEvent adds a domain event to the uncommitted list
func (n *Note) addEvent(event events.DomainEvent) {
	n.events = append(n.events, event)
}

// extractKeywords extracts significant words from text for similarity matching
func extractKeywords(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	keywords := []string{}

	stopWords := map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true,
		"but": true, "in": true, "on": true, "at": true, "to": true,
		"for": true, "of": true, "with": true, "is": true, "are": true,
		"was": true, "were": true, "be": true, "been": true, "being": true,
		"have": true, "has": true, "had": true, "do": true, "does": true,
		"did": true, "will": true, "would": true, "could": true, "should": true,
	}

	seen := make(map[string]bool)
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")

		if len(word) > 3 && !stopWords[word] && !seen[word] {
			keywords = append(keywords, word)
			seen[word] = true
		}
	}

	return keywords
}
