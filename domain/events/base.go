package events

import (
	"time"

	"cortex/domain/core/valueobjects"
)

// EventSource is the source name used when events are published externally.
const EventSource = "cortex.analysis"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Note Events

// NoteCreated is raised when a new note is created
type NoteCreated struct {
	BaseEvent
	NoteID   valueobjects.NoteID `json:"note_id"`
	UserID   string              `json:"user_id"`
	Title    string              `json:"title"`
	Keywords []string            `json:"keywords"`
	Tags     []string            `json:"tags"`
}

// NewNoteCreated creates a NoteCreated event
func NewNoteCreated(noteID valueobjects.NoteID, userID, title string, keywords, tags []string, timestamp time.Time) NoteCreated {
	return NoteCreated{
		BaseEvent: BaseEvent{
			AggregateID: noteID.String(),
			EventType:   "note.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID:   noteID,
		UserID:   userID,
		Title:    title,
		Keywords: keywords,
		Tags:     tags,
	}
}

// NoteContentUpdated is raised when note content is updated
type NoteContentUpdated struct {
	BaseEvent
	NoteID     valueobjects.NoteID      `json:"note_id"`
	OldContent valueobjects.NoteContent `json:"old_content"`
	NewContent valueobjects.NoteContent `json:"new_content"`
}

// NewNoteContentUpdated creates a NoteContentUpdated event
func NewNoteContentUpdated(noteID valueobjects.NoteID, oldContent, newContent valueobjects.NoteContent, timestamp time.Time) NoteContentUpdated {
	return NoteContentUpdated{
		BaseEvent: BaseEvent{
			AggregateID: noteID.String(),
			EventType:   "note.content_updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID:     noteID,
		OldContent: oldContent,
		NewContent: newContent,
	}
}

// NoteMoved is raised when a note is moved on the canvas
type NoteMoved struct {
	BaseEvent
	NoteID      valueobjects.NoteID   `json:"note_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewNoteMoved creates a NoteMoved event
func NewNoteMoved(noteID valueobjects.NoteID, oldPos, newPos valueobjects.Position, timestamp time.Time) NoteMoved {
	return NoteMoved{
		BaseEvent: BaseEvent{
			AggregateID: noteID.String(),
			EventType:   "note.moved",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID:      noteID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// NoteArchived is raised when a note is archived
type NoteArchived struct {
	BaseEvent
	NoteID valueobjects.NoteID `json:"note_id"`
}

// NewNoteArchived creates a NoteArchived event
func NewNoteArchived(noteID valueobjects.NoteID, timestamp time.Time) NoteArchived {
	return NoteArchived{
		BaseEvent: BaseEvent{
			AggregateID: noteID.String(),
			EventType:   "note.archived",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID: noteID,
	}
}

// NoteDeleted is raised when a note is deleted
type NoteDeleted struct {
	BaseEvent
	NoteID valueobjects.NoteID `json:"note_id"`
	UserID string              `json:"user_id"`
	Tags   []string            `json:"tags"`
}

// NewNoteDeleted creates a NoteDeleted event
func NewNoteDeleted(noteID valueobjects.NoteID, userID string, tags []string, timestamp time.Time) NoteDeleted {
	return NoteDeleted{
		BaseEvent: BaseEvent{
			AggregateID: noteID.String(),
			EventType:   "note.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID: noteID,
		UserID: userID,
		Tags:   tags,
	}
}

// EmbeddingRecorded is raised when an embedding vector is attached to a note
type EmbeddingRecorded struct {
	BaseEvent
	NoteID    valueobjects.NoteID `json:"note_id"`
	Dimension int                 `json:"dimension"`
}

// NewEmbeddingRecorded creates an EmbeddingRecorded event
func NewEmbeddingRecorded(noteID valueobjects.NoteID, dimension int, timestamp time.Time) EmbeddingRecorded {
	return EmbeddingRecorded{
		BaseEvent: BaseEvent{
			AggregateID: noteID.String(),
			EventType:   "note.embedding_recorded",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID:    noteID,
		Dimension: dimension,
	}
}

// Insight Events

// DuplicatePairDetected is raised when an analysis pass finds two notes with
// near-identical content
type DuplicatePairDetected struct {
	BaseEvent
	UserID string  `json:"user_id"`
	NoteA  string  `json:"note_a"`
	NoteB  string  `json:"note_b"`
	Score  float64 `json:"score"`
}

// NewDuplicatePairDetected creates a DuplicatePairDetected event
func NewDuplicatePairDetected(userID, noteA, noteB string, score float64, timestamp time.Time) DuplicatePairDetected {
	return DuplicatePairDetected{
		BaseEvent: BaseEvent{
			AggregateID: noteA,
			EventType:   "insight.duplicate_detected",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID: userID,
		NoteA:  noteA,
		NoteB:  noteB,
		Score:  score,
	}
}

// ContradictionDetected is raised when two related notes carry conflicting
// numeric claims
type ContradictionDetected struct {
	BaseEvent
	UserID     string `json:"user_id"`
	NoteA      string `json:"note_a"`
	NoteB      string `json:"note_b"`
	UnitPhrase string `json:"unit_phrase"`
}

// NewContradictionDetected creates a ContradictionDetected event
func NewContradictionDetected(userID, noteA, noteB, unitPhrase string, timestamp time.Time) ContradictionDetected {
	return ContradictionDetected{
		BaseEvent: BaseEvent{
			AggregateID: noteA,
			EventType:   "insight.contradiction_detected",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:     userID,
		NoteA:      noteA,
		NoteB:      noteB,
		UnitPhrase: unitPhrase,
	}
}

// MergeCandidateDetected is raised when a group of notes looks mergeable
type MergeCandidateDetected struct {
	BaseEvent
	UserID    string   `json:"user_id"`
	NoteIDs   []string `json:"note_ids"`
	Heuristic string   `json:"heuristic"`
}

// NewMergeCandidateDetected creates a MergeCandidateDetected event
func NewMergeCandidateDetected(userID string, noteIDs []string, heuristic string, timestamp time.Time) MergeCandidateDetected {
	return MergeCandidateDetected{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   "insight.merge_candidate_detected",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:    userID,
		NoteIDs:   noteIDs,
		Heuristic: heuristic,
	}
}

// AnalysisCompleted is raised when a full analysis pass finishes for a user
type AnalysisCompleted struct {
	BaseEvent
	UserID         string `json:"user_id"`
	NotesAnalyzed  int    `json:"notes_analyzed"`
	Duplicates     int    `json:"duplicates"`
	Contradictions int    `json:"contradictions"`
	MergeGroups    int    `json:"merge_groups"`
	Clusters       int    `json:"clusters"`
}

// NewAnalysisCompleted creates an AnalysisCompleted event
func NewAnalysisCompleted(userID string, notesAnalyzed, duplicates, contradictions, mergeGroups, clusters int, timestamp time.Time) AnalysisCompleted {
	return AnalysisCompleted{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   "analysis.completed",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:         userID,
		NotesAnalyzed:  notesAnalyzed,
		Duplicates:     duplicates,
		Contradictions: contradictions,
		MergeGroups:    mergeGroups,
		Clusters:       clusters,
	}
}
