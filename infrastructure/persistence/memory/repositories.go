package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"cortex/application/ports"
	"cortex/application/services"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// In-memory repositories for local development and tests. They satisfy the
// same ports as the DynamoDB implementations and are safe for concurrent
// use.

// NoteRepository is an in-memory ports.NoteRepository
type NoteRepository struct {
	mu    sync.RWMutex
	notes map[string]*entities.Note
}

// NewNoteRepository creates an empty in-memory note repository
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{notes: make(map[string]*entities.Note)}
}

// Save persists a note
func (r *NoteRepository) Save(_ context.Context, note *entities.Note) error {
	if note == nil {
		return pkgerrors.NewValidationError("note cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[note.ID().String()] = note
	return nil
}

// GetByID retrieves a note by its ID
func (r *NoteRepository) GetByID(_ context.Context, id valueobjects.NoteID) (*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	note, ok := r.notes[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("note")
	}
	return note, nil
}

// GetByUserID retrieves all notes for a user, ordered by ID for determinism
func (r *NoteRepository) GetByUserID(_ context.Context, userID string) ([]*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := []*entities.Note{}
	for _, note := range r.notes {
		if note.UserID() == userID {
			notes = append(notes, note)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].ID().String() < notes[j].ID().String()
	})
	return notes, nil
}

// Delete removes a note
func (r *NoteRepository) Delete(_ context.Context, id valueobjects.NoteID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[id.String()]; !ok {
		return pkgerrors.NewNotFoundError("note")
	}
	delete(r.notes, id.String())
	return nil
}

// Search finds notes matching the criteria
func (r *NoteRepository) Search(ctx context.Context, criteria ports.SearchCriteria) ([]*entities.Note, error) {
	notes, err := r.GetByUserID(ctx, criteria.UserID)
	if err != nil {
		return nil, err
	}

	filtered := []*entities.Note{}
	query := strings.ToLower(criteria.Query)
	for _, note := range notes {
		if criteria.Status != "" && string(note.Status()) != criteria.Status {
			continue
		}
		if !hasAllTags(note, criteria.Tags) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(note.Content().Title()), query) &&
			!strings.Contains(strings.ToLower(note.Content().Body()), query) {
			continue
		}
		filtered = append(filtered, note)
	}

	if criteria.Offset >= len(filtered) {
		return []*entities.Note{}, nil
	}
	filtered = filtered[criteria.Offset:]
	if criteria.Limit > 0 && criteria.Limit < len(filtered) {
		filtered = filtered[:criteria.Limit]
	}
	return filtered, nil
}

func hasAllTags(note *entities.Note, tags []string) bool {
	for _, tag := range tags {
		if !note.HasTag(tag) {
			return false
		}
	}
	return true
}

// EmbeddingRepository is an in-memory ports.EmbeddingRepository
type EmbeddingRepository struct {
	mu      sync.RWMutex
	vectors map[string]map[string][]float64 // userID -> noteID -> vector
}

// NewEmbeddingRepository creates an empty in-memory embedding repository
func NewEmbeddingRepository() *EmbeddingRepository {
	return &EmbeddingRepository{vectors: make(map[string]map[string][]float64)}
}

// Save persists an embedding
func (r *EmbeddingRepository) Save(_ context.Context, userID string, embedding valueobjects.Embedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.vectors[userID] == nil {
		r.vectors[userID] = make(map[string][]float64)
	}
	r.vectors[userID][embedding.NoteID()] = embedding.Vector()
	return nil
}

// GetByNoteID retrieves a single note's embedding
func (r *EmbeddingRepository) GetByNoteID(_ context.Context, userID, noteID string) (valueobjects.Embedding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vector, ok := r.vectors[userID][noteID]
	if !ok {
		return valueobjects.Embedding{}, pkgerrors.NewNotFoundError("embedding")
	}
	return valueobjects.NewEmbedding(noteID, vector)
}

// GetByUserID retrieves all embeddings for a user, keyed by note ID
func (r *EmbeddingRepository) GetByUserID(_ context.Context, userID string) (map[string][]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]float64, len(r.vectors[userID]))
	for noteID, vector := range r.vectors[userID] {
		v := make([]float64, len(vector))
		copy(v, vector)
		out[noteID] = v
	}
	return out, nil
}

// Delete removes a note's embedding
func (r *EmbeddingRepository) Delete(_ context.Context, userID, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.vectors[userID], noteID)
	return nil
}

// ConceptRepository is an in-memory ports.ConceptRepository
type ConceptRepository struct {
	mu       sync.RWMutex
	concepts map[string]map[string]*entities.ConceptNode // userID -> conceptID -> concept
}

// NewConceptRepository creates an empty in-memory concept repository
func NewConceptRepository() *ConceptRepository {
	return &ConceptRepository{concepts: make(map[string]map[string]*entities.ConceptNode)}
}

// Save persists a concept node
func (r *ConceptRepository) Save(_ context.Context, concept *entities.ConceptNode) error {
	if concept == nil {
		return pkgerrors.NewValidationError("concept cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.concepts[concept.UserID()] == nil {
		r.concepts[concept.UserID()] = make(map[string]*entities.ConceptNode)
	}
	r.concepts[concept.UserID()][concept.ID().String()] = concept
	return nil
}

// GetByUserID retrieves all concept nodes for a user
func (r *ConceptRepository) GetByUserID(_ context.Context, userID string) ([]*entities.ConceptNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entities.ConceptNode{}
	for _, concept := range r.concepts[userID] {
		out = append(out, concept)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID().String() < out[j].ID().String()
	})
	return out, nil
}

// Delete removes a concept node
func (r *ConceptRepository) Delete(_ context.Context, userID, conceptID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.concepts[userID], conceptID)
	return nil
}

// PositionSource is an in-memory ports.PositionSource
type PositionSource struct {
	mu     sync.RWMutex
	events map[string][]ports.PositionEvent
}

// NewPositionSource creates an empty in-memory position source
func NewPositionSource() *PositionSource {
	return &PositionSource{events: make(map[string][]ports.PositionEvent)}
}

// Record appends a position event for a user
func (r *PositionSource) Record(userID string, event ports.PositionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[userID] = append(r.events[userID], event)
}

// GetByUserID retrieves all recorded position events for a user
func (r *PositionSource) GetByUserID(_ context.Context, userID string) ([]ports.PositionEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ports.PositionEvent, len(r.events[userID]))
	copy(out, r.events[userID])
	return out, nil
}

// InsightRepository is an in-memory services.InsightRepository holding the
// latest report per user
type InsightRepository struct {
	mu      sync.RWMutex
	reports map[string]*services.AnalysisReport
}

// NewInsightRepository creates an empty in-memory insight repository
func NewInsightRepository() *InsightRepository {
	return &InsightRepository{reports: make(map[string]*services.AnalysisReport)}
}

// SaveReport stores the report, replacing any previous one for the user
func (r *InsightRepository) SaveReport(_ context.Context, report *services.AnalysisReport) error {
	if report == nil {
		return pkgerrors.NewValidationError("report cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.UserID] = report
	return nil
}

// GetLatestReport retrieves the most recent report for a user
func (r *InsightRepository) GetLatestReport(_ context.Context, userID string) (*services.AnalysisReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[userID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("analysis report")
	}
	return report, nil
}
