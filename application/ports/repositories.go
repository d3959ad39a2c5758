package ports

import (
	"context"

	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	"cortex/domain/events"
)

// NoteRepository defines the interface for note persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type NoteRepository interface {
	// Save persists a note (create or update)
	Save(ctx context.Context, note *entities.Note) error

	// GetByID retrieves a note by its ID
	GetByID(ctx context.Context, id valueobjects.NoteID) (*entities.Note, error)

	// GetByUserID retrieves all notes for a user
	GetByUserID(ctx context.Context, userID string) ([]*entities.Note, error)

	// Delete removes a note
	Delete(ctx context.Context, id valueobjects.NoteID) error

	// Search finds notes matching the given criteria
	Search(ctx context.Context, criteria SearchCriteria) ([]*entities.Note, error)
}

// EmbeddingRepository stores embedding vectors keyed by note ID. Vectors are
// produced by an external embedding provider and only read here.
type EmbeddingRepository interface {
	// Save persists an embedding for a note
	Save(ctx context.Context, userID string, embedding valueobjects.Embedding) error

	// GetByNoteID retrieves a single note's embedding
	GetByNoteID(ctx context.Context, userID, noteID string) (valueobjects.Embedding, error)

	// GetByUserID retrieves all embeddings for a user, keyed by note ID
	GetByUserID(ctx context.Context, userID string) (map[string][]float64, error)

	// Delete removes a note's embedding
	Delete(ctx context.Context, userID, noteID string) error
}

// ConceptRepository stores the concept graph extracted from a user's notes
type ConceptRepository interface {
	// Save persists a concept node
	Save(ctx context.Context, concept *entities.ConceptNode) error

	// GetByUserID retrieves all concept nodes for a user
	GetByUserID(ctx context.Context, userID string) ([]*entities.ConceptNode, error)

	// Delete removes a concept node
	Delete(ctx context.Context, userID, conceptID string) error
}

// PositionSource supplies the position events used for spatial clustering
type PositionSource interface {
	// GetByUserID retrieves all recorded position events for a user
	GetByUserID(ctx context.Context, userID string) ([]PositionEvent, error)
}

// PositionEvent is a recorded canvas position with its owning entity
type PositionEvent struct {
	X       float64
	Y       float64
	OwnerID string
}

// SearchCriteria defines search parameters
type SearchCriteria struct {
	UserID    string
	Query     string
	Tags      []string
	Status    string
	Limit     int
	Offset    int
	OrderBy   string
	OrderDesc bool
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventBus defines the interface for publishing domain events
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for an event type
	Subscribe(eventType string, handler EventHandler) error

	// Unsubscribe removes a handler
	Unsubscribe(eventType string, handler EventHandler) error
}

// EventHandler defines the interface for handling domain events
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event events.DomainEvent) error

	// CanHandle checks if this handler can process the event
	CanHandle(eventType string) bool
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
