package local

import (
	"context"
	"sync"

	"cortex/application/ports"
	"cortex/domain/events"

	"go.uber.org/zap"
)

// Bus is an in-process event bus used in development mode and batch tooling,
// where EventBridge is not available. Handlers run synchronously on the
// publishing goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]ports.EventHandler
	logger   *zap.Logger
}

// NewBus creates an in-process event bus
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]ports.EventHandler),
		logger:   logger,
	}
}

// Publish delivers an event to all handlers subscribed to its type
func (b *Bus) Publish(ctx context.Context, event events.DomainEvent) error {
	b.mu.RLock()
	handlers := append([]ports.EventHandler{}, b.handlers[event.GetEventType()]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if !handler.CanHandle(event.GetEventType()) {
			continue
		}
		if err := handler.Handle(ctx, event); err != nil {
			b.logger.Warn("event handler failed",
				zap.String("eventType", event.GetEventType()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// PublishBatch delivers multiple events in order
func (b *Bus) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		if err := b.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe registers a handler for an event type
func (b *Bus) Subscribe(eventType string, handler ports.EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Unsubscribe removes a handler for an event type
func (b *Bus) Unsubscribe(eventType string, handler ports.EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventType]
	for i, h := range handlers {
		if h == handler {
			b.handlers[eventType] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
	return nil
}
