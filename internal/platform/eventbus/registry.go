package eventbus

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/tabison/suppliers/modules/shared/events"
)

// ErrInvalidSubscription is returned by Subscribe for an empty event type or
// a nil handler.
var ErrInvalidSubscription = errors.New("invalid subscription")

// HandlerRegistry is the read side of a registry, used by the buses.
type HandlerRegistry interface {
	HandlersFor(eventType events.EventType) []events.Handler
}

// EventHandlerRegistry maps event types to handlers in subscription order.
// main wires two: one whose handlers run inside the publishing transaction
// and one whose handlers run after commit.
type EventHandlerRegistry struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[events.EventType][]events.Handler
}

func NewEventHandlerRegistry(logger *slog.Logger) *EventHandlerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandlerRegistry{
		logger:   logger,
		handlers: map[events.EventType][]events.Handler{},
	}
}

func (r *EventHandlerRegistry) Subscribe(eventType events.EventType, handler events.Handler) error {
	if eventType == "" || handler == nil {
		return ErrInvalidSubscription
	}

	r.mu.Lock()
	r.handlers[eventType] = append(r.handlers[eventType], handler)
	n := len(r.handlers[eventType])
	r.mu.Unlock()

	r.logger.Debug("subscribed to event",
		slog.String("event_type", eventType.String()),
		slog.Int("handlers", n))
	return nil
}

// HandlersFor returns a snapshot; later subscriptions do not affect it.
func (r *EventHandlerRegistry) HandlersFor(eventType events.EventType) []events.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.handlers[eventType])
}

var (
	_ events.Subscriber = (*EventHandlerRegistry)(nil)
	_ HandlerRegistry   = (*EventHandlerRegistry)(nil)
)
