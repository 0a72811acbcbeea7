// Package events defines how modules talk to each other without importing
// each other: a module raises an Event, the bus routes it by EventType to
// whichever handlers subscribed.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType is "<module>.<PastTenseVerb>", e.g. "orders.OrderPaid".
type EventType string

func (t EventType) String() string { return string(t) }

// Event is an immutable record of something that already happened.
type Event interface {
	EventID() string
	EventType() EventType
	OccurredAt() time.Time
	// AggregateID is the ID of the order, user or product the event is about.
	AggregateID() string
}

// BaseEvent carries the envelope fields. Contracts embed it.
type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() EventType  { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.AggregateId }

// Publisher delivers events to subscribers. Delivery is synchronous: the
// call returns once every handler ran.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function act as a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

type Subscriber interface {
	Subscribe(eventType EventType, handler Handler) error
}
