package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tabison/suppliers/modules/shared/events"
)

// ErrEventProcessingDepthExceeded means handlers kept publishing follow-up
// events past the configured number of rounds.
var ErrEventProcessingDepthExceeded = errors.New("event processing depth exceeded")

const defaultMaxDepth = 10

// TransactionalEventBus holds events raised inside a transaction until Flush,
// which runs their handlers in that same transaction. It is single-use: make
// a new one for every attempt of a retried closure.
//
//	txScope.Execute(ctx, func(ctx context.Context) error {
//	    bus := eventbus.NewTransactional(registry, 0)
//	    bus.Publish(ctx, user.PopDomainEvents()...)
//	    return bus.Flush(ctx)
//	})
type TransactionalEventBus struct {
	registry HandlerRegistry
	maxDepth int

	mu      sync.Mutex
	pending []events.Event
	flushed []events.Event
}

// NewTransactional returns a bus dispatching through registry. maxDepth caps
// how many rounds of handler-published events Flush follows; zero or less
// means 10.
func NewTransactional(registry HandlerRegistry, maxDepth int) *TransactionalEventBus {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &TransactionalEventBus{registry: registry, maxDepth: maxDepth}
}

func (b *TransactionalEventBus) Publish(_ context.Context, evts ...events.Event) error {
	b.mu.Lock()
	b.pending = append(b.pending, evts...)
	b.mu.Unlock()
	return nil
}

// Flush dispatches in rounds. Round one handles what the command published;
// each later round handles what the previous round's handlers published.
// The first handler error aborts the flush.
func (b *TransactionalEventBus) Flush(ctx context.Context) error {
	for round := 0; ; round++ {
		batch := b.takePending()
		if len(batch) == 0 {
			return nil
		}
		if round >= b.maxDepth {
			return fmt.Errorf("%w: %d rounds", ErrEventProcessingDepthExceeded, b.maxDepth)
		}
		for _, event := range batch {
			for _, handler := range b.registry.HandlersFor(event.EventType()) {
				if err := handler.Handle(ctx, event); err != nil {
					return fmt.Errorf("handling %s: %w", event.EventType(), err)
				}
			}
			b.mu.Lock()
			b.flushed = append(b.flushed, event)
			b.mu.Unlock()
		}
	}
}

func (b *TransactionalEventBus) takePending() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	batch := b.pending
	b.pending = nil
	return batch
}

// Flushed lists the events whose handlers all succeeded, in dispatch order.
func (b *TransactionalEventBus) Flushed() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.flushed...)
}

var _ events.Publisher = (*TransactionalEventBus)(nil)
