// Package eventbus provides event infrastructure for inter-module communication.
package eventbus

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tabison/suppliers/modules/shared/events"
)

// InMemoryEventBus delivers events after the publishing transaction has
// committed. Handlers for one event run concurrently; failures are logged
// and never reach the publisher. Use it for side effects such as receipts
// that must not roll back business state.
type InMemoryEventBus struct {
	registry HandlerRegistry
	logger   *slog.Logger
}

func New(registry HandlerRegistry, logger *slog.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: registry,
		logger:   logger,
	}
}

// Publish implements events.Publisher. It returns once every handler has
// finished.
func (b *InMemoryEventBus) Publish(ctx context.Context, evts ...events.Event) error {
	// Handlers outlive request cancellation.
	ctx = context.WithoutCancel(ctx)

	for _, event := range evts {
		handlers := b.registry.HandlersFor(event.EventType())
		b.logger.Debug("publishing event",
			slog.String("event_type", event.EventType().String()),
			slog.String("event_id", event.EventID()),
			slog.Int("handler_count", len(handlers)))

		var g errgroup.Group
		for _, handler := range handlers {
			g.Go(func() error {
				if err := handler.Handle(ctx, event); err != nil {
					b.logger.Error("event handler failed",
						slog.String("event_type", event.EventType().String()),
						slog.String("event_id", event.EventID()),
						slog.Any("error", err))
				}
				return nil
			})
		}
		_ = g.Wait()
	}
	return nil
}

// Compile-time interface check.
var _ events.Publisher = (*InMemoryEventBus)(nil)
