package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/transaction"
)

// UnitOfWork runs a command in a transaction with a fresh TransactionalEventBus.
// In-transaction handlers run on Flush before commit; once the transaction
// commits, every flushed event is forwarded to the after-commit publisher.
type UnitOfWork struct {
	txScope     transaction.Scope
	registry    HandlerRegistry
	afterCommit events.Publisher
	logger      *slog.Logger
}

// NewUnitOfWork creates a UnitOfWork. registry and afterCommit may be nil.
func NewUnitOfWork(txScope transaction.Scope, registry HandlerRegistry, afterCommit events.Publisher, logger *slog.Logger) *UnitOfWork {
	if registry == nil {
		registry = NewEventHandlerRegistry(slog.New(slog.DiscardHandler))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UnitOfWork{
		txScope:     txScope,
		registry:    registry,
		afterCommit: afterCommit,
		logger:      logger,
	}
}

// Execute runs fn in the transaction scope. Events fn publishes are
// dispatched to in-transaction handlers before commit, so their failure
// rolls fn back. Forwarding after commit is best-effort and only logged.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, publisher events.Publisher) error) error {
	var bus *TransactionalEventBus
	err := u.txScope.Execute(ctx, func(ctx context.Context) error {
		// Spanner may retry this closure; each attempt gets its own buffer.
		bus = NewTransactional(u.registry, 10)
		if err := fn(ctx, bus); err != nil {
			return err
		}
		if err := bus.Flush(ctx); err != nil {
			return fmt.Errorf("flushing events: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if u.afterCommit == nil || bus == nil {
		return nil
	}
	committed := bus.Flushed()
	if len(committed) == 0 {
		return nil
	}
	if err := u.afterCommit.Publish(ctx, committed...); err != nil {
		u.logger.Error("failed to publish committed events",
			slog.Int("count", len(committed)),
			slog.Any("error", err),
		)
	}
	return nil
}
