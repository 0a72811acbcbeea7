// Package transaction provides the in-process transaction scope used by the
// memory store driver.
package transaction

import (
	"context"
	"sync"

	"github.com/tabison/suppliers/modules/shared/transaction"
)

type localTxKey struct{}

// LocalScope serializes transactional work in a single process with one lock.
// It gives the in-memory repositories the same check-then-write atomicity a
// Spanner read-write transaction gives the Spanner repositories. It does not
// roll back writes; repositories must keep multi-row changes all-or-nothing.
type LocalScope struct {
	mu sync.Mutex
}

// NewLocalScope creates a new in-process transaction scope.
func NewLocalScope() *LocalScope {
	return &LocalScope{}
}

// Execute runs fn while holding the scope lock. Nested calls made with the
// ctx handed to fn run inline instead of deadlocking.
func (s *LocalScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if InLocalTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, localTxKey{}, true))
}

// InLocalTx reports whether ctx was produced by LocalScope.Execute.
func InLocalTx(ctx context.Context) bool {
	v, ok := ctx.Value(localTxKey{}).(bool)
	return ok && v
}

// Compile-time interface check.
var _ transaction.Scope = (*LocalScope)(nil)
