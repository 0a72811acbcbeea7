package spanner

import (
	"context"
	"errors"

	"cloud.google.com/go/spanner"

	"github.com/tabison/suppliers/modules/shared/transaction"
)

// ErrNestedTransaction is returned when a scope is entered with a context
// that already carries a transaction.
var ErrNestedTransaction = errors.New("nested transaction detected: Cloud Spanner does not support nested transactions")

// ReadWriteTransactionScope runs work in a Spanner read-write transaction.
type ReadWriteTransactionScope struct {
	client *spanner.Client
}

func NewReadWriteTransactionScope(client *spanner.Client) *ReadWriteTransactionScope {
	return &ReadWriteTransactionScope{client: client}
}

// Execute runs fn within a Spanner ReadWriteTransaction, committing when fn
// returns nil.
//
// Spanner retries fn on Aborted, so fn must not perform external side
// effects such as payment calls or mail. Buffers such as a transactional
// event bus must be created inside fn.
func (s *ReadWriteTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := s.client.ReadWriteTransaction(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		txCtx, err := withReadWriteTx(ctx, tx)
		if err != nil {
			return err
		}
		return fn(txCtx)
	})
	return err
}

// ReadOnlyTransactionScope gives fn one consistent snapshot across reads.
// The transaction is safe for concurrent queries, so fn may fan out.
type ReadOnlyTransactionScope struct {
	client *spanner.Client
}

func NewReadOnlyTransactionScope(client *spanner.Client) *ReadOnlyTransactionScope {
	return &ReadOnlyTransactionScope{client: client}
}

func (s *ReadOnlyTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := s.client.ReadOnlyTransaction()
	defer tx.Close()

	txCtx, err := withReadOnlyTx(ctx, tx)
	if err != nil {
		return err
	}
	return fn(txCtx)
}

// Write buffers mutations on the transaction in ctx, or applies them
// directly when no transaction is active.
func Write(ctx context.Context, client *spanner.Client, ms ...*spanner.Mutation) error {
	if tx, ok := ReadWriteTxFromContext(ctx); ok {
		return tx.BufferWrite(ms)
	}
	_, err := client.Apply(ctx, ms)
	return err
}

// InReadWrite runs fn in the read-write transaction already in ctx, or in a
// new one when none is active. Repository operations that read before they
// write use it so they stay atomic when called outside a scope.
func InReadWrite(ctx context.Context, client *spanner.Client, fn func(ctx context.Context, tx *spanner.ReadWriteTransaction) error) error {
	if tx, ok := ReadWriteTxFromContext(ctx); ok {
		return fn(ctx, tx)
	}
	_, err := client.ReadWriteTransaction(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		txCtx, err := withReadWriteTx(ctx, tx)
		if err != nil {
			return err
		}
		return fn(txCtx, tx)
	})
	return err
}

// Compile-time interface checks.
var (
	_ transaction.Scope = (*ReadWriteTransactionScope)(nil)
	_ transaction.Scope = (*ReadOnlyTransactionScope)(nil)
)
