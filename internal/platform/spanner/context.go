package spanner

import (
	"context"

	"cloud.google.com/go/spanner"
)

// ReadTransaction is the read surface shared by read-write and read-only
// transactions. Repositories read through it so the same query code works
// in both scopes.
type ReadTransaction interface {
	ReadRow(ctx context.Context, table string, key spanner.Key, columns []string) (*spanner.Row, error)
	Read(ctx context.Context, table string, keys spanner.KeySet, columns []string) *spanner.RowIterator
	Query(ctx context.Context, statement spanner.Statement) *spanner.RowIterator
}

type rwTxKey struct{}
type roTxKey struct{}

func withReadWriteTx(ctx context.Context, tx *spanner.ReadWriteTransaction) (context.Context, error) {
	if _, ok := ReadWriteTxFromContext(ctx); ok {
		return nil, ErrNestedTransaction
	}
	return context.WithValue(ctx, rwTxKey{}, tx), nil
}

func withReadOnlyTx(ctx context.Context, tx *spanner.ReadOnlyTransaction) (context.Context, error) {
	if _, ok := ReadWriteTxFromContext(ctx); ok {
		return nil, ErrNestedTransaction
	}
	if _, ok := ctx.Value(roTxKey{}).(*spanner.ReadOnlyTransaction); ok {
		return nil, ErrNestedTransaction
	}
	return context.WithValue(ctx, roTxKey{}, tx), nil
}

// ReadWriteTxFromContext extracts a Spanner ReadWriteTransaction from context.
// Returns (nil, false) if no transaction is present.
func ReadWriteTxFromContext(ctx context.Context) (*spanner.ReadWriteTransaction, bool) {
	tx, ok := ctx.Value(rwTxKey{}).(*spanner.ReadWriteTransaction)
	return tx, ok
}

// ReadTransactionFromContext returns the active transaction for reads,
// preferring a read-write transaction over a read-only one.
func ReadTransactionFromContext(ctx context.Context) (ReadTransaction, bool) {
	if tx, ok := ReadWriteTxFromContext(ctx); ok {
		return tx, true
	}
	if tx, ok := ctx.Value(roTxKey{}).(*spanner.ReadOnlyTransaction); ok {
		return tx, true
	}
	return nil, false
}

// Reader returns the transaction in ctx, or a single-use read-only
// transaction from client when none is active.
func Reader(ctx context.Context, client *spanner.Client) ReadTransaction {
	if tx, ok := ReadTransactionFromContext(ctx); ok {
		return tx
	}
	return client.Single()
}
