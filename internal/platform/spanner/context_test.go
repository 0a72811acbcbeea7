package spanner

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestReadTransactionFromContext_Empty(t *testing.T) {
	if _, ok := ReadTransactionFromContext(context.Background()); ok {
		t.Fatal("expected no transaction in empty context")
	}
	if _, ok := ReadWriteTxFromContext(context.Background()); ok {
		t.Fatal("expected no read-write transaction in empty context")
	}
}

func TestWithReadWriteTx_RejectsNesting(t *testing.T) {
	ctx, err := withReadWriteTx(context.Background(), &spanner.ReadWriteTransaction{})
	if err != nil {
		t.Fatalf("first transaction: %v", err)
	}
	if _, ok := ReadTransactionFromContext(ctx); !ok {
		t.Fatal("expected read transaction from read-write context")
	}

	if _, err := withReadWriteTx(ctx, &spanner.ReadWriteTransaction{}); !errors.Is(err, ErrNestedTransaction) {
		t.Errorf("expected ErrNestedTransaction, got %v", err)
	}
	if _, err := withReadOnlyTx(ctx, &spanner.ReadOnlyTransaction{}); !errors.Is(err, ErrNestedTransaction) {
		t.Errorf("expected ErrNestedTransaction for read-only inside read-write, got %v", err)
	}
}

func TestWithReadOnlyTx_RejectsNesting(t *testing.T) {
	rw, err := withReadWriteTx(context.Background(), &spanner.ReadWriteTransaction{})
	if err != nil {
		t.Fatalf("read-write transaction: %v", err)
	}
	if _, err := withReadOnlyTx(rw, &spanner.ReadOnlyTransaction{}); !errors.Is(err, ErrNestedTransaction) {
		t.Errorf("expected ErrNestedTransaction inside read-write, got %v", err)
	}

	ro, err := withReadOnlyTx(context.Background(), &spanner.ReadOnlyTransaction{})
	if err != nil {
		t.Fatalf("read-only transaction: %v", err)
	}
	if _, ok := ReadTransactionFromContext(ro); !ok {
		t.Error("expected a read transaction from the snapshot context")
	}
	if _, ok := ReadWriteTxFromContext(ro); ok {
		t.Error("expected no read-write transaction in a snapshot context")
	}
	if _, err := withReadOnlyTx(ro, &spanner.ReadOnlyTransaction{}); !errors.Is(err, ErrNestedTransaction) {
		t.Errorf("expected ErrNestedTransaction inside read-only, got %v", err)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(status.Error(codes.NotFound, "row not found")) {
		t.Error("expected NotFound to be detected")
	}
	if IsNotFound(status.Error(codes.Internal, "boom")) {
		t.Error("expected Internal not to be NotFound")
	}
}
