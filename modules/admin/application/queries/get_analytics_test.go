package queries_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tabison/suppliers/modules/admin/application/queries"
)

type mockUsers struct {
	countFn func(ctx context.Context) (int, error)
}

func (m *mockUsers) CountUsers(ctx context.Context) (int, error) { return m.countFn(ctx) }

type mockProducts struct {
	countFn    func(ctx context.Context) (int, error)
	lowStockFn func(ctx context.Context) (int, error)
}

func (m *mockProducts) CountProducts(ctx context.Context) (int, error) { return m.countFn(ctx) }
func (m *mockProducts) CountLowStock(ctx context.Context) (int, error) { return m.lowStockFn(ctx) }

type mockOrders struct {
	countFn   func(ctx context.Context, status string) (int, error)
	revenueFn func(ctx context.Context) (int64, error)
}

func (m *mockOrders) CountOrders(ctx context.Context, status string) (int, error) {
	return m.countFn(ctx, status)
}

func (m *mockOrders) PaidRevenue(ctx context.Context) (int64, error) { return m.revenueFn(ctx) }

type snapshotKey struct{}

type mockTransactionScope struct {
	executeFn func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.executeFn(ctx, fn)
}

func fixed(n int) func(ctx context.Context) (int, error) {
	return func(ctx context.Context) (int, error) { return n, nil }
}

func TestGetAnalyticsHandler_Handle(t *testing.T) {
	snapshots := 0
	snapshot := &mockTransactionScope{
		executeFn: func(ctx context.Context, fn func(ctx context.Context) error) error {
			snapshots++
			return fn(context.WithValue(ctx, snapshotKey{}, true))
		},
	}
	orders := &mockOrders{
		countFn: func(ctx context.Context, status string) (int, error) {
			if ctx.Value(snapshotKey{}) == nil {
				return 0, errors.New("count outside the snapshot")
			}
			if status == "pending" {
				return 3, nil
			}
			return 12, nil
		},
		revenueFn: func(ctx context.Context) (int64, error) { return 104400, nil },
	}
	handler := queries.NewGetAnalyticsHandler(
		snapshot,
		&mockUsers{countFn: fixed(7)},
		&mockProducts{countFn: fixed(40), lowStockFn: fixed(5)},
		orders,
		"KES",
	)

	got, err := handler.Handle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := queries.AnalyticsDTO{
		TotalUsers:       7,
		TotalProducts:    40,
		LowStockProducts: 5,
		TotalOrders:      12,
		PendingOrders:    3,
		PaidRevenue:      104400,
		Currency:         "KES",
	}
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, *got)
	}
	if snapshots != 1 {
		t.Errorf("expected one snapshot, got %d", snapshots)
	}
}

func TestGetAnalyticsHandler_Handle_AnyFailureFails(t *testing.T) {
	errDown := errors.New("store unavailable")

	handler := queries.NewGetAnalyticsHandler(
		nil,
		&mockUsers{countFn: fixed(7)},
		&mockProducts{
			countFn: fixed(40),
			lowStockFn: func(ctx context.Context) (int, error) {
				return 0, errDown
			},
		},
		&mockOrders{
			countFn:   func(ctx context.Context, status string) (int, error) { return 1, nil },
			revenueFn: func(ctx context.Context) (int64, error) { return 0, nil },
		},
		"KES",
	)

	got, err := handler.Handle(context.Background())
	if !errors.Is(err, errDown) {
		t.Fatalf("expected errDown, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no summary, got %+v", got)
	}
}
