// Package queries contains the dashboard read use cases.
package queries

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tabison/suppliers/modules/shared/transaction"
)

// Counters are the module reads the dashboard aggregates.
type (
	UserCounter interface {
		CountUsers(ctx context.Context) (int, error)
	}
	ProductCounter interface {
		CountProducts(ctx context.Context) (int, error)
		CountLowStock(ctx context.Context) (int, error)
	}
	OrderCounter interface {
		CountOrders(ctx context.Context, status string) (int, error)
		PaidRevenue(ctx context.Context) (int64, error)
	}
)

// AnalyticsDTO is the admin dashboard summary.
type AnalyticsDTO struct {
	TotalUsers       int    `json:"totalUsers"`
	TotalProducts    int    `json:"totalProducts"`
	LowStockProducts int    `json:"lowStockProducts"`
	TotalOrders      int    `json:"totalOrders"`
	PendingOrders    int    `json:"pendingOrders"`
	PaidRevenue      int64  `json:"paidRevenue"`
	Currency         string `json:"currency"`
}

type GetAnalyticsHandler struct {
	snapshot transaction.Scope
	users    UserCounter
	products ProductCounter
	orders   OrderCounter
	currency string
}

// NewGetAnalyticsHandler creates the handler. snapshot may be nil, in which
// case every count reads the latest committed state on its own.
func NewGetAnalyticsHandler(snapshot transaction.Scope, users UserCounter, products ProductCounter, orders OrderCounter, currency string) *GetAnalyticsHandler {
	return &GetAnalyticsHandler{snapshot: snapshot, users: users, products: products, orders: orders, currency: currency}
}

// Handle runs every count concurrently inside one snapshot. The first
// failure cancels the rest and fails the whole summary.
func (h *GetAnalyticsHandler) Handle(ctx context.Context) (*AnalyticsDTO, error) {
	if h.snapshot == nil {
		return h.count(ctx)
	}
	return transaction.ExecuteWithResult(ctx, h.snapshot, h.count)
}

func (h *GetAnalyticsHandler) count(ctx context.Context) (*AnalyticsDTO, error) {
	out := &AnalyticsDTO{Currency: h.currency}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.TotalUsers, err = h.users.CountUsers(ctx)
		return wrap("users", err)
	})
	g.Go(func() (err error) {
		out.TotalProducts, err = h.products.CountProducts(ctx)
		return wrap("products", err)
	})
	g.Go(func() (err error) {
		out.LowStockProducts, err = h.products.CountLowStock(ctx)
		return wrap("low stock products", err)
	})
	g.Go(func() (err error) {
		out.TotalOrders, err = h.orders.CountOrders(ctx, "")
		return wrap("orders", err)
	})
	g.Go(func() (err error) {
		out.PendingOrders, err = h.orders.CountOrders(ctx, "pending")
		return wrap("pending orders", err)
	})
	g.Go(func() (err error) {
		out.PaidRevenue, err = h.orders.PaidRevenue(ctx)
		return wrap("paid revenue", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("counting %s: %w", what, err)
	}
	return nil
}
