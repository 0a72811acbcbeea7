package domain

import (
	"context"

	"github.com/tabison/suppliers/modules/shared/types"
)

// ListFilter narrows order listings. Zero fields match everything.
type ListFilter struct {
	UserID types.UserID
	Status Status
}

// OrderRepository defines persistence operations for orders.
// Orders are never deleted.
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id types.OrderID) (*Order, error)
	// FindAll returns a page ordered newest first and the total match count.
	FindAll(ctx context.Context, filter ListFilter, offset, limit int) ([]*Order, int, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	// PaidRevenue sums the total price of every paid order.
	PaidRevenue(ctx context.Context) (int64, error)
}
