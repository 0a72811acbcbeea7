// Package persistence implements repository interfaces for orders.
package persistence

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// InMemoryRepository implements OrderRepository using in-memory storage.
// It stores state copies so callers never share an aggregate.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.State
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		orders: make(map[string]domain.State),
	}
}

// Compile-time interface check.
var _ domain.OrderRepository = (*InMemoryRepository)(nil)

func (r *InMemoryRepository) Save(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID().String()] = order.State()
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id types.OrderID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.orders[id.String()]
	if !exists {
		return nil, domain.ErrOrderNotFound
	}
	return domain.Reconstitute(state), nil
}

func (r *InMemoryRepository) FindAll(ctx context.Context, filter domain.ListFilter, offset, limit int) ([]*domain.Order, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	slices.SortFunc(matched, func(a, b domain.State) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID.String(), a.ID.String())
	})

	total := len(matched)
	if offset >= total {
		return []*domain.Order{}, total, nil
	}
	end := min(offset+limit, total)

	page := make([]*domain.Order, 0, end-offset)
	for _, s := range matched[offset:end] {
		page = append(page, domain.Reconstitute(s))
	}
	return page, total, nil
}

func (r *InMemoryRepository) Count(ctx context.Context, filter domain.ListFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.match(filter)), nil
}

func (r *InMemoryRepository) PaidRevenue(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum int64
	for _, s := range r.orders {
		if s.IsPaid {
			sum += s.Pricing.Total.Amount()
		}
	}
	return sum, nil
}

func (r *InMemoryRepository) match(filter domain.ListFilter) []domain.State {
	var matched []domain.State
	for _, s := range r.orders {
		if !filter.UserID.IsZero() && s.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		matched = append(matched, s)
	}
	return matched
}
