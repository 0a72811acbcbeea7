package queries

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/orders/domain"
)

// OrderStatsHandler answers the dashboard's order counts.
type OrderStatsHandler struct {
	repo domain.OrderRepository
}

func NewOrderStatsHandler(repo domain.OrderRepository) *OrderStatsHandler {
	return &OrderStatsHandler{repo: repo}
}

// CountOrders counts orders, all of them when status is empty.
func (h *OrderStatsHandler) CountOrders(ctx context.Context, status string) (int, error) {
	var filter domain.ListFilter
	if status != "" {
		s, err := domain.ParseStatus(status)
		if err != nil {
			return 0, err
		}
		filter.Status = s
	}
	n, err := h.repo.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return n, nil
}

func (h *OrderStatsHandler) PaidRevenue(ctx context.Context) (int64, error) {
	sum, err := h.repo.PaidRevenue(ctx)
	if err != nil {
		return 0, fmt.Errorf("summing paid revenue: %w", err)
	}
	return sum, nil
}
