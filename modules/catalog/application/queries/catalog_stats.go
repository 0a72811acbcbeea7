package queries

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/catalog/domain"
)

// LowStockThreshold is the stock level at or below which a product counts
// as low on the admin dashboard.
const LowStockThreshold = 10

// CatalogStatsDTO summarizes the catalog.
type CatalogStatsDTO struct {
	TotalProducts    int `json:"totalProducts"`
	LowStockProducts int `json:"lowStockProducts"`
}

type CatalogStatsHandler struct {
	repo domain.ProductRepository
}

func NewCatalogStatsHandler(repo domain.ProductRepository) *CatalogStatsHandler {
	return &CatalogStatsHandler{repo: repo}
}

// CountProducts returns the number of products in the catalog.
func (h *CatalogStatsHandler) CountProducts(ctx context.Context) (int, error) {
	_, total, err := h.repo.FindAll(ctx, domain.ListFilter{}, 0, 1)
	if err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return total, nil
}

// CountLowStock returns the number of products at or below LowStockThreshold.
func (h *CatalogStatsHandler) CountLowStock(ctx context.Context) (int, error) {
	threshold := LowStockThreshold
	_, total, err := h.repo.FindAll(ctx, domain.ListFilter{MaxStock: &threshold}, 0, 1)
	if err != nil {
		return 0, fmt.Errorf("counting low stock products: %w", err)
	}
	return total, nil
}
