package commands

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/catalog/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// StockRequest asks for quantity units of one product.
type StockRequest struct {
	ProductID string
	Quantity  int
}

// AdjustStockHandler reserves and releases stock for orders. It joins the
// caller's transaction when ctx carries one.
type AdjustStockHandler struct {
	repo domain.ProductRepository
}

func NewAdjustStockHandler(repo domain.ProductRepository) *AdjustStockHandler {
	return &AdjustStockHandler{repo: repo}
}

// Reserve decrements stock for all requests or none.
func (h *AdjustStockHandler) Reserve(ctx context.Context, reqs []StockRequest) error {
	lines, err := toLines(reqs)
	if err != nil {
		return err
	}
	if err := h.repo.Reserve(ctx, lines); err != nil {
		return fmt.Errorf("reserving stock: %w", err)
	}
	return nil
}

// Release returns stock taken by Reserve.
func (h *AdjustStockHandler) Release(ctx context.Context, reqs []StockRequest) error {
	lines, err := toLines(reqs)
	if err != nil {
		return err
	}
	if err := h.repo.Release(ctx, lines); err != nil {
		return fmt.Errorf("releasing stock: %w", err)
	}
	return nil
}

func toLines(reqs []StockRequest) ([]domain.StockLine, error) {
	lines := make([]domain.StockLine, 0, len(reqs))
	for _, r := range reqs {
		id, err := types.ParseProductID(r.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product ID %q: %w", r.ProductID, err)
		}
		if r.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		lines = append(lines, domain.StockLine{ProductID: id, Quantity: r.Quantity})
	}
	return lines, nil
}
