package commands

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/catalog/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// DeleteProductCommand removes a product. Carts referencing it drop the
// line on their next read; orders keep their snapshot.
type DeleteProductCommand struct {
	ProductID string
}

type DeleteProductHandler struct {
	repo domain.ProductRepository
}

func NewDeleteProductHandler(repo domain.ProductRepository) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo}
}

func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	id, err := types.ParseProductID(cmd.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}
	if err := h.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}
