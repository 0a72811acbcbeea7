package commands

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/catalog/domain"
	"github.com/tabison/suppliers/modules/shared/transaction"
	"github.com/tabison/suppliers/modules/shared/types"
)

// UpdateProductCommand replaces a product's editable fields.
type UpdateProductCommand struct {
	ProductID string
	ProductInput
}

type UpdateProductHandler struct {
	repo     domain.ProductRepository
	txScope  transaction.Scope
	currency string
}

func NewUpdateProductHandler(repo domain.ProductRepository, txScope transaction.Scope, currency string) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo, txScope: txScope, currency: currency}
}

func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) error {
	id, err := types.ParseProductID(cmd.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}
	details, err := cmd.toDetails(h.currency)
	if err != nil {
		return err
	}

	return h.txScope.Execute(ctx, func(ctx context.Context) error {
		product, err := h.repo.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("finding product: %w", err)
		}
		if err := product.Update(details); err != nil {
			return fmt.Errorf("updating product: %w", err)
		}
		if err := h.repo.Save(ctx, product); err != nil {
			return fmt.Errorf("saving product: %w", err)
		}
		return nil
	})
}
