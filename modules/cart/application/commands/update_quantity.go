package commands

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/cart/application/queries"
	"github.com/tabison/suppliers/modules/cart/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// UpdateQuantityCommand sets the quantity of an existing cart line.
type UpdateQuantityCommand struct {
	UserID    string
	ProductID string
	Quantity  int
}

type UpdateQuantityHandler struct {
	repo     domain.CartRepository
	products domain.ProductLookup
	resolver *queries.Resolver
}

func NewUpdateQuantityHandler(repo domain.CartRepository, products domain.ProductLookup, resolver *queries.Resolver) *UpdateQuantityHandler {
	return &UpdateQuantityHandler{repo: repo, products: products, resolver: resolver}
}

func (h *UpdateQuantityHandler) Handle(ctx context.Context, cmd UpdateQuantityCommand) (*queries.CartView, error) {
	userID, err := types.ParseUserID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	if cmd.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := lookupOne(ctx, h.products, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	cart, err := h.repo.Mutate(ctx, userID, func(c *domain.Cart) error {
		return c.SetQuantity(product.ID, cmd.Quantity, product.Stock)
	})
	if err != nil {
		return nil, fmt.Errorf("updating quantity: %w", err)
	}
	return h.resolver.Resolve(ctx, cart)
}
