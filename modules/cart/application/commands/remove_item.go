package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/tabison/suppliers/modules/cart/application/queries"
	"github.com/tabison/suppliers/modules/cart/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// RemoveItemCommand drops a product from the cart. Removing an absent
// product succeeds.
type RemoveItemCommand struct {
	UserID    string
	ProductID string
}

type RemoveItemHandler struct {
	repo     domain.CartRepository
	resolver *queries.Resolver
}

func NewRemoveItemHandler(repo domain.CartRepository, resolver *queries.Resolver) *RemoveItemHandler {
	return &RemoveItemHandler{repo: repo, resolver: resolver}
}

var errUnchanged = errors.New("cart unchanged")

func (h *RemoveItemHandler) Handle(ctx context.Context, cmd RemoveItemCommand) (*queries.CartView, error) {
	userID, err := types.ParseUserID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	cart, err := h.repo.Mutate(ctx, userID, func(c *domain.Cart) error {
		if !c.Remove(productKey(cmd.ProductID)) {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		cart, err = h.repo.Load(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("removing item: %w", err)
	}
	return h.resolver.Resolve(ctx, cart)
}
