package commands

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/cart/application/queries"
	"github.com/tabison/suppliers/modules/cart/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// ClearCartCommand empties the user's cart.
type ClearCartCommand struct {
	UserID string
}

type ClearCartHandler struct {
	repo     domain.CartRepository
	resolver *queries.Resolver
}

func NewClearCartHandler(repo domain.CartRepository, resolver *queries.Resolver) *ClearCartHandler {
	return &ClearCartHandler{repo: repo, resolver: resolver}
}

func (h *ClearCartHandler) Handle(ctx context.Context, cmd ClearCartCommand) (*queries.CartView, error) {
	userID, err := types.ParseUserID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	if err := h.repo.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("clearing cart: %w", err)
	}
	return h.resolver.Resolve(ctx, domain.NewCart(userID))
}
