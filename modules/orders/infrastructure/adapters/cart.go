package adapters

import (
	"context"

	"github.com/tabison/suppliers/modules/cart"
	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// CartModule is the slice of the cart module checkout uses.
type CartModule interface {
	Lines(ctx context.Context, userID string) ([]cart.Line, error)
	Clear(ctx context.Context, userID string) error
}

// Carts implements domain.Carts over the cart module.
type Carts struct {
	module CartModule
}

func NewCarts(module CartModule) *Carts {
	return &Carts{module: module}
}

// Compile-time interface check.
var _ domain.Carts = (*Carts)(nil)

func (c *Carts) Lines(ctx context.Context, userID types.UserID) ([]domain.CartLine, error) {
	lines, err := c.module.Lines(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	out := make([]domain.CartLine, len(lines))
	for i, l := range lines {
		out[i] = domain.CartLine{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return out, nil
}

func (c *Carts) Clear(ctx context.Context, userID types.UserID) error {
	return c.module.Clear(ctx, userID.String())
}
