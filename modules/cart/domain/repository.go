package domain

import (
	"context"

	"github.com/tabison/suppliers/modules/shared/types"
)

// MutateFunc changes a cart in place. Returning an error aborts the
// mutation without writing.
type MutateFunc func(cart *Cart) error

// CartRepository stores carts.
type CartRepository interface {
	// Load returns the stored cart, or an empty one.
	Load(ctx context.Context, userID types.UserID) (*Cart, error)

	// Mutate applies fn to the current cart and stores the result
	// atomically with respect to concurrent mutations of the same cart.
	// fn may run more than once. It returns the stored cart.
	Mutate(ctx context.Context, userID types.UserID, fn MutateFunc) (*Cart, error)

	// Delete removes the cart. Deleting a missing cart is not an error.
	Delete(ctx context.Context, userID types.UserID) error
}
