// Package commands contains write use cases for the cart module. Every
// command checks its business rule inside the repository mutation, so a
// rejected command writes nothing.
package commands

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/cart/application/queries"
	"github.com/tabison/suppliers/modules/cart/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// AddItemCommand adds quantity units of a product to the user's cart.
type AddItemCommand struct {
	UserID          string
	ProductID       string
	Quantity        int
	SelectedOptions map[string]string
}

type AddItemHandler struct {
	repo     domain.CartRepository
	products domain.ProductLookup
	resolver *queries.Resolver
}

func NewAddItemHandler(repo domain.CartRepository, products domain.ProductLookup, resolver *queries.Resolver) *AddItemHandler {
	return &AddItemHandler{repo: repo, products: products, resolver: resolver}
}

func (h *AddItemHandler) Handle(ctx context.Context, cmd AddItemCommand) (*queries.CartView, error) {
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
		return c.Add(product.ID, cmd.Quantity, cmd.SelectedOptions, product.Stock)
	})
	if err != nil {
		return nil, fmt.Errorf("adding item: %w", err)
	}
	return h.resolver.Resolve(ctx, cart)
}

func lookupOne(ctx context.Context, products domain.ProductLookup, productID string) (domain.Product, error) {
	key := productKey(productID)
	found, err := products.Lookup(ctx, []string{key})
	if err != nil {
		return domain.Product{}, fmt.Errorf("looking up product: %w", err)
	}
	p, ok := found[key]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// productKey returns the canonical form of a product ID, which is how the
// catalog keys lookups and how cart lines store it. Unparseable IDs are
// returned as given and fail the lookup.
func productKey(productID string) string {
	id, err := types.ParseProductID(productID)
	if err != nil {
		return productID
	}
	return id.String()
}
