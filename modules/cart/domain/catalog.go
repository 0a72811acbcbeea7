package domain

import (
	"context"

	"github.com/tabison/suppliers/modules/shared/types"
)

// Product is the catalog data the cart joins at read time.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Image       string
	Price       types.Money
	Stock       int
}

// ProductLookup resolves products from the catalog.
type ProductLookup interface {
	// Lookup returns the products that exist, keyed by ID.
	Lookup(ctx context.Context, ids []string) (map[string]Product, error)
}
