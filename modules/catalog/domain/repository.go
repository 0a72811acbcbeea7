package domain

import (
	"context"

	"github.com/tabison/suppliers/modules/shared/types"
)

// ListFilter narrows product listings. Zero values match everything.
type ListFilter struct {
	Category Category
	Query    string // case-insensitive match on name, description and tags
	MaxStock *int   // only products with stock <= *MaxStock
}

// StockLine is one product quantity in a reservation.
type StockLine struct {
	ProductID types.ProductID
	Quantity  int
}

// ProductRepository is the persistence port for products.
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error

	// FindByID returns ErrProductNotFound if the product doesn't exist.
	FindByID(ctx context.Context, id types.ProductID) (*Product, error)

	// FindByIDs returns the products that exist, keyed by id string.
	FindByIDs(ctx context.Context, ids []types.ProductID) (map[string]*Product, error)

	// FindAll returns one page of products matching filter, newest first,
	// and the total match count.
	FindAll(ctx context.Context, filter ListFilter, offset, limit int) ([]*Product, int, error)

	Delete(ctx context.Context, id types.ProductID) error

	// Reserve decrements stock for every line or for none: a missing product
	// or a line exceeding stock fails the whole call without writing.
	Reserve(ctx context.Context, lines []StockLine) error

	// Release increments stock for every line. Lines for products that no
	// longer exist are skipped.
	Release(ctx context.Context, lines []StockLine) error
}
