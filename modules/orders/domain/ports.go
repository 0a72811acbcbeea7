package domain

import (
	"context"

	"github.com/tabison/suppliers/modules/shared/types"
)

// Product is the catalog data an order line snapshots.
type Product struct {
	ID    string
	Name  string
	Image string
	Price types.Money
}

// StockLine is one product quantity to reserve or release.
type StockLine struct {
	ProductID string
	Quantity  int
}

// Catalog is the orders module's view of the catalog.
type Catalog interface {
	// Products resolves ids; unknown ids are absent from the result.
	Products(ctx context.Context, ids []string) (map[string]Product, error)
	// Reserve decrements stock for every line or for none, joining the
	// transaction in ctx. It fails with ErrInsufficientStock.
	Reserve(ctx context.Context, lines []StockLine) error
	// Release returns stock, joining the transaction in ctx.
	Release(ctx context.Context, lines []StockLine) error
}

// CartLine is one line of a buyer's cart.
type CartLine struct {
	ProductID string
	Quantity  int
}

// Carts is the orders module's view of the cart.
type Carts interface {
	Lines(ctx context.Context, userID types.UserID) ([]CartLine, error)
	Clear(ctx context.Context, userID types.UserID) error
}

// StockLines converts order lines into stock lines.
func StockLines(items []LineItem) []StockLine {
	lines := make([]StockLine, len(items))
	for i, item := range items {
		lines[i] = StockLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return lines
}
