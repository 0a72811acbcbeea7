// Package commands contains write use cases for the orders module.
package commands

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/orders/domain"
)

// AddressInput is a shipping address as submitted by the buyer.
type AddressInput struct {
	FullName   string
	Phone      string
	Street     string
	City       string
	County     string
	PostalCode string
	Country    string
}

func (a AddressInput) toDomain() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName:   a.FullName,
		Phone:      a.Phone,
		Street:     a.Street,
		City:       a.City,
		County:     a.County,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// ItemInput is one requested product quantity.
type ItemInput struct {
	ProductID string
	Quantity  int
}

// snapshotLines copies the current catalog name, image and price into order
// lines. Any unknown product fails the whole snapshot.
func snapshotLines(ctx context.Context, catalog domain.Catalog, items []ItemInput) ([]domain.LineItem, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		ids = append(ids, it.ProductID)
	}

	products, err := catalog.Products(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("looking up products: %w", err)
	}

	lines := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, it.ProductID)
		}
		lines = append(lines, domain.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
		})
	}
	return lines, nil
}
