// Package adapters connects the orders module's ports to the catalog and
// cart modules' public APIs.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/tabison/suppliers/modules/catalog"
	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// CatalogModule is the slice of the catalog module orders use.
type CatalogModule interface {
	Products(ctx context.Context, ids []string) (map[string]*catalog.Product, error)
	ReserveStock(ctx context.Context, reqs []catalog.StockRequest) error
	ReleaseStock(ctx context.Context, reqs []catalog.StockRequest) error
}

// Catalog implements domain.Catalog over the catalog module and translates
// its errors into order errors.
type Catalog struct {
	module CatalogModule
}

func NewCatalog(module CatalogModule) *Catalog {
	return &Catalog{module: module}
}

// Compile-time interface check.
var _ domain.Catalog = (*Catalog)(nil)

func (c *Catalog) Products(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	found, err := c.module.Products(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[string]domain.Product, len(found))
	for id, p := range found {
		price, err := types.NewMoney(p.Price, p.Currency)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		var image string
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		out[id] = domain.Product{ID: p.ID, Name: p.Name, Image: image, Price: price}
	}
	return out, nil
}

func (c *Catalog) Reserve(ctx context.Context, lines []domain.StockLine) error {
	return translate(c.module.ReserveStock(ctx, stockRequests(lines)))
}

func (c *Catalog) Release(ctx context.Context, lines []domain.StockLine) error {
	return translate(c.module.ReleaseStock(ctx, stockRequests(lines)))
}

func stockRequests(lines []domain.StockLine) []catalog.StockRequest {
	reqs := make([]catalog.StockRequest, len(lines))
	for i, l := range lines {
		reqs[i] = catalog.StockRequest{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return reqs
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrInsufficientStock):
		return fmt.Errorf("%w: %w", domain.ErrInsufficientStock, err)
	case errors.Is(err, catalog.ErrProductNotFound):
		return fmt.Errorf("%w: %w", domain.ErrProductNotFound, err)
	default:
		return err
	}
}
