// Package catalog adapts the catalog module to the cart's ProductLookup port.
package catalog

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/tabison/suppliers/modules/cart/domain"
	catalogmodule "github.com/tabison/suppliers/modules/catalog"
	"github.com/tabison/suppliers/modules/shared/types"
)

// ProductSource is the slice of the catalog module the cart reads.
type ProductSource interface {
	Products(ctx context.Context, ids []string) (map[string]*catalogmodule.Product, error)
}

// Lookup resolves cart products. Concurrent lookups of the same id set
// share one catalog read.
type Lookup struct {
	source ProductSource
	group  singleflight.Group
}

func NewLookup(source ProductSource) *Lookup {
	return &Lookup{source: source}
}

// Compile-time interface check.
var _ domain.ProductLookup = (*Lookup)(nil)

func (l *Lookup) Lookup(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	if len(ids) == 0 {
		return map[string]domain.Product{}, nil
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	v, err, _ := l.group.Do(strings.Join(sorted, ","), func() (any, error) {
		return l.source.Products(context.WithoutCancel(ctx), sorted)
	})
	if err != nil {
		return nil, err
	}

	found := v.(map[string]*catalogmodule.Product)
	out := make(map[string]domain.Product, len(found))
	for id, p := range found {
		price, err := types.NewMoney(p.Price, p.Currency)
		if err != nil {
			return nil, err
		}
		var image string
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		out[id] = domain.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Image:       image,
			Price:       price,
			Stock:       p.Stock,
		}
	}
	return out, nil
}
