package queries

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/catalog/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// LookupProductsHandler resolves a set of product IDs in one read. Unknown
// or malformed IDs are absent from the result.
type LookupProductsHandler struct {
	repo domain.ProductRepository
}

func NewLookupProductsHandler(repo domain.ProductRepository) *LookupProductsHandler {
	return &LookupProductsHandler{repo: repo}
}

func (h *LookupProductsHandler) Handle(ctx context.Context, ids []string) (map[string]*ProductDTO, error) {
	parsed := make([]types.ProductID, 0, len(ids))
	for _, s := range ids {
		id, err := types.ParseProductID(s)
		if err != nil {
			continue
		}
		parsed = append(parsed, id)
	}

	products, err := h.repo.FindByIDs(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("looking up products: %w", err)
	}

	out := make(map[string]*ProductDTO, len(products))
	for id, p := range products {
		out[id] = ToProductDTO(p)
	}
	return out, nil
}
