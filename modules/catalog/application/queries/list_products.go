package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/tabison/suppliers/modules/catalog/domain"
)

// ProductListDTO is one page of products.
type ProductListDTO struct {
	Products   []*ProductDTO `json:"products"`
	TotalCount int           `json:"totalCount"`
	Offset     int           `json:"offset"`
	Limit      int           `json:"limit"`
}

// ListProductsQuery lists products with optional filters.
type ListProductsQuery struct {
	Category string
	Search   string
	Offset   int
	Limit    int
}

type ListProductsHandler struct {
	repo domain.ProductRepository
}

func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) (*ProductListDTO, error) {
	offset := max(query.Offset, 0)
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	filter := domain.ListFilter{Query: strings.TrimSpace(query.Search)}
	if query.Category != "" {
		c, err := domain.ParseCategory(query.Category)
		if err != nil {
			return nil, err
		}
		filter.Category = c
	}

	products, total, err := h.repo.FindAll(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	dtos := make([]*ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = ToProductDTO(p)
	}
	return &ProductListDTO{
		Products:   dtos,
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
	}, nil
}
