// Package queries contains read use cases for the catalog module.
package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/tabison/suppliers/modules/catalog/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// ProductDTO is the read model for a product.
type ProductDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Price          int64     `json:"price"`
	WholesalePrice int64     `json:"wholesalePrice,omitempty"`
	Currency       string    `json:"currency"`
	Stock          int       `json:"stock"`
	InStock        bool      `json:"inStock"`
	Tags           []string  `json:"tags"`
	Images         []string  `json:"images"`
	SupplierID     string    `json:"supplierId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ToProductDTO maps a product to its read model.
func ToProductDTO(p *domain.Product) *ProductDTO {
	tags, images := p.Tags(), p.Images()
	if tags == nil {
		tags = []string{}
	}
	if images == nil {
		images = []string{}
	}
	return &ProductDTO{
		ID:             p.ID().String(),
		Name:           p.Name(),
		Description:    p.Description(),
		Category:       p.Category().String(),
		Price:          p.Price().Amount(),
		WholesalePrice: p.WholesalePrice().Amount(),
		Currency:       p.Price().Currency(),
		Stock:          p.Stock(),
		InStock:        p.Stock() > 0,
		Tags:           tags,
		Images:         images,
		SupplierID:     p.SupplierID(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
}

// GetProductQuery requests one product by ID.
type GetProductQuery struct {
	ProductID string
}

type GetProductHandler struct {
	repo domain.ProductRepository
}

func NewGetProductHandler(repo domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*ProductDTO, error) {
	id, err := types.ParseProductID(query.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID: %w", err)
	}

	p, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding product: %w", err)
	}
	return ToProductDTO(p), nil
}
