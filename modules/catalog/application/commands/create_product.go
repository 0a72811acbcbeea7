// Package commands contains write use cases for the catalog module.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tabison/suppliers/modules/catalog/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// ProductInput carries the editable product fields from the boundary.
type ProductInput struct {
	Name           string
	Description    string
	Category       string
	Price          int64
	WholesalePrice int64
	Stock          int
	Tags           []string
	Images         []string
	SupplierID     string
}

func (in ProductInput) toDetails(currency string) (domain.Details, error) {
	category, err := domain.ParseCategory(in.Category)
	if err != nil {
		return domain.Details{}, err
	}
	price, err := types.NewMoney(in.Price, currency)
	if err != nil {
		return domain.Details{}, fmt.Errorf("invalid price: %w", err)
	}
	return domain.Details{
		Name:           in.Name,
		Description:    in.Description,
		Category:       category,
		Price:          price,
		WholesalePrice: types.MustNewMoney(in.WholesalePrice, currency),
		Stock:          in.Stock,
		Tags:           in.Tags,
		Images:         in.Images,
		SupplierID:     in.SupplierID,
	}, nil
}

// CreateProductCommand adds a product to the catalog.
type CreateProductCommand struct {
	ProductInput
}

type CreateProductHandler struct {
	repo     domain.ProductRepository
	currency string
	logger   *slog.Logger
}

func NewCreateProductHandler(repo domain.ProductRepository, currency string, logger *slog.Logger) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, currency: currency, logger: logger}
}

// Handle creates the product and returns its ID.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (string, error) {
	details, err := cmd.toDetails(h.currency)
	if err != nil {
		return "", err
	}

	product, err := domain.NewProduct(details)
	if err != nil {
		return "", fmt.Errorf("creating product: %w", err)
	}

	if err := h.repo.Save(ctx, product); err != nil {
		return "", fmt.Errorf("saving product: %w", err)
	}

	h.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID().String()),
		slog.String("category", product.Category().String()))
	return product.ID().String(), nil
}
