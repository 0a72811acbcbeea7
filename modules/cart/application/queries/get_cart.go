// Package queries contains read use cases for the cart module.
package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tabison/suppliers/modules/cart/domain"
	"github.com/tabison/suppliers/modules/shared/pricing"
	"github.com/tabison/suppliers/modules/shared/types"
)

// ProductView is the product data shown on a cart line.
type ProductView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Image       string `json:"image,omitempty"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
}

// LineView is one priced cart line.
type LineView struct {
	Product         ProductView       `json:"product"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selectedOptions"`
	LineTotal       int64             `json:"lineTotal"`
}

// CartView is the cart joined against the catalog and priced.
type CartView struct {
	Items     []LineView `json:"items"`
	ItemCount int        `json:"itemCount"`
	Subtotal  int64      `json:"subtotal"`
	Tax       int64      `json:"tax"`
	Shipping  int64      `json:"shipping"`
	Total     int64      `json:"total"`
	Currency  string     `json:"currency"`
}

// Resolver joins a stored cart against the catalog, drops lines whose
// product is gone and writes the pruned cart back.
type Resolver struct {
	repo     domain.CartRepository
	products domain.ProductLookup
	currency string
	logger   *slog.Logger
}

func NewResolver(repo domain.CartRepository, products domain.ProductLookup, currency string, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, products: products, currency: currency, logger: logger}
}

// Resolve prices cart. Lines referencing deleted products are omitted from
// the view and removed from storage.
func (r *Resolver) Resolve(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	if cart.IsEmpty() {
		return r.view(nil, nil)
	}

	products, err := r.products.Lookup(ctx, cart.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("resolving cart products: %w", err)
	}

	missing := make(map[string]bool)
	for _, id := range cart.ProductIDs() {
		if _, ok := products[id]; !ok {
			missing[id] = true
		}
	}
	if len(missing) > 0 {
		cart.Prune(func(id string) bool { return !missing[id] })
		_, err := r.repo.Mutate(ctx, cart.UserID(), func(stored *domain.Cart) error {
			if !stored.Prune(func(id string) bool { return !missing[id] }) {
				return errNothingToPrune
			}
			return nil
		})
		if err != nil && !errors.Is(err, errNothingToPrune) {
			// The view is still correct; the stale lines go next time.
			r.logger.WarnContext(ctx, "failed to persist pruned cart",
				slog.String("user_id", cart.UserID().String()), slog.Any("error", err))
		}
	}

	return r.view(cart.Items(), products)
}

var errNothingToPrune = errors.New("nothing to prune")

func (r *Resolver) view(items []domain.Item, products map[string]domain.Product) (*CartView, error) {
	lines := make([]LineView, 0, len(items))
	priced := make([]pricing.Line, 0, len(items))
	count := 0
	for _, it := range items {
		p := products[it.ProductID]
		opts := it.SelectedOptions
		if opts == nil {
			opts = map[string]string{}
		}
		lines = append(lines, LineView{
			Product: ProductView{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Category:    p.Category,
				Image:       p.Image,
				Price:       p.Price.Amount(),
				Stock:       p.Stock,
			},
			Quantity:        it.Quantity,
			SelectedOptions: opts,
			LineTotal:       p.Price.Multiply(int64(it.Quantity)).Amount(),
		})
		priced = append(priced, pricing.Line{UnitPrice: p.Price, Quantity: it.Quantity})
		count += it.Quantity
	}

	subtotal, err := pricing.Subtotal(r.currency, priced...)
	if err != nil {
		return nil, fmt.Errorf("pricing cart: %w", err)
	}
	b := pricing.Empty(r.currency)
	if len(priced) > 0 {
		b = pricing.Compute(subtotal)
	}
	return &CartView{
		Items:     lines,
		ItemCount: count,
		Subtotal:  b.Subtotal.Amount(),
		Tax:       b.Tax.Amount(),
		Shipping:  b.Shipping.Amount(),
		Total:     b.Total.Amount(),
		Currency:  b.Total.Currency(),
	}, nil
}

// GetCartQuery asks for a user's priced cart.
type GetCartQuery struct {
	UserID string
}

type GetCartHandler struct {
	repo     domain.CartRepository
	resolver *Resolver
}

func NewGetCartHandler(repo domain.CartRepository, resolver *Resolver) *GetCartHandler {
	return &GetCartHandler{repo: repo, resolver: resolver}
}

func (h *GetCartHandler) Handle(ctx context.Context, query GetCartQuery) (*CartView, error) {
	userID, err := types.ParseUserID(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	cart, err := h.repo.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	return h.resolver.Resolve(ctx, cart)
}
