// Package domain contains the product catalog's entities and rules.
package domain

import (
	"fmt"
	"strings"
	"time"

	shareddomain "github.com/tabison/suppliers/modules/shared/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

const maxNameLength = 200

// Details is the editable part of a product.
type Details struct {
	Name           string
	Description    string
	Category       Category
	Price          types.Money
	WholesalePrice types.Money // zero when the product has no wholesale tier
	Stock          int
	Tags           []string
	Images         []string
	SupplierID     string
}

func (d Details) validate() (Details, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return d, ErrNameRequired
	}
	if len(d.Name) > maxNameLength {
		return d, ErrNameLength
	}
	if !d.Category.IsValid() {
		return d, ErrInvalidCategory
	}
	if d.Price.IsNegative() || d.WholesalePrice.IsNegative() {
		return d, ErrInvalidPrice
	}
	if d.Stock < 0 {
		return d, ErrInvalidStock
	}
	if d.WholesalePrice.Currency() == "" {
		d.WholesalePrice = types.Zero(d.Price.Currency())
	}
	if d.WholesalePrice.Currency() != d.Price.Currency() {
		return d, fmt.Errorf("%w: wholesale currency %s differs from %s",
			ErrInvalidPrice, d.WholesalePrice.Currency(), d.Price.Currency())
	}
	return d, nil
}

// Product is the aggregate root of the catalog.
type Product struct {
	shareddomain.AggregateRoot

	id        types.ProductID
	details   Details
	createdAt time.Time
	updatedAt time.Time
}

// NewProduct creates a product after validating d.
func NewProduct(d Details) (*Product, error) {
	d, err := d.validate()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Product{
		id:        types.NewProductID(),
		details:   d,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute recreates a Product from persistence.
func Reconstitute(id types.ProductID, d Details, createdAt, updatedAt time.Time) *Product {
	return &Product{
		id:        id,
		details:   d,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (p *Product) ID() types.ProductID         { return p.id }
func (p *Product) Name() string                { return p.details.Name }
func (p *Product) Description() string         { return p.details.Description }
func (p *Product) Category() Category          { return p.details.Category }
func (p *Product) Price() types.Money          { return p.details.Price }
func (p *Product) WholesalePrice() types.Money { return p.details.WholesalePrice }
func (p *Product) Stock() int                  { return p.details.Stock }
func (p *Product) Tags() []string              { return append([]string(nil), p.details.Tags...) }
func (p *Product) Images() []string            { return append([]string(nil), p.details.Images...) }
func (p *Product) SupplierID() string          { return p.details.SupplierID }
func (p *Product) CreatedAt() time.Time        { return p.createdAt }
func (p *Product) UpdatedAt() time.Time        { return p.updatedAt }

// Details returns a copy of the editable fields.
func (p *Product) Details() Details {
	d := p.details
	d.Tags = p.Tags()
	d.Images = p.Images()
	return d
}

// PrimaryImage returns the first image reference, if any.
func (p *Product) PrimaryImage() string {
	if len(p.details.Images) == 0 {
		return ""
	}
	return p.details.Images[0]
}

// Update replaces the editable fields.
func (p *Product) Update(d Details) error {
	d, err := d.validate()
	if err != nil {
		return err
	}
	p.details = d
	p.updatedAt = time.Now().UTC()
	return nil
}

// CanSupply reports whether quantity units are in stock.
func (p *Product) CanSupply(quantity int) bool {
	return quantity <= p.details.Stock
}

// Reserve takes quantity units out of stock.
func (p *Product) Reserve(quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if !p.CanSupply(quantity) {
		return fmt.Errorf("%w: %s has %d, requested %d",
			ErrInsufficientStock, p.details.Name, p.details.Stock, quantity)
	}
	p.details.Stock -= quantity
	p.updatedAt = time.Now().UTC()
	return nil
}

// Release returns quantity units to stock.
func (p *Product) Release(quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	p.details.Stock += quantity
	p.updatedAt = time.Now().UTC()
	return nil
}
