package domain_test

import (
	"errors"
	"testing"

	"github.com/tabison/suppliers/modules/catalog/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

func validDetails() domain.Details {
	return domain.Details{
		Name:     "Cement 50kg",
		Category: domain.CategoryBuilding,
		Price:    types.MustNewMoney(850, "KES"),
		Stock:    3,
		Images:   []string{"cement.jpg", "cement-2.jpg"},
	}
}

func TestNewProduct(t *testing.T) {
	p, err := domain.NewProduct(validDetails())
	if err != nil {
		t.Fatalf("NewProduct() error = %v", err)
	}
	if p.ID().IsZero() {
		t.Error("expected product to have an ID")
	}
	if p.PrimaryImage() != "cement.jpg" {
		t.Errorf("PrimaryImage() = %q, want cement.jpg", p.PrimaryImage())
	}
	if !p.WholesalePrice().IsZero() || p.WholesalePrice().Currency() != "KES" {
		t.Errorf("WholesalePrice() = %v, want 0 KES", p.WholesalePrice())
	}
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *domain.Details)
		wantErr error
	}{
		{"blank name", func(d *domain.Details) { d.Name = "  " }, domain.ErrNameRequired},
		{"negative price", func(d *domain.Details) { d.Price = types.MustNewMoney(-1, "KES") }, domain.ErrInvalidPrice},
		{"negative stock", func(d *domain.Details) { d.Stock = -1 }, domain.ErrInvalidStock},
		{"unknown category", func(d *domain.Details) { d.Category = "toys" }, domain.ErrInvalidCategory},
		{"wholesale currency mismatch", func(d *domain.Details) { d.WholesalePrice = types.MustNewMoney(10, "USD") }, domain.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)
			_, err := domain.NewProduct(d)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewProduct() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProduct_ReserveAndRelease(t *testing.T) {
	p, _ := domain.NewProduct(validDetails())

	if err := p.Reserve(5); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("Reserve(5) error = %v, want ErrInsufficientStock", err)
	}
	if p.Stock() != 3 {
		t.Fatalf("stock changed after failed reserve: %d", p.Stock())
	}

	if err := p.Reserve(3); err != nil {
		t.Fatalf("Reserve(3) error = %v", err)
	}
	if p.Stock() != 0 {
		t.Errorf("Stock() = %d, want 0", p.Stock())
	}

	if err := p.Release(2); err != nil {
		t.Fatalf("Release(2) error = %v", err)
	}
	if p.Stock() != 2 {
		t.Errorf("Stock() = %d, want 2", p.Stock())
	}

	if err := p.Reserve(0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("Reserve(0) error = %v, want ErrInvalidQuantity", err)
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := domain.ParseCategory(""); err != nil || c != domain.CategoryOther {
		t.Errorf("ParseCategory(\"\") = %q, %v", c, err)
	}
	if c, err := domain.ParseCategory("plumbing"); err != nil || c != domain.CategoryPlumbing {
		t.Errorf("ParseCategory(plumbing) = %q, %v", c, err)
	}
	if _, err := domain.ParseCategory("toys"); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Errorf("ParseCategory(toys) error = %v", err)
	}
}
