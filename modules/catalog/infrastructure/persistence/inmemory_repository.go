// Package persistence implements the product repository for each store driver.
package persistence

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tabison/suppliers/modules/catalog/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

type productRecord struct {
	details   domain.Details
	createdAt time.Time
	updatedAt time.Time
}

// InMemoryRepository implements ProductRepository in process memory.
// Records are copied in and out so callers never share state.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products map[string]productRecord
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		products: make(map[string]productRecord),
	}
}

// Compile-time interface check.
var _ domain.ProductRepository = (*InMemoryRepository)(nil)

func (r *InMemoryRepository) Save(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID().String()] = productRecord{
		details:   product.Details(),
		createdAt: product.CreatedAt(),
		updatedAt: product.UpdatedAt(),
	}
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id types.ProductID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.products[id.String()]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return toProduct(id, rec), nil
}

func (r *InMemoryRepository) FindByIDs(ctx context.Context, ids []types.ProductID) (map[string]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if rec, ok := r.products[id.String()]; ok {
			found[id.String()] = toProduct(id, rec)
		}
	}
	return found, nil
}

func (r *InMemoryRepository) FindAll(ctx context.Context, filter domain.ListFilter, offset, limit int) ([]*domain.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Product
	for key, rec := range r.products {
		if !matches(rec.details, filter) {
			continue
		}
		id, err := types.ParseProductID(key)
		if err != nil {
			return nil, 0, fmt.Errorf("parsing product id %q: %w", key, err)
		}
		matched = append(matched, toProduct(id, rec))
	}

	slices.SortFunc(matched, func(a, b *domain.Product) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})

	total := len(matched)
	if offset >= total {
		return []*domain.Product{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id types.ProductID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id.String()]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id.String())
	return nil
}

func (r *InMemoryRepository) Reserve(ctx context.Context, lines []domain.StockLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate every line against a working copy before touching the map.
	working := make(map[string]*domain.Product)
	for _, line := range lines {
		key := line.ProductID.String()
		p, ok := working[key]
		if !ok {
			rec, exists := r.products[key]
			if !exists {
				return fmt.Errorf("%w: %s", domain.ErrProductNotFound, key)
			}
			p = toProduct(line.ProductID, rec)
			working[key] = p
		}
		if err := p.Reserve(line.Quantity); err != nil {
			return err
		}
	}

	for key, p := range working {
		r.products[key] = productRecord{details: p.Details(), createdAt: p.CreatedAt(), updatedAt: p.UpdatedAt()}
	}
	return nil
}

func (r *InMemoryRepository) Release(ctx context.Context, lines []domain.StockLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Deleted products are skipped; any other failure leaves the map untouched.
	working := make(map[string]*domain.Product)
	for _, line := range lines {
		key := line.ProductID.String()
		p, ok := working[key]
		if !ok {
			rec, exists := r.products[key]
			if !exists {
				continue
			}
			p = toProduct(line.ProductID, rec)
			working[key] = p
		}
		if err := p.Release(line.Quantity); err != nil {
			return err
		}
	}

	for key, p := range working {
		r.products[key] = productRecord{details: p.Details(), createdAt: p.CreatedAt(), updatedAt: p.UpdatedAt()}
	}
	return nil
}

func toProduct(id types.ProductID, rec productRecord) *domain.Product {
	d := rec.details
	d.Tags = slices.Clone(d.Tags)
	d.Images = slices.Clone(d.Images)
	return domain.Reconstitute(id, d, rec.createdAt, rec.updatedAt)
}

func matches(d domain.Details, f domain.ListFilter) bool {
	if f.Category != "" && d.Category != f.Category {
		return false
	}
	if f.MaxStock != nil && d.Stock > *f.MaxStock {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	if strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(strings.ToLower(d.Description), q) {
		return true
	}
	return slices.ContainsFunc(d.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}
