package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabison/suppliers/modules/catalog/domain"
	"github.com/tabison/suppliers/modules/catalog/infrastructure/persistence"
	"github.com/tabison/suppliers/modules/shared/types"
)

func seed(t *testing.T, repo *persistence.InMemoryRepository, name string, category domain.Category, stock int, tags ...string) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(domain.Details{
		Name:     name,
		Category: category,
		Price:    types.MustNewMoney(100, "KES"),
		Stock:    stock,
		Tags:     tags,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestInMemoryRepository_ReserveIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewInMemoryRepository()
	pipe := seed(t, repo, "PVC pipe", domain.CategoryPlumbing, 10)
	tap := seed(t, repo, "Tap", domain.CategoryPlumbing, 1)

	err := repo.Reserve(ctx, []domain.StockLine{
		{ProductID: pipe.ID(), Quantity: 4},
		{ProductID: tap.ID(), Quantity: 2},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := repo.FindByID(ctx, pipe.ID())
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock(), "no line may be applied when one fails")

	require.NoError(t, repo.Reserve(ctx, []domain.StockLine{
		{ProductID: pipe.ID(), Quantity: 4},
		{ProductID: pipe.ID(), Quantity: 6},
		{ProductID: tap.ID(), Quantity: 1},
	}))
	got, _ = repo.FindByID(ctx, pipe.ID())
	assert.Equal(t, 0, got.Stock())

	err = repo.Reserve(ctx, []domain.StockLine{{ProductID: types.NewProductID(), Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestInMemoryRepository_ReleaseSkipsMissing(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewInMemoryRepository()
	tap := seed(t, repo, "Tap", domain.CategoryPlumbing, 1)

	require.NoError(t, repo.Release(ctx, []domain.StockLine{
		{ProductID: tap.ID(), Quantity: 2},
		{ProductID: types.NewProductID(), Quantity: 5},
	}))
	got, _ := repo.FindByID(ctx, tap.ID())
	assert.Equal(t, 3, got.Stock())
}

func TestInMemoryRepository_ReleaseIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewInMemoryRepository()
	pipe := seed(t, repo, "PVC pipe", domain.CategoryPlumbing, 10)
	tap := seed(t, repo, "Tap", domain.CategoryPlumbing, 1)

	err := repo.Release(ctx, []domain.StockLine{
		{ProductID: pipe.ID(), Quantity: 4},
		{ProductID: tap.ID(), Quantity: 0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	got, _ := repo.FindByID(ctx, pipe.ID())
	assert.Equal(t, 10, got.Stock())
}

func TestInMemoryRepository_FindAllFilters(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewInMemoryRepository()
	seed(t, repo, "Cement", domain.CategoryBuilding, 50, "bags")
	seed(t, repo, "Copper wire", domain.CategoryElectrical, 2, "cable")
	seed(t, repo, "Cable ties", domain.CategoryHardware, 1)

	low := 5
	tests := []struct {
		name   string
		filter domain.ListFilter
		want   int
	}{
		{"all", domain.ListFilter{}, 3},
		{"category", domain.ListFilter{Category: domain.CategoryBuilding}, 1},
		{"query matches name and tag", domain.ListFilter{Query: "CABLE"}, 2},
		{"low stock", domain.ListFilter{MaxStock: &low}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := repo.FindAll(ctx, tt.filter, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, products, tt.want)
		})
	}

	page, total, err := repo.FindAll(ctx, domain.ListFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)
}

func TestInMemoryRepository_CopiesState(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewInMemoryRepository()
	p := seed(t, repo, "Cement", domain.CategoryBuilding, 5)

	loaded, _ := repo.FindByID(ctx, p.ID())
	require.NoError(t, loaded.Reserve(5))

	again, _ := repo.FindByID(ctx, p.ID())
	assert.Equal(t, 5, again.Stock())

	require.NoError(t, repo.Delete(ctx, p.ID()))
	_, err := repo.FindByID(ctx, p.ID())
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
}
