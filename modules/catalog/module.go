// Package catalog owns products, prices and stock.
// This file is the module's public API; other modules go through it
// instead of importing catalog internals.
package catalog

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/modules/catalog/application/commands"
	"github.com/tabison/suppliers/modules/catalog/application/queries"
	"github.com/tabison/suppliers/modules/catalog/domain"
	httphandler "github.com/tabison/suppliers/modules/catalog/infrastructure/http"
	"github.com/tabison/suppliers/modules/shared/transaction"
)

// Public read model and request types.
type (
	Product      = queries.ProductDTO
	StockRequest = commands.StockRequest
)

// Errors other modules match with errors.Is.
var (
	ErrProductNotFound   = domain.ErrProductNotFound
	ErrInsufficientStock = domain.ErrInsufficientStock
)

// Module is the public API for the catalog bounded context.
type Module interface {
	RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier)

	// Products resolves ids in one read; unknown ids are absent.
	Products(ctx context.Context, ids []string) (map[string]*Product, error)

	// ReserveStock and ReleaseStock join the transaction carried by ctx.
	ReserveStock(ctx context.Context, reqs []StockRequest) error
	ReleaseStock(ctx context.Context, reqs []StockRequest) error

	CountProducts(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context) (int, error)
}

// Config holds the module configuration.
type Config struct {
	Repository domain.ProductRepository
	TxScope    transaction.Scope
	Currency   string
	Logger     *slog.Logger
}

type module struct {
	handler *httphandler.Handler
	lookup  *queries.LookupProductsHandler
	stock   *commands.AdjustStockHandler
	stats   *queries.CatalogStatsHandler
}

// New creates the catalog module with all dependencies wired.
func New(cfg Config) Module {
	repository := cfg.Repository
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "catalog")

	return &module{
		handler: httphandler.NewHandler(
			commands.NewCreateProductHandler(repository, cfg.Currency, logger),
			commands.NewUpdateProductHandler(repository, cfg.TxScope, cfg.Currency),
			commands.NewDeleteProductHandler(repository),
			queries.NewGetProductHandler(repository),
			queries.NewListProductsHandler(repository),
		),
		lookup: queries.NewLookupProductsHandler(repository),
		stock:  commands.NewAdjustStockHandler(repository),
		stats:  queries.NewCatalogStatsHandler(repository),
	}
}

func (m *module) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	m.handler.RegisterRoutes(mux, verifier)
}

func (m *module) Products(ctx context.Context, ids []string) (map[string]*Product, error) {
	return m.lookup.Handle(ctx, ids)
}

func (m *module) ReserveStock(ctx context.Context, reqs []StockRequest) error {
	return m.stock.Reserve(ctx, reqs)
}

func (m *module) ReleaseStock(ctx context.Context, reqs []StockRequest) error {
	return m.stock.Release(ctx, reqs)
}

func (m *module) CountProducts(ctx context.Context) (int, error) {
	return m.stats.CountProducts(ctx)
}

func (m *module) CountLowStock(ctx context.Context) (int, error) {
	return m.stats.CountLowStock(ctx)
}
