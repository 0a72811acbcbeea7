// Package cart provides the per-user shopping cart.
// This is the public API for the cart bounded context.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/modules/cart/application/commands"
	"github.com/tabison/suppliers/modules/cart/application/eventhandlers"
	"github.com/tabison/suppliers/modules/cart/application/queries"
	"github.com/tabison/suppliers/modules/cart/domain"
	catalogadapter "github.com/tabison/suppliers/modules/cart/infrastructure/catalog"
	httphandler "github.com/tabison/suppliers/modules/cart/infrastructure/http"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/events/contracts"
	"github.com/tabison/suppliers/modules/shared/types"
)

// Line is one cart line as seen by other modules.
type Line struct {
	ProductID       string
	Quantity        int
	SelectedOptions map[string]string
}

// Module is the public API for the cart bounded context.
type Module interface {
	RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier)

	// Lines returns the user's stored cart lines without resolving them.
	Lines(ctx context.Context, userID string) ([]Line, error)

	// Clear empties the user's cart.
	Clear(ctx context.Context, userID string) error
}

// Config holds the module configuration.
type Config struct {
	Repository domain.CartRepository
	Catalog    catalogadapter.ProductSource
	Currency   string
	// EventSubscriber receives after-commit events.
	EventSubscriber events.Subscriber
	Logger          *slog.Logger
}

type module struct {
	repo    domain.CartRepository
	handler *httphandler.Handler
}

// New creates the cart module.
func New(cfg Config) Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "cart")

	lookup := catalogadapter.NewLookup(cfg.Catalog)
	resolver := queries.NewResolver(cfg.Repository, lookup, cfg.Currency, logger)

	if cfg.EventSubscriber != nil {
		userDeletedHandler := eventhandlers.NewUserDeletedHandler(cfg.Repository, logger)
		if err := cfg.EventSubscriber.Subscribe(contracts.UserDeletedEventType, userDeletedHandler); err != nil {
			logger.Error("failed to subscribe to user deleted event", slog.Any("error", err))
		}
	}

	return &module{
		repo: cfg.Repository,
		handler: httphandler.NewHandler(
			commands.NewAddItemHandler(cfg.Repository, lookup, resolver),
			commands.NewUpdateQuantityHandler(cfg.Repository, lookup, resolver),
			commands.NewRemoveItemHandler(cfg.Repository, resolver),
			commands.NewClearCartHandler(cfg.Repository, resolver),
			queries.NewGetCartHandler(cfg.Repository, resolver),
		),
	}
}

func (m *module) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	m.handler.RegisterRoutes(mux, verifier)
}

func (m *module) Lines(ctx context.Context, userID string) ([]Line, error) {
	id, err := types.ParseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	cart, err := m.repo.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	items := cart.Items()
	lines := make([]Line, len(items))
	for i, it := range items {
		lines[i] = Line{ProductID: it.ProductID, Quantity: it.Quantity, SelectedOptions: it.SelectedOptions}
	}
	return lines, nil
}

func (m *module) Clear(ctx context.Context, userID string) error {
	id, err := types.ParseUserID(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	return m.repo.Delete(ctx, id)
}
