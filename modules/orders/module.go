// Package orders provides order management functionality.
// This is the public API for the orders bounded context.
package orders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/internal/platform/eventbus"
	"github.com/tabison/suppliers/modules/orders/application/commands"
	"github.com/tabison/suppliers/modules/orders/application/eventhandlers"
	"github.com/tabison/suppliers/modules/orders/application/queries"
	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/orders/infrastructure/adapters"
	httphandler "github.com/tabison/suppliers/modules/orders/infrastructure/http"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/events/contracts"
	"github.com/tabison/suppliers/modules/shared/transaction"
)

// Public read model and input types.
type (
	Order         = queries.OrderDTO
	PaymentResult = commands.PaymentInput
)

// Errors other modules match with errors.Is.
var (
	ErrOrderNotFound     = domain.ErrOrderNotFound
	ErrForbidden         = domain.ErrForbidden
	ErrAlreadyPaid       = domain.ErrAlreadyPaid
	ErrInvalidTransition = domain.ErrInvalidTransition
)

// Module is the public API for the orders bounded context.
// External communication: HTTP API (RegisterRoutes)
// Cross-module communication: Domain Events (subscribed internally)
type Module interface {
	// RegisterRoutes registers the module's HTTP routes to the given mux.
	RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier)

	// GetOrder returns the order if the caller owns it or is an admin.
	GetOrder(ctx context.Context, orderID, userID string, isAdmin bool) (*Order, error)

	// RecordPayment stores a pending or failed rail outcome.
	RecordPayment(ctx context.Context, orderID string, result PaymentResult) (*Order, error)

	// MarkPaid applies a confirmed rail outcome and publishes OrderPaid.
	MarkPaid(ctx context.Context, orderID string, result PaymentResult) (*Order, error)

	CountOrders(ctx context.Context, status string) (int, error)
	PaidRevenue(ctx context.Context) (int64, error)
}

// Config holds the module configuration.
type Config struct {
	Repository domain.OrderRepository
	Catalog    adapters.CatalogModule
	Cart       adapters.CartModule
	TxScope    transaction.Scope
	// TxEvents dispatches handlers inside the publishing transaction.
	TxEvents *eventbus.EventHandlerRegistry
	// EventPublisher receives events once their transaction committed.
	EventPublisher events.Publisher
	Currency       string
	Logger         *slog.Logger
}

type module struct {
	handler       *httphandler.Handler
	getOrder      *queries.GetOrderHandler
	recordPayment *commands.RecordPaymentHandler
	stats         *queries.OrderStatsHandler
}

// New creates a new orders module.
func New(cfg Config) Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "orders")

	repo := cfg.Repository
	catalog := adapters.NewCatalog(cfg.Catalog)
	var txRegistry eventbus.HandlerRegistry
	if cfg.TxEvents != nil {
		txRegistry = cfg.TxEvents
	}
	uow := eventbus.NewUnitOfWork(cfg.TxScope, txRegistry, cfg.EventPublisher, logger)

	getOrderHandler := queries.NewGetOrderHandler(repo)

	// Subscribe to cross-module events
	if cfg.TxEvents != nil {
		userDeletedHandler := eventhandlers.NewUserDeletedHandler(repo, catalog, logger)
		if err := cfg.TxEvents.Subscribe(contracts.UserDeletedEventType, userDeletedHandler); err != nil {
			logger.Error("failed to subscribe to user deleted event", slog.Any("error", err))
		}
	}

	return &module{
		handler: httphandler.NewHandler(
			commands.NewCreateOrderHandler(repo, catalog, uow, cfg.Currency, logger),
			commands.NewCheckoutHandler(repo, catalog, adapters.NewCarts(cfg.Cart), uow, cfg.Currency, logger),
			commands.NewCancelOrderHandler(repo, catalog, uow),
			commands.NewUpdateStatusHandler(repo, catalog, uow, logger),
			getOrderHandler,
			queries.NewListOrdersHandler(repo),
		),
		getOrder:      getOrderHandler,
		recordPayment: commands.NewRecordPaymentHandler(repo, uow, logger),
		stats:         queries.NewOrderStatsHandler(repo),
	}
}

func (m *module) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	m.handler.RegisterRoutes(mux, verifier)
}

func (m *module) GetOrder(ctx context.Context, orderID, userID string, isAdmin bool) (*Order, error) {
	return m.getOrder.Handle(ctx, queries.GetOrderQuery{OrderID: orderID, UserID: userID, IsAdmin: isAdmin})
}

func (m *module) RecordPayment(ctx context.Context, orderID string, result PaymentResult) (*Order, error) {
	return m.applyPayment(ctx, orderID, result, false)
}

func (m *module) MarkPaid(ctx context.Context, orderID string, result PaymentResult) (*Order, error) {
	return m.applyPayment(ctx, orderID, result, true)
}

func (m *module) applyPayment(ctx context.Context, orderID string, result PaymentResult, paid bool) (*Order, error) {
	err := m.recordPayment.Handle(ctx, commands.RecordPaymentCommand{OrderID: orderID, Paid: paid, Payment: result})
	if err != nil {
		return nil, err
	}
	return m.getOrder.Handle(ctx, queries.GetOrderQuery{OrderID: orderID, IsAdmin: true})
}

func (m *module) CountOrders(ctx context.Context, status string) (int, error) {
	return m.stats.CountOrders(ctx, status)
}

func (m *module) PaidRevenue(ctx context.Context) (int64, error) {
	return m.stats.PaidRevenue(ctx)
}
