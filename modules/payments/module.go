// Package payments charges orders through the enabled payment rails and
// reports the outcome to the orders module.
package payments

import (
	"log/slog"
	"net/http"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/modules/payments/application/commands"
	"github.com/tabison/suppliers/modules/payments/domain"
	"github.com/tabison/suppliers/modules/payments/infrastructure/adapters"
	httphandler "github.com/tabison/suppliers/modules/payments/infrastructure/http"
)

// Rail is one payment provider integration.
type Rail = domain.Rail

// Module is the public API for the payments bounded context.
type Module interface {
	RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier)
}

// Config holds the module configuration.
type Config struct {
	Orders adapters.OrdersModule
	// Rails are the enabled rails, already holding their credentials.
	Rails []Rail
	// PublicBaseURL is where providers reach our callbacks.
	PublicBaseURL string
	Logger        *slog.Logger
}

type module struct {
	handler *httphandler.Handler
}

// New creates a new payments module.
func New(cfg Config) Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "payments")

	orders := adapters.NewOrders(cfg.Orders)
	rails := domain.NewRails(cfg.Rails...)

	var parser domain.CallbackParser
	if rail, err := rails.Get(domain.MethodMpesa); err == nil {
		parser, _ = rail.(domain.CallbackParser)
	}

	logger.Info("payment rails enabled", slog.Any("methods", rails.Methods()))

	return &module{
		handler: httphandler.NewHandler(
			commands.NewInitiatePaymentHandler(orders, rails, cfg.PublicBaseURL, logger),
			commands.NewConfirmPaymentHandler(orders, rails, logger),
			commands.NewMpesaCallbackHandler(orders, parser, logger),
			rails.Methods(),
		),
	}
}

func (m *module) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	m.handler.RegisterRoutes(mux, verifier)
}
