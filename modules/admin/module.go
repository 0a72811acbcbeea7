// Package admin serves the admin dashboard summary. It owns no data and
// reads through the other modules' public APIs.
package admin

import (
	"net/http"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/modules/admin/application/queries"
	httphandler "github.com/tabison/suppliers/modules/admin/infrastructure/http"
	"github.com/tabison/suppliers/modules/shared/transaction"
)

// Analytics is the dashboard summary.
type Analytics = queries.AnalyticsDTO

// Module is the public API for the admin dashboard.
type Module interface {
	RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier)
}

// Config holds the module configuration. users.Module, catalog.Module and
// orders.Module satisfy the counters.
type Config struct {
	// Snapshot, when set, makes all counts read one consistent snapshot.
	Snapshot transaction.Scope
	Users    queries.UserCounter
	Catalog  queries.ProductCounter
	Orders   queries.OrderCounter
	Currency string
}

type module struct {
	handler *httphandler.Handler
}

func New(cfg Config) Module {
	return &module{
		handler: httphandler.NewHandler(
			queries.NewGetAnalyticsHandler(cfg.Snapshot, cfg.Users, cfg.Catalog, cfg.Orders, cfg.Currency),
		),
	}
}

func (m *module) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	m.handler.RegisterRoutes(mux, verifier)
}
