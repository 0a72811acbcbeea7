// Package users owns buyer, supplier and admin accounts.
// This file defines the module's public API - the single interface
// that other modules use to interact with the users bounded context.
package users

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/internal/platform/eventbus"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/transaction"
	"github.com/tabison/suppliers/modules/users/application/commands"
	"github.com/tabison/suppliers/modules/users/application/queries"
	"github.com/tabison/suppliers/modules/users/domain"
	httphandler "github.com/tabison/suppliers/modules/users/infrastructure/http"
)

// User is the public read model.
type User = queries.UserDTO

// ErrUserNotFound is returned for unknown and deleted users.
var ErrUserNotFound = domain.ErrUserNotFound

// Module is the public API for the users bounded context.
// External communication: HTTP API (RegisterRoutes)
// Cross-module communication: UserDeleted is published inside the
// deleting transaction.
type Module interface {
	RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier)

	// GetUser returns a live user.
	GetUser(ctx context.Context, userID string) (*User, error)

	CountUsers(ctx context.Context) (int, error)
}

// Config holds the module configuration.
type Config struct {
	Repository domain.UserRepository
	TxScope    transaction.Scope
	// TxEvents dispatches handlers inside the publishing transaction.
	TxEvents *eventbus.EventHandlerRegistry
	// EventPublisher receives events once their transaction committed.
	EventPublisher events.Publisher
	Logger         *slog.Logger
}

type module struct {
	handler   *httphandler.Handler
	getUser   *queries.GetUserHandler
	listUsers *queries.ListUsersHandler
}

// New creates a new users module with all dependencies wired.
func New(cfg Config) Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "users")

	repo := cfg.Repository
	var txRegistry eventbus.HandlerRegistry
	if cfg.TxEvents != nil {
		txRegistry = cfg.TxEvents
	}
	uow := eventbus.NewUnitOfWork(cfg.TxScope, txRegistry, cfg.EventPublisher, logger)

	getUser := queries.NewGetUserHandler(repo)
	listUsers := queries.NewListUsersHandler(repo)

	return &module{
		handler: httphandler.NewHandler(
			commands.NewRegisterUserHandler(repo, uow, logger),
			commands.NewUpdateRoleHandler(repo, cfg.TxScope, logger),
			commands.NewDeleteUserHandler(repo, uow),
			getUser,
			listUsers,
		),
		getUser:   getUser,
		listUsers: listUsers,
	}
}

func (m *module) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	m.handler.RegisterRoutes(mux, verifier)
}

func (m *module) GetUser(ctx context.Context, userID string) (*User, error) {
	return m.getUser.Handle(ctx, queries.GetUserQuery{UserID: userID})
}

func (m *module) CountUsers(ctx context.Context) (int, error) {
	return m.listUsers.Count(ctx)
}
