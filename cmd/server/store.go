package main

import (
	"context"
	"log/slog"

	"github.com/tabison/suppliers/internal/platform/config"
	platformspanner "github.com/tabison/suppliers/internal/platform/spanner"
	platformtx "github.com/tabison/suppliers/internal/platform/transaction"
	catalogdomain "github.com/tabison/suppliers/modules/catalog/domain"
	catalogpersistence "github.com/tabison/suppliers/modules/catalog/infrastructure/persistence"
	ordersdomain "github.com/tabison/suppliers/modules/orders/domain"
	orderspersistence "github.com/tabison/suppliers/modules/orders/infrastructure/persistence"
	"github.com/tabison/suppliers/modules/shared/transaction"
	usersdomain "github.com/tabison/suppliers/modules/users/domain"
	userspersistence "github.com/tabison/suppliers/modules/users/infrastructure/persistence"
)

// store holds the repositories of one driver and the transaction scope
// they share.
type store struct {
	txScope transaction.Scope
	// snapshot gives multi-query reads one consistent view.
	snapshot transaction.Scope
	products catalogdomain.ProductRepository
	orders   ordersdomain.OrderRepository
	users    usersdomain.UserRepository
	close    func()
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*store, error) {
	if cfg.Store.Driver == config.DriverMemory {
		logger.Warn("using the in-memory store; data is lost on restart")
		scope := platformtx.NewLocalScope()
		return &store{
			txScope:  scope,
			snapshot: scope,
			products: catalogpersistence.NewInMemoryRepository(),
			orders:   orderspersistence.NewInMemoryRepository(),
			users:    userspersistence.NewInMemoryRepository(),
			close:    func() {},
		}, nil
	}

	spannerCfg := platformspanner.Config{
		ProjectID:  cfg.Store.ProjectID,
		InstanceID: cfg.Store.InstanceID,
		DatabaseID: cfg.Store.DatabaseID,
	}
	client, err := platformspanner.NewClient(ctx, spannerCfg)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to spanner", slog.String("dsn", spannerCfg.DSN()))

	return &store{
		txScope:  platformspanner.NewReadWriteTransactionScope(client),
		snapshot: platformspanner.NewReadOnlyTransactionScope(client),
		products: catalogpersistence.NewSpannerRepository(client),
		orders:   orderspersistence.NewSpannerRepository(client),
		users:    userspersistence.NewSpannerRepository(client),
		close:    client.Close,
	}, nil
}
