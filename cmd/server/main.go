// Package main is the entry point for the Tabison Suppliers API.
// It loads configuration, wires every module and serves HTTP until
// interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/internal/platform/config"
	"github.com/tabison/suppliers/internal/platform/eventbus"
	"github.com/tabison/suppliers/internal/platform/httpserver"
	"github.com/tabison/suppliers/internal/platform/rabbitmq"
	platformredis "github.com/tabison/suppliers/internal/platform/redis"
	"github.com/tabison/suppliers/modules/admin"
	"github.com/tabison/suppliers/modules/cart"
	cartpersistence "github.com/tabison/suppliers/modules/cart/infrastructure/persistence"
	"github.com/tabison/suppliers/modules/catalog"
	"github.com/tabison/suppliers/modules/notifications"
	"github.com/tabison/suppliers/modules/orders"
	"github.com/tabison/suppliers/modules/payments"
	"github.com/tabison/suppliers/modules/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting tabison suppliers",
		slog.String("env", cfg.App.Env),
		slog.String("store", cfg.Store.Driver),
		slog.String("mail", cfg.Mail.Transport))

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	redisClient, err := platformredis.NewClient(ctx, platformredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	mailer, closeMailer, err := openMailer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeMailer()

	rails, err := buildRails(cfg)
	if err != nil {
		return fmt.Errorf("configuring payment rails: %w", err)
	}

	// Two registries: handlers that must share the publishing transaction,
	// and handlers that run once it committed.
	txEvents := eventbus.NewEventHandlerRegistry(logger)
	afterCommit := eventbus.NewEventHandlerRegistry(logger)
	afterBus := eventbus.New(afterCommit, logger)

	catalogModule := catalog.New(catalog.Config{
		Repository: st.products,
		TxScope:    st.txScope,
		Currency:   cfg.App.Currency,
		Logger:     logger,
	})
	cartModule := cart.New(cart.Config{
		Repository:      cartpersistence.NewRedisRepository(redisClient, cfg.Redis.CartTTL, cfg.Redis.MaxRetries),
		Catalog:         catalogModule,
		Currency:        cfg.App.Currency,
		EventSubscriber: afterCommit,
		Logger:          logger,
	})
	ordersModule := orders.New(orders.Config{
		Repository:     st.orders,
		Catalog:        catalogModule,
		Cart:           cartModule,
		TxScope:        st.txScope,
		TxEvents:       txEvents,
		EventPublisher: afterBus,
		Currency:       cfg.App.Currency,
		Logger:         logger,
	})
	usersModule := users.New(users.Config{
		Repository:     st.users,
		TxScope:        st.txScope,
		TxEvents:       txEvents,
		EventPublisher: afterBus,
		Logger:         logger,
	})
	paymentsModule := payments.New(payments.Config{
		Orders:        ordersModule,
		Rails:         rails,
		PublicBaseURL: cfg.Payments.PublicBaseURL,
		Logger:        logger,
	})
	adminModule := admin.New(admin.Config{
		Snapshot: st.snapshot,
		Users:    usersModule,
		Catalog:  catalogModule,
		Orders:   ordersModule,
		Currency: cfg.App.Currency,
	})
	_ = notifications.New(notifications.Config{
		EventSubscriber: afterCommit,
		Users:           usersModule,
		Mailer:          mailer,
		From:            cfg.Mail.From,
		StoreName:       "Tabison Suppliers",
		Logger:          logger,
	})

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpserver.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	for _, m := range []interface {
		RegisterRoutes(*http.ServeMux, *auth.Verifier)
	}{catalogModule, cartModule, ordersModule, paymentsModule, usersModule, adminModule} {
		m.RegisterRoutes(mux, verifier)
	}

	handler := httpserver.Middleware(mux,
		httpserver.Recovery(logger),
		httpserver.Logging(logger),
		httpserver.Tracing("tabison-suppliers"),
		httpserver.CORS(cfg.HTTP.AllowedOrigins),
		httpserver.Debug(!cfg.IsProduction()),
	)

	server := httpserver.New(httpserver.Config{
		Host:         cfg.HTTP.Host,
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, handler, logger)

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openMailer returns the receipt mailer for the configured transport and a
// func releasing its connection.
func openMailer(ctx context.Context, cfg config.Config, logger *slog.Logger) (notifications.Mailer, func(), error) {
	if cfg.Mail.Transport != "amqp" {
		return notifications.NewLogMailer(logger), func() {}, nil
	}

	conn, err := rabbitmq.Dial(ctx, rabbitmq.Config{
		URL:      cfg.RabbitMQ.URL,
		Exchange: cfg.RabbitMQ.Exchange,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to rabbitmq", slog.String("exchange", cfg.RabbitMQ.Exchange))

	return notifications.NewAMQPMailer(conn), func() {
		if err := conn.Close(); err != nil {
			logger.Warn("closing rabbitmq connection", slog.Any("error", err))
		}
	}, nil
}
