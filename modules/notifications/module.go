// Package notifications sends order receipts.
package notifications

import (
	"log/slog"

	"github.com/tabison/suppliers/modules/notifications/application/commands"
	"github.com/tabison/suppliers/modules/notifications/application/eventhandlers"
	"github.com/tabison/suppliers/modules/notifications/domain"
	"github.com/tabison/suppliers/modules/notifications/infrastructure/adapters"
	"github.com/tabison/suppliers/modules/notifications/infrastructure/mail"
	"github.com/tabison/suppliers/modules/notifications/infrastructure/render"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/events/contracts"
)

// Mailer delivers outgoing email.
type Mailer = domain.Mailer

// NewLogMailer returns a Mailer that only logs messages.
func NewLogMailer(logger *slog.Logger) Mailer { return mail.NewLog(logger) }

// NewAMQPMailer returns a Mailer that publishes messages for a mail relay.
func NewAMQPMailer(publisher mail.Publisher) Mailer { return mail.NewAMQP(publisher) }

// Module represents the notification module entry point.
type Module struct{}

type Config struct {
	// EventSubscriber must deliver events after their transaction committed.
	EventSubscriber events.Subscriber
	Users           adapters.UsersModule
	Mailer          Mailer
	From            string
	StoreName       string
	Logger          *slog.Logger
}

// New initializes the notification module and subscribes to events.
func New(cfg Config) *Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "notifications")

	mailer := cfg.Mailer
	if mailer == nil {
		mailer = mail.NewLog(logger)
	}
	store := cfg.StoreName
	if store == "" {
		store = "Tabison Suppliers"
	}

	sendReceipt := commands.NewSendReceiptHandler(
		adapters.NewRecipients(cfg.Users),
		render.NewText(store),
		render.NewPDF(store),
		mailer,
		cfg.From,
		render.Subject,
		render.Filename,
		logger,
	)

	orderPaidHandler := eventhandlers.NewOrderPaidHandler(sendReceipt, logger)
	if err := cfg.EventSubscriber.Subscribe(contracts.OrderPaidEventType, orderPaidHandler); err != nil {
		logger.Error("failed to subscribe to order paid event", slog.Any("error", err))
	}

	return &Module{}
}
