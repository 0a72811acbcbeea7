package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tabison/suppliers/internal/platform/eventbus"
	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/types"
)

// ClientTotals are the prices a client computed for itself. They are never
// trusted; a mismatch with the server's breakdown is only logged.
type ClientTotals struct {
	ItemsPrice    int64
	TaxPrice      int64
	ShippingPrice int64
	TotalPrice    int64
}

// CreateOrderCommand places an order from an explicit item list.
type CreateOrderCommand struct {
	UserID          string
	Items           []ItemInput
	ShippingAddress AddressInput
	PaymentMethod   string
	ClientTotals    *ClientTotals
}

type CreateOrderHandler struct {
	repo     domain.OrderRepository
	catalog  domain.Catalog
	uow      *eventbus.UnitOfWork
	currency string
	logger   *slog.Logger
}

func NewCreateOrderHandler(
	repo domain.OrderRepository,
	catalog domain.Catalog,
	uow *eventbus.UnitOfWork,
	currency string,
	logger *slog.Logger,
) *CreateOrderHandler {
	return &CreateOrderHandler{
		repo:     repo,
		catalog:  catalog,
		uow:      uow,
		currency: currency,
		logger:   logger,
	}
}

// Handle snapshots the items at their current catalog prices and persists a
// pending order. Stock is not checked here; checkout reserves it.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (string, error) {
	userID, err := types.ParseUserID(cmd.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid user ID: %w", err)
	}
	if len(cmd.Items) == 0 {
		return "", domain.ErrEmptyOrder
	}
	method, err := domain.ParsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return "", err
	}

	lines, err := snapshotLines(ctx, h.catalog, cmd.Items)
	if err != nil {
		return "", err
	}

	order, err := domain.NewOrder(userID, lines, cmd.ShippingAddress.toDomain(), method, h.currency, time.Now())
	if err != nil {
		return "", err
	}
	h.logPriceMismatch(order, cmd.ClientTotals)

	// Popped once: the closure may run again on a transaction retry.
	placed := order.PopDomainEvents()
	err = h.uow.Execute(ctx, func(ctx context.Context, publisher events.Publisher) error {
		if err := h.repo.Save(ctx, order); err != nil {
			return fmt.Errorf("saving order: %w", err)
		}
		return publisher.Publish(ctx, placed...)
	})
	if err != nil {
		return "", err
	}

	h.logger.Info("order created",
		slog.String("order_id", order.ID().String()),
		slog.String("order_number", order.Number()),
		slog.Int64("total", order.Pricing().Total.Amount()),
	)
	return order.ID().String(), nil
}

func (h *CreateOrderHandler) logPriceMismatch(order *domain.Order, client *ClientTotals) {
	if client == nil {
		return
	}
	p := order.Pricing()
	if client.ItemsPrice == p.Subtotal.Amount() &&
		client.TaxPrice == p.Tax.Amount() &&
		client.ShippingPrice == p.Shipping.Amount() &&
		client.TotalPrice == p.Total.Amount() {
		return
	}
	h.logger.Warn("client totals differ from computed totals",
		slog.String("order_number", order.Number()),
		slog.Int64("client_total", client.TotalPrice),
		slog.Int64("computed_total", p.Total.Amount()),
	)
}
