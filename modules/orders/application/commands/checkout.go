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

// CheckoutCommand turns the buyer's cart into an order.
type CheckoutCommand struct {
	UserID          string
	ShippingAddress AddressInput
	PaymentMethod   string
}

type CheckoutHandler struct {
	repo     domain.OrderRepository
	catalog  domain.Catalog
	carts    domain.Carts
	uow      *eventbus.UnitOfWork
	currency string
	logger   *slog.Logger
}

func NewCheckoutHandler(
	repo domain.OrderRepository,
	catalog domain.Catalog,
	carts domain.Carts,
	uow *eventbus.UnitOfWork,
	currency string,
	logger *slog.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		repo:     repo,
		catalog:  catalog,
		carts:    carts,
		uow:      uow,
		currency: currency,
		logger:   logger,
	}
}

// Handle snapshots the cart, then reserves stock for every line and saves
// the order in one transaction. Any short line aborts the whole checkout.
// The cart is cleared only after the order committed.
func (h *CheckoutHandler) Handle(ctx context.Context, cmd CheckoutCommand) (string, error) {
	userID, err := types.ParseUserID(cmd.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid user ID: %w", err)
	}
	method, err := domain.ParsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return "", err
	}

	cartLines, err := h.carts.Lines(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("reading cart: %w", err)
	}
	if len(cartLines) == 0 {
		return "", domain.ErrEmptyOrder
	}

	items := make([]ItemInput, len(cartLines))
	for i, l := range cartLines {
		items[i] = ItemInput{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	lines, err := snapshotLines(ctx, h.catalog, items)
	if err != nil {
		return "", err
	}

	order, err := domain.NewOrder(userID, lines, cmd.ShippingAddress.toDomain(), method, h.currency, time.Now())
	if err != nil {
		return "", err
	}

	// Popped once: the closure may run again on a transaction retry.
	placed := order.PopDomainEvents()
	err = h.uow.Execute(ctx, func(ctx context.Context, publisher events.Publisher) error {
		if err := h.catalog.Reserve(ctx, domain.StockLines(order.Items())); err != nil {
			return fmt.Errorf("reserving stock: %w", err)
		}
		order.MarkStockReserved()

		if err := h.repo.Save(ctx, order); err != nil {
			return fmt.Errorf("saving order: %w", err)
		}
		return publisher.Publish(ctx, placed...)
	})
	if err != nil {
		return "", err
	}

	if err := h.carts.Clear(ctx, userID); err != nil {
		h.logger.Error("failed to clear cart after checkout",
			slog.String("user_id", userID.String()),
			slog.String("order_id", order.ID().String()),
			slog.Any("error", err),
		)
	}

	h.logger.Info("checkout completed",
		slog.String("order_id", order.ID().String()),
		slog.String("order_number", order.Number()),
		slog.Int("lines", len(lines)),
	)
	return order.ID().String(), nil
}
