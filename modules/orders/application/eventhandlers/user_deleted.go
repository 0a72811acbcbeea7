package eventhandlers

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/events/contracts"
	"github.com/tabison/suppliers/modules/shared/types"
)

// pageSize bounds how many pending orders one deletion loads.
const pageSize = 1000

// UserDeletedHandler handles UserDeleted events by cancelling pending orders.
// This handler runs within the same transaction as the user deletion,
// ensuring atomic consistency between user deletion and order cancellation.
type UserDeletedHandler struct {
	orderRepo domain.OrderRepository
	catalog   domain.Catalog
	logger    *slog.Logger
}

func NewUserDeletedHandler(orderRepo domain.OrderRepository, catalog domain.Catalog, logger *slog.Logger) *UserDeletedHandler {
	return &UserDeletedHandler{
		orderRepo: orderRepo,
		catalog:   catalog,
		logger:    logger,
	}
}

func (h *UserDeletedHandler) Handle(ctx context.Context, event events.Event) error {
	userDeletedEvent, ok := event.(contracts.UserDeletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %T", event)
	}

	h.logger.Info("handling user deleted event, cancelling pending orders", slog.String("user_id", userDeletedEvent.UserID))

	userID, err := types.ParseUserID(userDeletedEvent.UserID)
	if err != nil {
		return fmt.Errorf("parsing user ID: %w", err)
	}

	// The context carries the deleting transaction.
	orders, _, err := h.orderRepo.FindAll(ctx, domain.ListFilter{UserID: userID, Status: domain.StatusPending}, 0, pageSize)
	if err != nil {
		return fmt.Errorf("finding user orders: %w", err)
	}

	now := time.Now()
	for order := range slices.Values(orders) {
		if err := order.Cancel(now); err != nil {
			h.logger.Warn("failed to cancel order",
				slog.String("order_id", order.ID().String()),
				slog.Any("error", err),
			)
			continue
		}
		order.ClearDomainEvents()

		if items := order.ReleaseReservation(); len(items) > 0 {
			if err := h.catalog.Release(ctx, domain.StockLines(items)); err != nil {
				return fmt.Errorf("releasing stock for order %s: %w", order.ID().String(), err)
			}
		}

		if err := h.orderRepo.Save(ctx, order); err != nil {
			return fmt.Errorf("saving cancelled order %s: %w", order.ID().String(), err)
		}

		h.logger.Info("cancelled order for deleted user",
			slog.String("order_id", order.ID().String()),
			slog.String("user_id", userDeletedEvent.UserID),
		)
	}

	return nil
}
