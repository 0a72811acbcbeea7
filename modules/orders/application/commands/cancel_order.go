package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/tabison/suppliers/internal/platform/eventbus"
	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/types"
)

// CancelOrderCommand cancels an order on behalf of its owner.
type CancelOrderCommand struct {
	UserID  string
	OrderID string
}

type CancelOrderHandler struct {
	repo    domain.OrderRepository
	catalog domain.Catalog
	uow     *eventbus.UnitOfWork
}

func NewCancelOrderHandler(repo domain.OrderRepository, catalog domain.Catalog, uow *eventbus.UnitOfWork) *CancelOrderHandler {
	return &CancelOrderHandler{
		repo:    repo,
		catalog: catalog,
		uow:     uow,
	}
}

// Handle executes the cancel order use case. Reserved stock is released in
// the same transaction as the status change.
func (h *CancelOrderHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	userID, err := types.ParseUserID(cmd.UserID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	orderID, err := types.ParseOrderID(cmd.OrderID)
	if err != nil {
		return fmt.Errorf("invalid order ID: %w", err)
	}

	return h.uow.Execute(ctx, func(ctx context.Context, publisher events.Publisher) error {
		order, err := h.repo.FindByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("finding order: %w", err)
		}

		if err := order.CancelByOwner(userID, time.Now()); err != nil {
			return err
		}
		if err := releaseStock(ctx, h.catalog, order); err != nil {
			return err
		}

		if err := h.repo.Save(ctx, order); err != nil {
			return fmt.Errorf("saving order: %w", err)
		}
		return publisher.Publish(ctx, order.PopDomainEvents()...)
	})
}
