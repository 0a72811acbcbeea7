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

// UpdateStatusCommand moves an order along its lifecycle (admin).
type UpdateStatusCommand struct {
	OrderID        string
	Status         string
	TrackingNumber string
}

type UpdateStatusHandler struct {
	repo    domain.OrderRepository
	catalog domain.Catalog
	uow     *eventbus.UnitOfWork
	logger  *slog.Logger
}

func NewUpdateStatusHandler(repo domain.OrderRepository, catalog domain.Catalog, uow *eventbus.UnitOfWork, logger *slog.Logger) *UpdateStatusHandler {
	return &UpdateStatusHandler{
		repo:    repo,
		catalog: catalog,
		uow:     uow,
		logger:  logger,
	}
}

// Handle applies the transition. Cancelling an order that holds reserved
// stock returns the stock in the same transaction.
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) error {
	orderID, err := types.ParseOrderID(cmd.OrderID)
	if err != nil {
		return fmt.Errorf("invalid order ID: %w", err)
	}
	status, err := domain.ParseStatus(cmd.Status)
	if err != nil {
		return err
	}

	return h.uow.Execute(ctx, func(ctx context.Context, publisher events.Publisher) error {
		order, err := h.repo.FindByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("finding order: %w", err)
		}

		from := order.Status()
		if err := order.TransitionTo(status, cmd.TrackingNumber, time.Now()); err != nil {
			return fmt.Errorf("%s -> %s: %w", from, status, err)
		}
		if err := releaseStock(ctx, h.catalog, order); err != nil {
			return err
		}

		if err := h.repo.Save(ctx, order); err != nil {
			return fmt.Errorf("saving order: %w", err)
		}

		h.logger.Info("order status updated",
			slog.String("order_id", order.ID().String()),
			slog.String("from", from.String()),
			slog.String("to", status.String()),
		)
		return publisher.Publish(ctx, order.PopDomainEvents()...)
	})
}

// releaseStock returns reserved stock once an order is cancelled.
func releaseStock(ctx context.Context, catalog domain.Catalog, order *domain.Order) error {
	if order.Status() != domain.StatusCancelled {
		return nil
	}
	items := order.ReleaseReservation()
	if len(items) == 0 {
		return nil
	}
	if err := catalog.Release(ctx, domain.StockLines(items)); err != nil {
		return fmt.Errorf("releasing stock: %w", err)
	}
	return nil
}
