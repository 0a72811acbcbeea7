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

// PaymentInput is a rail outcome reported by the payments module.
type PaymentInput struct {
	Rail          string
	Reference     string
	TransactionID string
	ReceiptNumber string
	Status        string
	Message       string
}

func (p PaymentInput) toDomain() domain.PaymentResult {
	return domain.PaymentResult{
		Rail:          p.Rail,
		Reference:     p.Reference,
		TransactionID: p.TransactionID,
		ReceiptNumber: p.ReceiptNumber,
		Status:        p.Status,
		Message:       p.Message,
	}
}

// RecordPaymentCommand applies a rail outcome to an order. Paid marks the
// order paid; otherwise the attempt is only recorded and the order stays
// pending.
type RecordPaymentCommand struct {
	OrderID string
	Paid    bool
	Payment PaymentInput
}

type RecordPaymentHandler struct {
	repo   domain.OrderRepository
	uow    *eventbus.UnitOfWork
	logger *slog.Logger
}

func NewRecordPaymentHandler(repo domain.OrderRepository, uow *eventbus.UnitOfWork, logger *slog.Logger) *RecordPaymentHandler {
	return &RecordPaymentHandler{
		repo:   repo,
		uow:    uow,
		logger: logger,
	}
}

// Handle persists the outcome. OrderPaid is delivered to after-commit
// subscribers only once the paid order is stored.
func (h *RecordPaymentHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) error {
	orderID, err := types.ParseOrderID(cmd.OrderID)
	if err != nil {
		return fmt.Errorf("invalid order ID: %w", err)
	}

	return h.uow.Execute(ctx, func(ctx context.Context, publisher events.Publisher) error {
		order, err := h.repo.FindByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("finding order: %w", err)
		}

		result := cmd.Payment.toDomain()
		if cmd.Paid {
			err = order.MarkPaid(result, time.Now())
		} else {
			err = order.RecordPayment(result, time.Now())
		}
		if err != nil {
			return err
		}

		if err := h.repo.Save(ctx, order); err != nil {
			return fmt.Errorf("saving order: %w", err)
		}

		h.logger.Info("payment recorded",
			slog.String("order_id", order.ID().String()),
			slog.String("rail", result.Rail),
			slog.String("status", result.Status),
			slog.Bool("paid", order.IsPaid()),
		)
		return publisher.Publish(ctx, order.PopDomainEvents()...)
	})
}
