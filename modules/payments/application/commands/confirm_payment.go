package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tabison/suppliers/modules/payments/domain"
)

// ConfirmPaymentCommand asks the rail for the final state of the order's
// pending payment.
type ConfirmPaymentCommand struct {
	OrderID string
	UserID  string
	IsAdmin bool
}

type ConfirmPaymentHandler struct {
	orders domain.Orders
	rails  domain.Rails
	logger *slog.Logger
}

func NewConfirmPaymentHandler(orders domain.Orders, rails domain.Rails, logger *slog.Logger) *ConfirmPaymentHandler {
	return &ConfirmPaymentHandler{orders: orders, rails: rails, logger: logger}
}

// Handle is idempotent: confirming a paid order reports it unchanged.
func (h *ConfirmPaymentHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*Outcome, error) {
	order, err := h.orders.Get(ctx, cmd.OrderID, cmd.UserID, cmd.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("finding order: %w", err)
	}
	if order.IsPaid {
		out := &Outcome{Message: "Order is already paid", Order: order}
		if order.Payment != nil {
			out.Payment = *order.Payment
		}
		return out, nil
	}
	if err := order.CheckPayable(); err != nil {
		return nil, err
	}

	method, reference, err := order.PendingReference()
	if err != nil {
		return nil, err
	}
	rail, err := h.rails.Get(method)
	if err != nil {
		return nil, err
	}

	result, err := rail.Confirm(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("confirming %s payment: %w", method, err)
	}
	h.logger.Info("payment confirmed with rail",
		slog.String("order_id", order.ID),
		slog.String("rail", string(method)),
		slog.String("status", string(result.Status)),
	)

	if result.Status == domain.StatusPending {
		return &Outcome{Message: outcomeMessage(result), Order: order, Payment: result}, nil
	}
	updated, err := settle(ctx, h.orders, order.ID, result)
	if err != nil {
		return nil, err
	}
	return &Outcome{Message: outcomeMessage(result), Order: updated, Payment: result}, nil
}
