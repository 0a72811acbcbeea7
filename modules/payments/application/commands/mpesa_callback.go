package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tabison/suppliers/modules/payments/domain"
)

// MpesaCallbackCommand carries the raw body Daraja posted for an order.
type MpesaCallbackCommand struct {
	OrderID string
	Body    []byte
}

type MpesaCallbackHandler struct {
	orders domain.Orders
	parser domain.CallbackParser
	logger *slog.Logger
}

// NewMpesaCallbackHandler creates the handler. parser is nil when the
// M-Pesa rail is disabled.
func NewMpesaCallbackHandler(orders domain.Orders, parser domain.CallbackParser, logger *slog.Logger) *MpesaCallbackHandler {
	return &MpesaCallbackHandler{orders: orders, parser: parser, logger: logger}
}

// Handle applies the callback if it matches the order's pending STK
// request. Repeated deliveries for a paid order are ignored.
func (h *MpesaCallbackHandler) Handle(ctx context.Context, cmd MpesaCallbackCommand) error {
	if h.parser == nil {
		return fmt.Errorf("%w: %s", domain.ErrRailDisabled, domain.MethodMpesa)
	}
	result, err := h.parser.ParseCallback(cmd.Body)
	if err != nil {
		return err
	}

	order, err := h.orders.Get(ctx, cmd.OrderID, "", true)
	if err != nil {
		return fmt.Errorf("finding order: %w", err)
	}
	if order.IsPaid {
		h.logger.Info("ignoring callback for paid order",
			slog.String("order_id", order.ID),
			slog.String("reference", result.Reference),
		)
		return nil
	}

	_, reference, err := order.PendingReference()
	if err != nil {
		return err
	}
	if reference != result.Reference {
		return fmt.Errorf("%w: got %s", domain.ErrReferenceMismatch, result.Reference)
	}
	if result.Status == domain.StatusPending {
		return nil
	}

	if _, err := settle(ctx, h.orders, order.ID, result); err != nil {
		return err
	}
	h.logger.Info("mpesa callback applied",
		slog.String("order_id", order.ID),
		slog.String("status", string(result.Status)),
		slog.String("receipt", result.ReceiptNumber),
	)
	return nil
}
