package eventhandlers

import (
	"context"
	"log/slog"

	"github.com/tabison/suppliers/modules/notifications/application/commands"
	"github.com/tabison/suppliers/modules/notifications/domain"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/events/contracts"
)

// OrderPaidHandler sends the payment receipt once a paid order committed.
//
// It performs external side effects and must be subscribed to the
// after-commit bus. Failures are logged and never returned, so a receipt
// problem cannot affect the order or payment.
type OrderPaidHandler struct {
	sendReceipt *commands.SendReceiptHandler
	logger      *slog.Logger
}

func NewOrderPaidHandler(sendReceipt *commands.SendReceiptHandler, logger *slog.Logger) *OrderPaidHandler {
	return &OrderPaidHandler{sendReceipt: sendReceipt, logger: logger}
}

func (h *OrderPaidHandler) Handle(ctx context.Context, event events.Event) error {
	var e contracts.OrderPaidEvent
	switch v := event.(type) {
	case contracts.OrderPaidEvent:
		e = v
	case *contracts.OrderPaidEvent:
		e = *v
	default:
		h.logger.Error("unexpected event payload",
			slog.String("event_type", event.EventType().String()),
			slog.String("event_id", event.EventID()),
		)
		return nil
	}

	err := h.sendReceipt.Handle(ctx, commands.SendReceiptCommand{
		UserID:  e.UserID,
		Receipt: toReceipt(e),
	})
	if err != nil {
		h.logger.Error("failed to send receipt",
			slog.String("order_id", e.OrderID),
			slog.String("event_id", e.EventID()),
			slog.Any("error", err),
		)
	}
	return nil
}

func toReceipt(e contracts.OrderPaidEvent) domain.Receipt {
	lines := make([]domain.ReceiptLine, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = domain.ReceiptLine{Name: l.Name, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return domain.Receipt{
		OrderID:       e.OrderID,
		OrderNumber:   e.OrderNumber,
		PaymentMethod: e.PaymentMethod,
		TransactionID: e.TransactionID,
		ReceiptNumber: e.ReceiptNumber,
		Lines:         lines,
		ItemsPrice:    e.ItemsPrice,
		TaxPrice:      e.TaxPrice,
		ShippingPrice: e.ShippingPrice,
		TotalPrice:    e.TotalPrice,
		Currency:      e.Currency,
		PaidAt:        e.PaidAt,
	}
}
