package domain

import (
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/events/contracts"
)

func NewOrderPlacedEvent(order *Order) contracts.OrderPlacedEvent {
	total := order.Pricing().Total
	return contracts.OrderPlacedEvent{
		BaseEvent:   events.NewBaseEvent(contracts.OrderPlacedEventType, order.ID().String()),
		OrderID:     order.ID().String(),
		OrderNumber: order.Number(),
		UserID:      order.UserID().String(),
		TotalAmount: total.Amount(),
		Currency:    total.Currency(),
	}
}

func NewOrderPaidEvent(order *Order) contracts.OrderPaidEvent {
	items := order.Items()
	lines := make([]contracts.OrderLine, len(items))
	for i, item := range items {
		lines[i] = contracts.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount(),
		}
	}

	p := order.Pricing()
	payment := order.Payment()
	e := contracts.OrderPaidEvent{
		BaseEvent:     events.NewBaseEvent(contracts.OrderPaidEventType, order.ID().String()),
		OrderID:       order.ID().String(),
		OrderNumber:   order.Number(),
		UserID:        order.UserID().String(),
		PaymentMethod: order.PaymentMethod().String(),
		TransactionID: payment.TransactionID,
		ReceiptNumber: payment.ReceiptNumber,
		Lines:         lines,
		ItemsPrice:    p.Subtotal.Amount(),
		TaxPrice:      p.Tax.Amount(),
		ShippingPrice: p.Shipping.Amount(),
		TotalPrice:    p.Total.Amount(),
		Currency:      p.Total.Currency(),
	}
	if paidAt := order.PaidAt(); paidAt != nil {
		e.PaidAt = *paidAt
	}
	return e
}

func NewOrderCancelledEvent(order *Order) contracts.OrderCancelledEvent {
	return contracts.OrderCancelledEvent{
		BaseEvent: events.NewBaseEvent(contracts.OrderCancelledEventType, order.ID().String()),
		OrderID:   order.ID().String(),
		UserID:    order.UserID().String(),
	}
}
