package contracts

import (
	"time"

	"github.com/tabison/suppliers/modules/shared/events"
)

const (
	OrderPlacedEventType    events.EventType = "orders.OrderPlaced"
	OrderPaidEventType      events.EventType = "orders.OrderPaid"
	OrderCancelledEventType events.EventType = "orders.OrderCancelled"
)

// OrderLine is the public shape of an order line carried on events.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// OrderPlacedEvent is published once an order has been persisted.
type OrderPlacedEvent struct {
	events.BaseEvent
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      string `json:"user_id"`
	TotalAmount int64  `json:"total_amount"`
	Currency    string `json:"currency"`
}

// OrderPaidEvent is published after a payment rail confirmed the charge
// and the order has been marked paid.
type OrderPaidEvent struct {
	events.BaseEvent
	OrderID       string      `json:"order_id"`
	OrderNumber   string      `json:"order_number"`
	UserID        string      `json:"user_id"`
	PaymentMethod string      `json:"payment_method"`
	TransactionID string      `json:"transaction_id"`
	ReceiptNumber string      `json:"receipt_number"`
	Lines         []OrderLine `json:"lines"`
	ItemsPrice    int64       `json:"items_price"`
	TaxPrice      int64       `json:"tax_price"`
	ShippingPrice int64       `json:"shipping_price"`
	TotalPrice    int64       `json:"total_price"`
	Currency      string      `json:"currency"`
	PaidAt        time.Time   `json:"paid_at"`
}

// OrderCancelledEvent is published when an order moves to cancelled.
type OrderCancelledEvent struct {
	events.BaseEvent
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}
