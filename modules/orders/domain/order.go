// Package domain contains business entities and rules for orders.
package domain

import (
	"slices"
	"time"

	shareddomain "github.com/tabison/suppliers/modules/shared/domain"
	"github.com/tabison/suppliers/modules/shared/pricing"
	"github.com/tabison/suppliers/modules/shared/types"
)

// LineItem is a snapshot of a product at the time the order was placed.
// Later catalog changes never touch it.
type LineItem struct {
	ProductID string
	Name      string
	Image     string
	Quantity  int
	UnitPrice types.Money
}

func (i LineItem) Subtotal() types.Money {
	return i.UnitPrice.Multiply(int64(i.Quantity))
}

// Order is the aggregate root for the order bounded context.
type Order struct {
	shareddomain.AggregateRoot

	id             types.OrderID
	number         string
	userID         types.UserID
	items          []LineItem
	address        ShippingAddress
	paymentMethod  PaymentMethod
	pricing        pricing.Breakdown
	status         Status
	isPaid         bool
	paidAt         *time.Time
	payment        PaymentResult
	trackingNumber string
	shippedAt      *time.Time
	deliveredAt    *time.Time
	cancelledAt    *time.Time
	stockReserved  bool
	createdAt      time.Time
	updatedAt      time.Time
}

// NewOrder snapshots items into a pending, unpaid order and prices it.
// The breakdown is computed here once and never recomputed.
func NewOrder(
	userID types.UserID,
	items []LineItem,
	address ShippingAddress,
	method PaymentMethod,
	currency string,
	now time.Time,
) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParsePaymentMethod(method.String()); err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, len(items))
	for i, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		lines[i] = pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity}
	}
	subtotal, err := pricing.Subtotal(currency, lines...)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	o := &Order{
		id:            types.NewOrderID(),
		number:        NewOrderNumber(now),
		userID:        userID,
		items:         slices.Clone(items),
		address:       address,
		paymentMethod: method,
		pricing:       pricing.Compute(subtotal),
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
	}
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// State is the full persisted state of an order.
type State struct {
	ID             types.OrderID
	Number         string
	UserID         types.UserID
	Items          []LineItem
	Address        ShippingAddress
	PaymentMethod  PaymentMethod
	Pricing        pricing.Breakdown
	Status         Status
	IsPaid         bool
	PaidAt         *time.Time
	Payment        PaymentResult
	TrackingNumber string
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	StockReserved  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reconstitute rebuilds an order from persistence.
func Reconstitute(s State) *Order {
	return &Order{
		id:             s.ID,
		number:         s.Number,
		userID:         s.UserID,
		items:          slices.Clone(s.Items),
		address:        s.Address,
		paymentMethod:  s.PaymentMethod,
		pricing:        s.Pricing,
		status:         s.Status,
		isPaid:         s.IsPaid,
		paidAt:         copyTime(s.PaidAt),
		payment:        s.Payment,
		trackingNumber: s.TrackingNumber,
		shippedAt:      copyTime(s.ShippedAt),
		deliveredAt:    copyTime(s.DeliveredAt),
		cancelledAt:    copyTime(s.CancelledAt),
		stockReserved:  s.StockReserved,
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
	}
}

// State returns a copy of the order's state for persistence.
func (o *Order) State() State {
	return State{
		ID:             o.id,
		Number:         o.number,
		UserID:         o.userID,
		Items:          slices.Clone(o.items),
		Address:        o.address,
		PaymentMethod:  o.paymentMethod,
		Pricing:        o.pricing,
		Status:         o.status,
		IsPaid:         o.isPaid,
		PaidAt:         copyTime(o.paidAt),
		Payment:        o.payment,
		TrackingNumber: o.trackingNumber,
		ShippedAt:      copyTime(o.shippedAt),
		DeliveredAt:    copyTime(o.deliveredAt),
		CancelledAt:    copyTime(o.cancelledAt),
		StockReserved:  o.stockReserved,
		CreatedAt:      o.createdAt,
		UpdatedAt:      o.updatedAt,
	}
}

// Getters

func (o *Order) ID() types.OrderID             { return o.id }
func (o *Order) Number() string                { return o.number }
func (o *Order) UserID() types.UserID          { return o.userID }
func (o *Order) Items() []LineItem             { return slices.Clone(o.items) }
func (o *Order) Address() ShippingAddress      { return o.address }
func (o *Order) PaymentMethod() PaymentMethod  { return o.paymentMethod }
func (o *Order) Pricing() pricing.Breakdown    { return o.pricing }
func (o *Order) Status() Status                { return o.status }
func (o *Order) IsPaid() bool                  { return o.isPaid }
func (o *Order) PaidAt() *time.Time            { return copyTime(o.paidAt) }
func (o *Order) Payment() PaymentResult        { return o.payment }
func (o *Order) TrackingNumber() string        { return o.trackingNumber }
func (o *Order) ShippedAt() *time.Time         { return copyTime(o.shippedAt) }
func (o *Order) DeliveredAt() *time.Time       { return copyTime(o.deliveredAt) }
func (o *Order) CancelledAt() *time.Time       { return copyTime(o.cancelledAt) }
func (o *Order) StockReserved() bool           { return o.stockReserved }
func (o *Order) CreatedAt() time.Time          { return o.createdAt }
func (o *Order) UpdatedAt() time.Time          { return o.updatedAt }
func (o *Order) IsOwnedBy(u types.UserID) bool { return o.userID == u }
func (o *Order) CanBeViewedBy(u types.UserID, admin bool) bool {
	return admin || o.IsOwnedBy(u)
}

// Business methods

// MarkStockReserved records that checkout decremented catalog stock for
// every line.
func (o *Order) MarkStockReserved() {
	o.stockReserved = true
}

// ReleaseReservation returns the lines whose stock must go back to the
// catalog and clears the reservation. It returns nil when nothing is held.
func (o *Order) ReleaseReservation() []LineItem {
	if !o.stockReserved {
		return nil
	}
	o.stockReserved = false
	return slices.Clone(o.items)
}

// TransitionTo moves the order along its lifecycle. Only the next forward
// step is allowed; cancellation is allowed from any non-terminal status.
func (o *Order) TransitionTo(to Status, trackingNumber string, now time.Time) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if !o.status.CanTransitionTo(to) {
		return ErrInvalidTransition
	}

	now = now.UTC()
	switch to {
	case StatusCancelled:
		o.cancel(now)
		return nil
	case StatusShipped:
		if trackingNumber == "" {
			return ErrTrackingNumberRequired
		}
		o.trackingNumber = trackingNumber
		o.shippedAt = &now
	case StatusDelivered:
		o.deliveredAt = &now
		if o.paymentMethod == PaymentCashOnDelivery && !o.isPaid {
			o.isPaid = true
			o.paidAt = &now
		}
	}

	o.status = to
	o.updatedAt = now
	return nil
}

// CancelByOwner cancels on the buyer's request, which is only allowed while
// the order is pending and unpaid.
func (o *Order) CancelByOwner(userID types.UserID, now time.Time) error {
	if !o.IsOwnedBy(userID) {
		return ErrForbidden
	}
	if o.status != StatusPending || o.isPaid {
		return ErrNotCancellable
	}
	o.cancel(now.UTC())
	return nil
}

// Cancel cancels a non-terminal order.
func (o *Order) Cancel(now time.Time) error {
	return o.TransitionTo(StatusCancelled, "", now)
}

func (o *Order) cancel(now time.Time) {
	o.status = StatusCancelled
	o.cancelledAt = &now
	o.updatedAt = now
	o.AddDomainEvent(NewOrderCancelledEvent(o))
}

// RecordPayment stores a pending or failed rail outcome. The order stays
// pending and unpaid.
func (o *Order) RecordPayment(result PaymentResult, now time.Time) error {
	if o.isPaid {
		return ErrAlreadyPaid
	}
	if o.status != StatusPending {
		return ErrInvalidTransition
	}
	now = now.UTC()
	result.UpdatedAt = now
	o.payment = result
	o.updatedAt = now
	return nil
}

// MarkPaid applies a confirmed rail outcome: the order becomes paid and
// confirmed.
func (o *Order) MarkPaid(result PaymentResult, now time.Time) error {
	if o.isPaid {
		return ErrAlreadyPaid
	}
	if o.status != StatusPending {
		return ErrInvalidTransition
	}
	now = now.UTC()
	result.UpdatedAt = now
	o.payment = result
	o.isPaid = true
	o.paidAt = &now
	o.status = StatusConfirmed
	o.updatedAt = now
	o.AddDomainEvent(NewOrderPaidEvent(o))
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
