package domain

import "errors"

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrEmptyOrder             = errors.New("order has no items")
	ErrInvalidQuantity        = errors.New("quantity must be at least 1")
	ErrInvalidStatus          = errors.New("invalid order status")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrTrackingNumberRequired = errors.New("tracking number is required to ship an order")
	ErrNotCancellable         = errors.New("only pending, unpaid orders can be cancelled")
	ErrAlreadyPaid            = errors.New("order is already paid")
	ErrInvalidPaymentMethod   = errors.New("invalid payment method")
	ErrInvalidAddress         = errors.New("shipping address is incomplete")
	ErrForbidden              = errors.New("order belongs to another user")

	// Catalog failures surfaced through the order ports.
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)
