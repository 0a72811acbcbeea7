package domain

import "errors"

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrItemNotFound           = errors.New("item not in cart")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidQuantity        = errors.New("quantity must be at least 1")
	ErrConcurrentModification = errors.New("cart was modified concurrently, please retry")
)
