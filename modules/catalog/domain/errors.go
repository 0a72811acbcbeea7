package domain

import "errors"

// Domain errors - business rule violations.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrNameRequired    = errors.New("product name is required")
	ErrNameLength      = errors.New("product name must be at most 200 characters")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStock    = errors.New("stock must not be negative")
	ErrInvalidCategory = errors.New("invalid product category")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)
