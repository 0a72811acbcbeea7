package types

import "errors"

var (
	ErrInvalidID        = errors.New("invalid identifier format")
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter ISO 4217 code")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)
