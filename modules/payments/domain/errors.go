package domain

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrForbidden          = errors.New("not authorized to pay for this order")
	ErrAlreadyPaid        = errors.New("order is already paid")
	ErrNotPayable         = errors.New("order cannot be paid in its current status")
	ErrUnsupportedMethod  = errors.New("unsupported payment method")
	ErrRailDisabled       = errors.New("payment method is not enabled")
	ErrPhoneRequired      = errors.New("phone number is required for M-Pesa payments")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrNoPendingPayment   = errors.New("order has no pending payment to confirm")
	ErrReferenceMismatch  = errors.New("payment reference does not match the pending payment")
	ErrInvalidCallback    = errors.New("invalid payment callback")
	ErrMissingCredentials = errors.New("missing payment rail credentials")
	ErrUpstream           = errors.New("payment provider error")
)
