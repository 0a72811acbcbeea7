package domain

import (
	"fmt"
	"time"
)

// PaymentMethod tags the rail an order is paid through.
type PaymentMethod string

const (
	PaymentMpesa   PaymentMethod = "mpesa"
	PaymentCard    PaymentMethod = "card"
	PaymentPayPal  PaymentMethod = "paypal"
	PaymentSandbox PaymentMethod = "sandbox"
	// PaymentCashOnDelivery orders are settled when delivered.
	PaymentCashOnDelivery PaymentMethod = "cod"
)

func (m PaymentMethod) String() string { return string(m) }

// ParsePaymentMethod parses a payment method tag.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentMpesa, PaymentCard, PaymentPayPal, PaymentSandbox, PaymentCashOnDelivery:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
	}
}

// PaymentResult is the latest outcome reported by a payment rail.
type PaymentResult struct {
	Rail          string
	Reference     string
	TransactionID string
	ReceiptNumber string
	Status        string
	Message       string
	UpdatedAt     time.Time
}

// IsZero reports whether no payment attempt was recorded.
func (r PaymentResult) IsZero() bool {
	return r.Rail == "" && r.Reference == "" && r.Status == ""
}
