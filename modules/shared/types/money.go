package types

import (
	"fmt"
	"strings"
)

// DefaultCurrency is the marketplace's settlement currency.
const DefaultCurrency = "KES"

// Money is an amount in whole units of an ISO 4217 currency. Shilling prices
// carry no minor unit, so amounts are never fractional.
type Money struct {
	amount   int64
	currency string
}

// NewMoney upper-cases the currency code and rejects anything that is not
// three letters.
func NewMoney(amount int64, currency string) (Money, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
		}
	}
	return Money{amount: amount, currency: code}, nil
}

func MustNewMoney(amount int64, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func Zero(currency string) Money {
	return MustNewMoney(0, currency)
}

func (m Money) Amount() int64    { return m.amount }
func (m Money) Currency() string { return m.currency }
func (m Money) IsZero() bool     { return m.amount == 0 }
func (m Money) IsNegative() bool { return m.amount < 0 }

// Add returns the sum. Both operands must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

func (m Money) Multiply(quantity int64) Money {
	return Money{amount: m.amount * quantity, currency: m.currency}
}

func (m Money) Equals(other Money) bool { return m == other }

func (m Money) String() string {
	return fmt.Sprintf("%s %d", m.currency, m.amount)
}
