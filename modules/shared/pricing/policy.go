// Package pricing holds the marketplace's tax and shipping policy.
// Cart totals and order breakdowns are both computed here so the two can
// never disagree.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tabison/suppliers/modules/shared/types"
)

// Policy constants. Changing these is a business decision, not a tuning knob.
var (
	// VATRate is the value-added tax applied to the subtotal.
	VATRate = decimal.RequireFromString("0.16")
	// FreeShippingThreshold: subtotals strictly above it ship for free.
	FreeShippingThreshold int64 = 5000
	// FlatShippingFee is charged when the subtotal is at or below the threshold.
	FlatShippingFee int64 = 500
)

// Breakdown is a computed price summary.
// Total always equals Subtotal + Tax + Shipping.
type Breakdown struct {
	Subtotal types.Money
	Tax      types.Money
	Shipping types.Money
	Total    types.Money
}

// Empty is the breakdown of a cart with no lines: there is nothing to ship.
func Empty(currency string) Breakdown {
	if currency == "" {
		currency = types.DefaultCurrency
	}
	zero := types.Zero(currency)
	return Breakdown{Subtotal: zero, Tax: zero, Shipping: zero, Total: zero}
}

// Compute applies the policy to the subtotal of a non-empty set of lines.
// A zero subtotal of free items still pays shipping.
func Compute(subtotal types.Money) Breakdown {
	currency := subtotal.Currency()
	if currency == "" {
		currency = types.DefaultCurrency
	}

	tax := Tax(subtotal.Amount())
	shipping := Shipping(subtotal.Amount())

	return Breakdown{
		Subtotal: types.MustNewMoney(subtotal.Amount(), currency),
		Tax:      types.MustNewMoney(tax, currency),
		Shipping: types.MustNewMoney(shipping, currency),
		Total:    types.MustNewMoney(subtotal.Amount()+tax+shipping, currency),
	}
}

// Tax returns round(subtotal * VATRate), rounding half away from zero.
func Tax(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(VATRate).Round(0).IntPart()
}

// Shipping returns the shipping fee for a subtotal.
func Shipping(subtotal int64) int64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// Line is one priced quantity used to build a subtotal.
type Line struct {
	UnitPrice types.Money
	Quantity  int
}

// Subtotal sums unit price * quantity over lines. All lines must share a currency.
func Subtotal(currency string, lines ...Line) (types.Money, error) {
	total := types.Zero(currency)
	for _, l := range lines {
		var err error
		total, err = total.Add(l.UnitPrice.Multiply(int64(l.Quantity)))
		if err != nil {
			return types.Money{}, err
		}
	}
	return total, nil
}
