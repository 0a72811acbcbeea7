package render_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabison/suppliers/modules/notifications/domain"
	"github.com/tabison/suppliers/modules/notifications/infrastructure/render"
)

func receipt() domain.Receipt {
	return domain.Receipt{
		OrderID:       "0192a1b2-0000-7000-8000-000000000001",
		OrderNumber:   "ORD-20261016093000-A1B2C3",
		Customer:      domain.Recipient{Email: "wanjiku@example.co.ke", Name: "Wanjiku Kamau"},
		PaymentMethod: "mpesa",
		ReceiptNumber: "QK12ABC345",
		Lines: []domain.ReceiptLine{
			{Name: "Iron sheet gauge 30", Quantity: 2, UnitPrice: 3000},
		},
		ItemsPrice:    6000,
		TaxPrice:      960,
		ShippingPrice: 0,
		TotalPrice:    6960,
		Currency:      "KES",
		PaidAt:        time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
	}
}

func TestText_Render(t *testing.T) {
	text, err := render.NewText("Tabison Suppliers").Render(receipt())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "Hello Wanjiku Kamau,"))
	assert.Contains(t, text, "order ORD-20261016093000-A1B2C3")
	assert.Contains(t, text, "2 x KES 3,000 = KES 6,000")
	assert.Contains(t, text, "VAT:      KES 960")
	assert.Contains(t, text, "Total:    KES 6,960")
	assert.Contains(t, text, "Paid via M-Pesa on 16 Oct 2026 09:30 UTC")
	assert.Contains(t, text, "Receipt number: QK12ABC345")
	assert.NotContains(t, text, "Transaction ID")
}

func TestText_RenderUsesReceiptCurrency(t *testing.T) {
	r := receipt()
	r.Currency = "USD"
	text, err := render.NewText("Tabison Suppliers").Render(r)
	require.NoError(t, err)
	assert.Contains(t, text, "Total:    USD 6,960")
}

func TestPDF_Render(t *testing.T) {
	doc, err := render.NewPDF("Tabison Suppliers").Render(receipt())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	assert.Equal(t, "receipt-ORD-20261016093000-A1B2C3.pdf", render.Filename(receipt()))
	assert.Equal(t, "Payment receipt for order ORD-20261016093000-A1B2C3", render.Subject(receipt()))
}
