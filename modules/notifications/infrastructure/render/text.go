// Package render turns receipts into email text and PDF documents.
package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/tabison/suppliers/modules/notifications/domain"
)

const receiptText = `Hello {{.Customer.Name}},

Thank you for shopping with {{.Store}}. We have received your payment for order {{.OrderNumber}}.

{{range .Lines}}{{printf "%-32s" .Name}} {{printf "%4d" .Quantity}} x {{money .UnitPrice}} = {{money .Total}}
{{end}}
Items:    {{money .ItemsPrice}}
VAT:      {{money .TaxPrice}}
Shipping: {{money .ShippingPrice}}
Total:    {{money .TotalPrice}}

Paid via {{method .PaymentMethod}} on {{.PaidAt.Format "02 Jan 2006 15:04 MST"}}{{if .ReceiptNumber}}
Receipt number: {{.ReceiptNumber}}{{end}}{{if .TransactionID}}
Transaction ID: {{.TransactionID}}{{end}}

A PDF copy of this receipt is attached when available.

{{.Store}}
`

// Text renders the plain-text receipt.
type Text struct {
	store string
	tmpl  *template.Template
}

func NewText(store string) *Text {
	funcs := template.FuncMap{
		"method": domain.PaymentMethodLabel,
		// Bound to the receipt currency in Render.
		"money": func(int64) string { return "" },
	}
	return &Text{
		store: store,
		tmpl:  template.Must(template.New("receipt").Funcs(funcs).Parse(receiptText)),
	}
}

func (t *Text) Render(r domain.Receipt) (string, error) {
	tmpl, err := t.tmpl.Clone()
	if err != nil {
		return "", fmt.Errorf("cloning receipt template: %w", err)
	}
	tmpl.Funcs(template.FuncMap{
		"money": func(v int64) string { return domain.FormatAmount(v, r.Currency) },
	})

	var b strings.Builder
	err = tmpl.Execute(&b, struct {
		domain.Receipt
		Store string
	}{Receipt: r, Store: t.store})
	if err != nil {
		return "", fmt.Errorf("rendering receipt: %w", err)
	}
	return b.String(), nil
}

// Subject is the receipt email subject line.
func Subject(r domain.Receipt) string {
	return "Payment receipt for order " + r.OrderNumber
}
