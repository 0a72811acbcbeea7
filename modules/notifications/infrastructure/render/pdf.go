package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/tabison/suppliers/modules/notifications/domain"
)

// PDF renders A4 receipts.
type PDF struct {
	store string
}

func NewPDF(store string) *PDF {
	return &PDF{store: store}
}

func (p *PDF) Render(r domain.Receipt) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt "+r.OrderNumber, true)
	pdf.SetAuthor(p.store, true)
	pdf.SetCreationDate(r.PaidAt)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	money := func(v int64) string { return domain.FormatAmount(v, r.Currency) }

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(p.store), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Payment receipt", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	meta := [][2]string{
		{"Order", r.OrderNumber},
		{"Customer", r.Customer.Name},
		{"Email", r.Customer.Email},
		{"Paid on", r.PaidAt.Format("02 Jan 2006 15:04 MST")},
		{"Method", domain.PaymentMethodLabel(r.PaymentMethod)},
	}
	if r.ReceiptNumber != "" {
		meta = append(meta, [2]string{"Receipt no.", r.ReceiptNumber})
	}
	for _, m := range meta {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 6, m[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(m[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{90, 20, 40, 40}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Item", "Qty", "Unit price", "Total"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, l := range r.Lines {
		pdf.CellFormat(widths[0], 7, tr(l.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, strconv.Itoa(l.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, money(l.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, money(l.Total()), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	totals := [][2]string{
		{"Items", money(r.ItemsPrice)},
		{"VAT (16%)", money(r.TaxPrice)},
		{"Shipping", money(r.ShippingPrice)},
		{"Total", money(r.TotalPrice)},
	}
	for i, t := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(150, 6, t[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, t[1], "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering receipt PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename is the attachment name for a receipt.
func Filename(r domain.Receipt) string {
	return "receipt-" + r.OrderNumber + ".pdf"
}
