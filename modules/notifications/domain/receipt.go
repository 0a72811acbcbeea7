// Package domain holds the receipt model and the ports the notifications
// module sends through.
package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrNoRecipientEmail  = errors.New("recipient has no email address")
)

// Recipient is who a receipt goes to.
type Recipient struct {
	UserID string
	Email  string
	Name   string
}

// ReceiptLine is one purchased item.
type ReceiptLine struct {
	Name      string
	Quantity  int
	UnitPrice int64
}

func (l ReceiptLine) Total() int64 { return l.UnitPrice * int64(l.Quantity) }

// Receipt is everything a paid order receipt shows.
type Receipt struct {
	OrderID       string
	OrderNumber   string
	Customer      Recipient
	PaymentMethod string
	TransactionID string
	ReceiptNumber string
	Lines         []ReceiptLine
	ItemsPrice    int64
	TaxPrice      int64
	ShippingPrice int64
	TotalPrice    int64
	Currency      string
	PaidAt        time.Time
}

// Attachment is a file sent with a message.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

// Message is an outgoing email.
type Message struct {
	To          string       `json:"to"`
	ToName      string       `json:"toName,omitempty"`
	From        string       `json:"from"`
	Subject     string       `json:"subject"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Recipients resolves a user id to a mail recipient.
type Recipients interface {
	Lookup(ctx context.Context, userID string) (Recipient, error)
}

// TextRenderer renders the plain-text receipt body.
type TextRenderer interface {
	Render(r Receipt) (string, error)
}

// PDFRenderer renders the receipt as a PDF document.
type PDFRenderer interface {
	Render(r Receipt) ([]byte, error)
}

// FormatAmount renders whole currency units with thousands separators,
// e.g. "KES 6,960".
func FormatAmount(amount int64, currency string) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	s := b.String()
	if neg {
		s = "-" + s
	}
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// PaymentMethodLabel is the customer-facing name of a payment method.
func PaymentMethodLabel(method string) string {
	switch method {
	case "mpesa":
		return "M-Pesa"
	case "card":
		return "Card"
	case "paypal":
		return "PayPal"
	case "cod":
		return "Cash on delivery"
	case "sandbox":
		return "Sandbox"
	}
	return method
}
