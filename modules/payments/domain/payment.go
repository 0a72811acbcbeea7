// Package domain holds the payment rail contract and the order view the
// payments module works against.
package domain

import (
	"context"
	"fmt"
	"time"
)

// Method names one payment rail.
type Method string

const (
	MethodMpesa   Method = "mpesa"
	MethodCard    Method = "card"
	MethodPayPal  Method = "paypal"
	MethodSandbox Method = "sandbox"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodMpesa, MethodCard, MethodPayPal, MethodSandbox:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

// Status is the outcome of a rail call.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ChargeRequest is what a rail needs to start a payment.
type ChargeRequest struct {
	OrderID     string
	OrderNumber string
	Amount      int64
	Currency    string
	Phone       string
	CallbackURL string
}

// Result is a rail outcome. ClientSecret and ApprovalURL are handed to the
// buyer and never stored.
type Result struct {
	Rail          Method `json:"rail"`
	Status        Status `json:"status"`
	Reference     string `json:"reference,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	ReceiptNumber string `json:"receiptNumber,omitempty"`
	Message       string `json:"message,omitempty"`
	ClientSecret  string `json:"clientSecret,omitempty"`
	ApprovalURL   string `json:"approvalUrl,omitempty"`
}

func (r Result) Succeeded() bool { return r.Status == StatusSucceeded }

// Rail is one external payment provider.
type Rail interface {
	Method() Method
	// Charge starts a payment. Rails that settle asynchronously return a
	// pending result carrying the reference Confirm needs.
	Charge(ctx context.Context, req ChargeRequest) (Result, error)
	// Confirm asks the provider for the final state of a payment.
	Confirm(ctx context.Context, reference string) (Result, error)
}

// CallbackParser is implemented by rails that push results to us.
type CallbackParser interface {
	ParseCallback(body []byte) (Result, error)
}

// Order is the payments view of an order.
type Order struct {
	ID            string     `json:"id"`
	OrderNumber   string     `json:"orderNumber"`
	UserID        string     `json:"userId"`
	TotalPrice    int64      `json:"totalPrice"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	IsPaid        bool       `json:"isPaid"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	PaymentMethod string     `json:"paymentMethod"`
	Phone         string     `json:"-"`
	Payment       *Result    `json:"paymentResult,omitempty"`
}

// CheckPayable reports whether a new payment may be started.
func (o *Order) CheckPayable() error {
	if o.IsPaid {
		return ErrAlreadyPaid
	}
	if o.Status != "pending" {
		return fmt.Errorf("%w: %s", ErrNotPayable, o.Status)
	}
	return nil
}

// PendingReference returns the reference of the recorded pending payment.
func (o *Order) PendingReference() (Method, string, error) {
	if o.Payment == nil || o.Payment.Status != StatusPending || o.Payment.Reference == "" {
		return "", "", ErrNoPendingPayment
	}
	return o.Payment.Rail, o.Payment.Reference, nil
}

// Orders is the port to the orders module.
type Orders interface {
	Get(ctx context.Context, orderID, userID string, isAdmin bool) (*Order, error)
	// Record stores a pending or failed outcome.
	Record(ctx context.Context, orderID string, result Result) (*Order, error)
	MarkPaid(ctx context.Context, orderID string, result Result) (*Order, error)
}

// Rails indexes the enabled rails by method.
type Rails map[Method]Rail

func NewRails(rails ...Rail) Rails {
	r := make(Rails, len(rails))
	for _, rail := range rails {
		r[rail.Method()] = rail
	}
	return r
}

func (r Rails) Get(m Method) (Rail, error) {
	rail, ok := r[m]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRailDisabled, m)
	}
	return rail, nil
}

// Methods lists the enabled methods in a stable order.
func (r Rails) Methods() []Method {
	var out []Method
	for _, m := range []Method{MethodMpesa, MethodCard, MethodPayPal, MethodSandbox} {
		if _, ok := r[m]; ok {
			out = append(out, m)
		}
	}
	return out
}
