package rails

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tabison/suppliers/modules/payments/domain"
)

type CardConfig struct {
	BaseURL   string
	SecretKey string
}

// Card is the payment intent rail. The client secret goes back to the
// buyer's browser, which completes 3-D Secure itself.
type Card struct {
	api apiClient
	key string
}

func NewCard(cfg CardConfig, client *http.Client) (*Card, error) {
	if err := requireCredentials(domain.MethodCard, map[string]string{
		"base URL":   cfg.BaseURL,
		"secret key": cfg.SecretKey,
	}); err != nil {
		return nil, err
	}
	return &Card{api: newAPIClient(cfg.BaseURL, client), key: cfg.SecretKey}, nil
}

func (c *Card) Method() domain.Method { return domain.MethodCard }

type paymentIntent struct {
	ID               string `json:"id"`
	ClientSecret     string `json:"client_secret"`
	Status           string `json:"status"`
	LatestCharge     string `json:"latest_charge"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

func (c *Card) Charge(ctx context.Context, req domain.ChargeRequest) (domain.Result, error) {
	form := url.Values{}
	form.Set("amount", minorUnits(req.Amount).String())
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("description", "Order "+req.OrderNumber)
	form.Set("metadata[order_id]", req.OrderID)
	form.Set("metadata[order_number]", req.OrderNumber)

	httpReq, err := c.api.newRequest(ctx, http.MethodPost, "/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// Re-initiating an order returns the same intent.
	httpReq.Header.Set("Idempotency-Key", req.OrderID+"-"+req.OrderNumber)
	httpReq.SetBasicAuth(c.key, "")

	var intent paymentIntent
	if err := c.api.do(httpReq, &intent); err != nil {
		return domain.Result{}, err
	}
	result := intent.result()
	result.ClientSecret = intent.ClientSecret
	return result, nil
}

// Confirm retrieves the intent; only "succeeded" settles the order.
func (c *Card) Confirm(ctx context.Context, reference string) (domain.Result, error) {
	req, err := c.api.newRequest(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(reference), nil)
	if err != nil {
		return domain.Result{}, err
	}
	req.SetBasicAuth(c.key, "")

	var intent paymentIntent
	if err := c.api.do(req, &intent); err != nil {
		return domain.Result{}, err
	}
	return intent.result(), nil
}

func (p paymentIntent) result() domain.Result {
	r := domain.Result{
		Rail:          domain.MethodCard,
		Reference:     p.ID,
		TransactionID: p.LatestCharge,
		Message:       p.Status,
	}
	switch {
	case p.Status == "succeeded":
		r.Status = domain.StatusSucceeded
		r.ReceiptNumber = p.LatestCharge
	case p.Status == "canceled",
		p.Status == "requires_payment_method" && p.LastPaymentError != nil:
		r.Status = domain.StatusFailed
		if p.LastPaymentError != nil {
			r.Message = p.LastPaymentError.Message
		}
	default:
		r.Status = domain.StatusPending
	}
	return r
}

// minorUnits converts whole currency units to cents.
func minorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Shift(2)
}
