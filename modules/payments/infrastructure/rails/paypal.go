package rails

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tabison/suppliers/modules/payments/domain"
)

type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	// Currency is what PayPal charges in; Rate converts store amounts into it.
	Currency  string
	Rate      string
	ReturnURL string
	CancelURL string
}

// PayPal is the redirect wallet rail: the buyer approves the order on
// PayPal and Confirm captures it.
type PayPal struct {
	api      apiClient
	cfg      PayPalConfig
	rate     decimal.Decimal
	tokens   *tokenCache
	currency string
}

func NewPayPal(cfg PayPalConfig, client *http.Client) (*PayPal, error) {
	if err := requireCredentials(domain.MethodPayPal, map[string]string{
		"base URL":      cfg.BaseURL,
		"client ID":     cfg.ClientID,
		"client secret": cfg.ClientSecret,
		"return URL":    cfg.ReturnURL,
		"cancel URL":    cfg.CancelURL,
	}); err != nil {
		return nil, err
	}

	rate := decimal.NewFromInt(1)
	if cfg.Rate != "" {
		r, err := decimal.NewFromString(cfg.Rate)
		if err != nil || !r.IsPositive() {
			return nil, fmt.Errorf("paypal rate must be a positive decimal, got %q", cfg.Rate)
		}
		rate = r
	}
	currency := strings.ToUpper(cfg.Currency)
	if currency == "" {
		currency = "USD"
	}

	p := &PayPal{
		api:      newAPIClient(cfg.BaseURL, client),
		cfg:      cfg,
		rate:     rate,
		currency: currency,
	}
	p.tokens = &tokenCache{fetch: p.fetchToken, now: time.Now}
	return p, nil
}

func (p *PayPal) Method() domain.Method { return domain.MethodPayPal }

func (p *PayPal) fetchToken(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := p.api.newRequest(ctx, http.MethodPost, "/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.SetBasicAuth(p.cfg.ClientID, p.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := p.api.do(req, &resp); err != nil {
		return "", 0, err
	}
	return resp.AccessToken, time.Duration(resp.ExpiresIn) * time.Second, nil
}

// Amount converts a store amount into PayPal's currency, two decimals.
func (p *PayPal) Amount(amount int64) string {
	return decimal.NewFromInt(amount).DivRound(p.rate, 2).StringFixed(2)
}

func (p *PayPal) send(ctx context.Context, method, path string, payload, out any) error {
	token, err := p.tokens.get(ctx)
	if err != nil {
		return err
	}
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}
	req, err := p.api.newRequest(ctx, method, path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return p.api.do(req, out)
}

type paypalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

func (p *PayPal) Charge(ctx context.Context, req domain.ChargeRequest) (domain.Result, error) {
	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"reference_id": req.OrderID,
			"invoice_id":   req.OrderNumber,
			"description":  "Tabison Suppliers order " + req.OrderNumber,
			"amount": map[string]string{
				"currency_code": p.currency,
				"value":         p.Amount(req.Amount),
			},
		}},
		"application_context": map[string]string{
			"return_url":  p.cfg.ReturnURL,
			"cancel_url":  p.cfg.CancelURL,
			"user_action": "PAY_NOW",
		},
	}

	var order paypalOrder
	if err := p.send(ctx, http.MethodPost, "/v2/checkout/orders", payload, &order); err != nil {
		return domain.Result{}, err
	}

	result := domain.Result{
		Rail:      domain.MethodPayPal,
		Status:    domain.StatusPending,
		Reference: order.ID,
		Message:   order.Status,
	}
	for _, link := range order.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			result.ApprovalURL = link.Href
		}
	}
	return result, nil
}

// Confirm captures an approved order. An order the buyer has not approved
// yet stays pending.
func (p *PayPal) Confirm(ctx context.Context, reference string) (domain.Result, error) {
	var order paypalOrder
	err := p.send(ctx, http.MethodPost, "/v2/checkout/orders/"+url.PathEscape(reference)+"/capture", nil, &order)

	var he *httpError
	if errors.As(err, &he) && he.status == http.StatusUnprocessableEntity {
		if bytes.Contains(he.body, []byte("ORDER_NOT_APPROVED")) {
			return domain.Result{
				Rail:      domain.MethodPayPal,
				Status:    domain.StatusPending,
				Reference: reference,
				Message:   "awaiting buyer approval",
			}, nil
		}
		if bytes.Contains(he.body, []byte("ORDER_ALREADY_CAPTURED")) {
			return p.lookup(ctx, reference)
		}
	}
	if err != nil {
		return domain.Result{}, err
	}
	return order.result(reference), nil
}

func (p *PayPal) lookup(ctx context.Context, reference string) (domain.Result, error) {
	var order paypalOrder
	if err := p.send(ctx, http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(reference), nil, &order); err != nil {
		return domain.Result{}, err
	}
	return order.result(reference), nil
}

func (o paypalOrder) result(reference string) domain.Result {
	r := domain.Result{
		Rail:      domain.MethodPayPal,
		Reference: reference,
		Message:   o.Status,
	}
	var capture string
	if len(o.PurchaseUnits) > 0 && len(o.PurchaseUnits[0].Payments.Captures) > 0 {
		capture = o.PurchaseUnits[0].Payments.Captures[0].ID
	}
	switch o.Status {
	case "COMPLETED":
		r.Status = domain.StatusSucceeded
		r.TransactionID = capture
		r.ReceiptNumber = capture
	case "VOIDED":
		r.Status = domain.StatusFailed
	default:
		r.Status = domain.StatusPending
	}
	return r
}
