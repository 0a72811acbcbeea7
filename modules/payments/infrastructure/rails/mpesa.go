package rails

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tabison/suppliers/modules/payments/domain"
)

// Daraja reports an STK request that is still waiting on the customer with
// this error code.
const mpesaStillProcessing = "500.001.1001"

var eat = time.FixedZone("EAT", 3*60*60)

type MpesaConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
}

// Mpesa is the Safaricom Daraja STK push rail.
type Mpesa struct {
	api    apiClient
	cfg    MpesaConfig
	tokens *tokenCache
	now    func() time.Time
}

func NewMpesa(cfg MpesaConfig, client *http.Client) (*Mpesa, error) {
	if err := requireCredentials(domain.MethodMpesa, map[string]string{
		"base URL":        cfg.BaseURL,
		"consumer key":    cfg.ConsumerKey,
		"consumer secret": cfg.ConsumerSecret,
		"short code":      cfg.ShortCode,
		"passkey":         cfg.Passkey,
	}); err != nil {
		return nil, err
	}

	m := &Mpesa{
		api: newAPIClient(cfg.BaseURL, client),
		cfg: cfg,
		now: time.Now,
	}
	m.tokens = &tokenCache{fetch: m.fetchToken, now: m.now}
	return m, nil
}

func (m *Mpesa) Method() domain.Method { return domain.MethodMpesa }

func (m *Mpesa) fetchToken(ctx context.Context) (string, time.Duration, error) {
	req, err := m.api.newRequest(ctx, http.MethodGet, "/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", 0, err
	}
	req.SetBasicAuth(m.cfg.ConsumerKey, m.cfg.ConsumerSecret)

	var resp struct {
		AccessToken string     `json:"access_token"`
		ExpiresIn   flexString `json:"expires_in"`
	}
	if err := m.api.do(req, &resp); err != nil {
		return "", 0, err
	}
	seconds, err := strconv.Atoi(string(resp.ExpiresIn))
	if err != nil || seconds <= 0 {
		seconds = 3599
	}
	return resp.AccessToken, time.Duration(seconds) * time.Second, nil
}

// password returns the STK password and the timestamp it was built for.
func (m *Mpesa) password() (string, string) {
	ts := m.now().In(eat).Format("20060102150405")
	return base64.StdEncoding.EncodeToString([]byte(m.cfg.ShortCode + m.cfg.Passkey + ts)), ts
}

func (m *Mpesa) post(ctx context.Context, path string, payload, out any) error {
	token, err := m.tokens.get(ctx)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := m.api.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return m.api.do(req, out)
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// Charge sends an STK push to the buyer's phone. The result stays pending
// until the callback or a status query settles it.
func (m *Mpesa) Charge(ctx context.Context, req domain.ChargeRequest) (domain.Result, error) {
	phone, err := domain.NormalizeMSISDN(req.Phone)
	if err != nil {
		return domain.Result{}, err
	}
	if req.Amount < 1 {
		return domain.Result{}, fmt.Errorf("%w: amount must be at least 1", domain.ErrNotPayable)
	}

	password, ts := m.password()
	var resp stkPushResponse
	err = m.post(ctx, "/mpesa/stkpush/v1/processrequest", stkPushRequest{
		BusinessShortCode: m.cfg.ShortCode,
		Password:          password,
		Timestamp:         ts,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount,
		PartyA:            phone,
		PartyB:            m.cfg.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       req.CallbackURL,
		AccountReference:  accountReference(req.OrderNumber),
		TransactionDesc:   "Order payment",
	}, &resp)
	if err != nil {
		return domain.Result{}, err
	}

	if resp.ResponseCode != "0" {
		return domain.Result{
			Rail:          domain.MethodMpesa,
			Status:        domain.StatusFailed,
			Reference:     resp.CheckoutRequestID,
			TransactionID: resp.MerchantRequestID,
			Message:       resp.ResponseDescription,
		}, nil
	}
	return domain.Result{
		Rail:          domain.MethodMpesa,
		Status:        domain.StatusPending,
		Reference:     resp.CheckoutRequestID,
		TransactionID: resp.MerchantRequestID,
		Message:       resp.CustomerMessage,
	}, nil
}

// Confirm runs an STK status query for a CheckoutRequestID.
func (m *Mpesa) Confirm(ctx context.Context, reference string) (domain.Result, error) {
	password, ts := m.password()
	var resp struct {
		ResponseCode      string     `json:"ResponseCode"`
		CheckoutRequestID string     `json:"CheckoutRequestID"`
		MerchantRequestID string     `json:"MerchantRequestID"`
		ResultCode        flexString `json:"ResultCode"`
		ResultDesc        string     `json:"ResultDesc"`
	}
	err := m.post(ctx, "/mpesa/stkpushquery/v1/query", map[string]string{
		"BusinessShortCode": m.cfg.ShortCode,
		"Password":          password,
		"Timestamp":         ts,
		"CheckoutRequestID": reference,
	}, &resp)

	var he *httpError
	if errors.As(err, &he) && bytes.Contains(he.body, []byte(mpesaStillProcessing)) {
		return domain.Result{
			Rail:      domain.MethodMpesa,
			Status:    domain.StatusPending,
			Reference: reference,
			Message:   "the transaction is being processed",
		}, nil
	}
	if err != nil {
		return domain.Result{}, err
	}

	return domain.Result{
		Rail:          domain.MethodMpesa,
		Status:        mpesaStatus(string(resp.ResultCode)),
		Reference:     reference,
		TransactionID: resp.MerchantRequestID,
		Message:       resp.ResultDesc,
	}, nil
}

type stkCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string     `json:"MerchantRequestID"`
			CheckoutRequestID string     `json:"CheckoutRequestID"`
			ResultCode        flexString `json:"ResultCode"`
			ResultDesc        string     `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string     `json:"Name"`
					Value flexString `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// ParseCallback decodes the result Daraja posts to the callback URL.
func (m *Mpesa) ParseCallback(body []byte) (domain.Result, error) {
	var cb stkCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		return domain.Result{}, fmt.Errorf("%w: %w", domain.ErrInvalidCallback, err)
	}
	stk := cb.Body.StkCallback
	if stk.CheckoutRequestID == "" || stk.ResultCode == "" {
		return domain.Result{}, fmt.Errorf("%w: missing CheckoutRequestID or ResultCode", domain.ErrInvalidCallback)
	}

	result := domain.Result{
		Rail:          domain.MethodMpesa,
		Status:        mpesaStatus(string(stk.ResultCode)),
		Reference:     stk.CheckoutRequestID,
		TransactionID: stk.MerchantRequestID,
		Message:       stk.ResultDesc,
	}
	for _, item := range stk.CallbackMetadata.Item {
		if item.Name == "MpesaReceiptNumber" {
			result.ReceiptNumber = string(item.Value)
			result.TransactionID = string(item.Value)
		}
	}
	return result, nil
}

func mpesaStatus(resultCode string) domain.Status {
	switch resultCode {
	case "0":
		return domain.StatusSucceeded
	case "":
		return domain.StatusPending
	default:
		return domain.StatusFailed
	}
}

// accountReference fits an order number into Daraja's 12 character limit.
func accountReference(orderNumber string) string {
	ref := strings.ReplaceAll(orderNumber, "-", "")
	if len(ref) > 12 {
		ref = ref[len(ref)-12:]
	}
	return ref
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}
