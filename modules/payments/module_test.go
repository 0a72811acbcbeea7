package payments_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabison/suppliers/internal/platform/auth"
	platformtx "github.com/tabison/suppliers/internal/platform/transaction"
	"github.com/tabison/suppliers/modules/catalog"
	catalogpersistence "github.com/tabison/suppliers/modules/catalog/infrastructure/persistence"
	"github.com/tabison/suppliers/modules/orders"
	orderspersistence "github.com/tabison/suppliers/modules/orders/infrastructure/persistence"
	"github.com/tabison/suppliers/modules/payments"
	"github.com/tabison/suppliers/modules/payments/infrastructure/rails"
	"github.com/tabison/suppliers/modules/shared/types"
)

const secret = "0123456789abcdef0123456789abcdef"

// daraja fakes the two Daraja endpoints the STK flow uses.
func daraja(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"access_token":"tok","expires_in":"3599"}`)
	})
	mux.HandleFunc("POST /mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_1","ResponseCode":"0","CustomerMessage":"Success. Request accepted for processing"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type env struct {
	handler http.Handler
	buyer   string
	admin   string
	order1  string
	order2  string
}

func setup(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scope := platformtx.NewLocalScope()

	catalogModule := catalog.New(catalog.Config{
		Repository: catalogpersistence.NewInMemoryRepository(),
		TxScope:    scope,
		Currency:   "KES",
		Logger:     logger,
	})
	ordersModule := orders.New(orders.Config{
		Repository: orderspersistence.NewInMemoryRepository(),
		Catalog:    catalogModule,
		TxScope:    scope,
		Currency:   "KES",
		Logger:     logger,
	})

	srv := daraja(t)
	mpesa, err := rails.NewMpesa(rails.MpesaConfig{
		BaseURL:        srv.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "pass",
	}, srv.Client())
	require.NoError(t, err)

	paymentsModule := payments.New(payments.Config{
		Orders:        ordersModule,
		Rails:         []payments.Rail{mpesa, rails.NewSandbox()},
		PublicBaseURL: "https://shop.example",
		Logger:        logger,
	})

	verifier := auth.NewVerifier(secret, "test")
	mux := http.NewServeMux()
	catalogModule.RegisterRoutes(mux, verifier)
	ordersModule.RegisterRoutes(mux, verifier)
	paymentsModule.RegisterRoutes(mux, verifier)

	issuer, err := auth.NewIssuer(secret, "test", time.Hour)
	require.NoError(t, err)
	issue := func(role string) string {
		token, err := issuer.Issue(auth.Principal{UserID: types.NewUserID().String(), Role: role})
		require.NoError(t, err)
		return token
	}

	e := &env{handler: mux, buyer: issue(auth.RoleUser), admin: issue(auth.RoleAdmin)}

	rec := e.do(http.MethodPost, "/api/admin/products", e.admin, `{"name":"Cement 50kg","price":850,"stock":100}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var product struct{ ID string }
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&product))

	place := func() string {
		rec := e.do(http.MethodPost, "/api/orders", e.buyer,
			`{"orderItems":[{"productId":"`+product.ID+`","quantity":4}],"paymentMethod":"mpesa",`+
				`"shippingAddress":{"fullName":"Otieno Odhiambo","phone":"0712345678","street":"Oginga Odinga St","city":"Kisumu"}}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		var o struct{ ID string }
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&o))
		return o.ID
	}
	e.order1 = place()
	e.order2 = place()
	return e
}

func (e *env) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

type outcome struct {
	Message string `json:"message"`
	Order   struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		IsPaid     bool   `json:"isPaid"`
		TotalPrice int64  `json:"totalPrice"`
	} `json:"order"`
	Payment struct {
		Rail      string `json:"rail"`
		Status    string `json:"status"`
		Reference string `json:"reference"`
	} `json:"payment"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) outcome {
	t.Helper()
	var out outcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestSandboxPayment(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodPost, "/api/payments", e.buyer, `{"orderId":"`+e.order1+`","method":"sandbox"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, "Payment successful", out.Message)
	assert.True(t, out.Order.IsPaid)
	assert.Equal(t, "confirmed", out.Order.Status)
	assert.Equal(t, int64(4444), out.Order.TotalPrice)

	rec = e.do(http.MethodPost, "/api/payments", e.buyer, `{"orderId":"`+e.order1+`","method":"sandbox"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(http.MethodPost, "/api/payments", e.buyer, `{"orderId":"`+e.order1+`","method":"bitcoin"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodPost, "/api/payments", "", `{"orderId":"`+e.order1+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMpesaPaymentWithCallback(t *testing.T) {
	e := setup(t)

	rec := e.do(http.MethodPost, "/api/payments", e.buyer, `{"orderId":"`+e.order2+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.False(t, out.Order.IsPaid)
	assert.Equal(t, "pending", out.Payment.Status)
	assert.Equal(t, "ws_CO_1", out.Payment.Reference)

	forged := `{"Body":{"stkCallback":{"MerchantRequestID":"m-9","CheckoutRequestID":"ws_CO_9","ResultCode":0,"ResultDesc":"ok"}}}`
	rec = e.do(http.MethodPost, "/api/payments/mpesa/callback/"+e.order2, "", forged)
	assert.Equal(t, http.StatusConflict, rec.Code)

	paid := `{"Body":{"stkCallback":{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_1","ResultCode":0,"ResultDesc":"ok",` +
		`"CallbackMetadata":{"Item":[{"Name":"Amount","Value":4444},{"Name":"MpesaReceiptNumber","Value":"QK12ABC345"}]}}}}`
	rec = e.do(http.MethodPost, "/api/payments/mpesa/callback/"+e.order2, "", paid)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ResultCode":0,"ResultDesc":"Accepted"}`, rec.Body.String())

	// Redelivery is acknowledged without changes.
	rec = e.do(http.MethodPost, "/api/payments/mpesa/callback/"+e.order2, "", paid)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodPost, "/api/payments/"+e.order2+"/confirm", e.buyer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode(t, rec)
	assert.True(t, out.Order.IsPaid)
	assert.Equal(t, "Order is already paid", out.Message)

	rec = e.do(http.MethodGet, "/api/orders/"+e.order2, e.admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"receiptNumber":"QK12ABC345"`)
}

func TestPaymentMethods(t *testing.T) {
	e := setup(t)
	rec := e.do(http.MethodGet, "/api/payments/methods", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"methods":["mpesa","sandbox"]}`, rec.Body.String())
}
