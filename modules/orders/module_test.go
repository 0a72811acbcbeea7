package orders_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/internal/platform/eventbus"
	platformtx "github.com/tabison/suppliers/internal/platform/transaction"
	"github.com/tabison/suppliers/modules/cart"
	"github.com/tabison/suppliers/modules/catalog"
	catalogpersistence "github.com/tabison/suppliers/modules/catalog/infrastructure/persistence"
	"github.com/tabison/suppliers/modules/orders"
	"github.com/tabison/suppliers/modules/orders/infrastructure/persistence"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/events/contracts"
	"github.com/tabison/suppliers/modules/shared/types"
)

const secret = "0123456789abcdef0123456789abcdef"

type fakeCart struct {
	mu    sync.Mutex
	lines map[string][]cart.Line
}

func (f *fakeCart) Lines(ctx context.Context, userID string) ([]cart.Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lines[userID], nil
}

func (f *fakeCart) Clear(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, userID)
	return nil
}

func (f *fakeCart) set(userID string, lines ...cart.Line) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines[userID] = lines
}

type paidRecorder struct {
	mu   sync.Mutex
	paid []contracts.OrderPaidEvent
}

func (p *paidRecorder) Publish(_ context.Context, evts ...events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range evts {
		if paid, ok := e.(contracts.OrderPaidEvent); ok {
			p.paid = append(p.paid, paid)
		}
	}
	return nil
}

type env struct {
	catalog catalog.Module
	orders  orders.Module
	cart    *fakeCart
	after   *paidRecorder
	handler http.Handler
	issuer  *auth.Issuer
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
	carts := &fakeCart{lines: map[string][]cart.Line{}}
	after := &paidRecorder{}
	ordersModule := orders.New(orders.Config{
		Repository:     persistence.NewInMemoryRepository(),
		Catalog:        catalogModule,
		Cart:           carts,
		TxScope:        scope,
		TxEvents:       eventbus.NewEventHandlerRegistry(logger),
		EventPublisher: after,
		Currency:       "KES",
		Logger:         logger,
	})

	verifier := auth.NewVerifier(secret, "test")
	mux := http.NewServeMux()
	catalogModule.RegisterRoutes(mux, verifier)
	ordersModule.RegisterRoutes(mux, verifier)

	issuer, err := auth.NewIssuer(secret, "test", time.Hour)
	require.NoError(t, err)

	return &env{
		catalog: catalogModule,
		orders:  ordersModule,
		cart:    carts,
		after:   after,
		handler: mux,
		issuer:  issuer,
	}
}

func (e *env) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := e.issuer.Issue(auth.Principal{UserID: userID, Role: role})
	require.NoError(t, err)
	return token
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

func (e *env) stock(t *testing.T, productID string) int {
	t.Helper()
	found, err := e.catalog.Products(context.Background(), []string{productID})
	require.NoError(t, err)
	require.Contains(t, found, productID)
	return found[productID].Stock
}

func decodeOrder(t *testing.T, rec *httptest.ResponseRecorder) orders.Order {
	t.Helper()
	var o orders.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&o))
	return o
}

const shipping = `"shippingAddress":{"fullName":"Wanjiku Kamau","phone":"254712345678","street":"Moi Avenue 12","city":"Nairobi"}`

func TestOrderLifecycle(t *testing.T) {
	e := setup(t)
	admin := e.token(t, types.NewUserID().String(), auth.RoleAdmin)
	buyerID := types.NewUserID().String()
	buyer := e.token(t, buyerID, auth.RoleUser)
	stranger := e.token(t, types.NewUserID().String(), auth.RoleUser)

	rec := e.do(http.MethodPost, "/api/admin/products", admin,
		`{"name":"Iron sheet","category":"building","price":3000,"stock":3,"images":["iron.jpg"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct{ ID string }
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	productID := created.ID

	// Empty item list is rejected and nothing is stored.
	rec = e.do(http.MethodPost, "/api/orders", buyer, `{"orderItems":[],"paymentMethod":"mpesa",`+shipping+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "order has no items")
	n, err := e.orders.CountOrders(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Direct order: server prices win over client totals.
	rec = e.do(http.MethodPost, "/api/orders", buyer,
		`{"orderItems":[{"productId":"`+productID+`","quantity":2}],"paymentMethod":"mpesa",`+shipping+`,"totalPrice":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	direct := decodeOrder(t, rec)
	assert.Equal(t, int64(6000), direct.ItemsPrice)
	assert.Equal(t, int64(960), direct.TaxPrice)
	assert.Equal(t, int64(0), direct.ShippingPrice)
	assert.Equal(t, int64(6960), direct.TotalPrice)
	assert.Equal(t, "pending", direct.Status)
	assert.False(t, direct.StockReserved)
	assert.Equal(t, 3, e.stock(t, productID))

	// Later catalog changes leave the snapshot alone.
	rec = e.do(http.MethodPut, "/api/admin/products/"+productID, admin,
		`{"name":"Iron sheet (gauge 30)","category":"building","price":100,"stock":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(http.MethodGet, "/api/orders/"+direct.ID, buyer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeOrder(t, rec)
	assert.Equal(t, "Iron sheet", got.OrderItems[0].Name)
	assert.Equal(t, int64(3000), got.OrderItems[0].Price)
	assert.Equal(t, "iron.jpg", got.OrderItems[0].Image)

	rec = e.do(http.MethodGet, "/api/orders/"+direct.ID, stranger, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = e.do(http.MethodGet, "/api/orders/"+direct.ID, admin, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Checkout reserves stock and clears the cart.
	e.cart.set(buyerID, cart.Line{ProductID: productID, Quantity: 2})
	rec = e.do(http.MethodPost, "/api/orders/checkout", buyer, `{"paymentMethod":"card",`+shipping+`}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	checkedOut := decodeOrder(t, rec)
	assert.True(t, checkedOut.StockReserved)
	assert.Equal(t, int64(200), checkedOut.ItemsPrice)
	assert.Equal(t, int64(732), checkedOut.TotalPrice)
	assert.Equal(t, 1, e.stock(t, productID))
	lines, _ := e.cart.Lines(context.Background(), buyerID)
	assert.Empty(t, lines)

	// A short line aborts the checkout without touching stock.
	e.cart.set(buyerID, cart.Line{ProductID: productID, Quantity: 2})
	rec = e.do(http.MethodPost, "/api/orders/checkout", buyer, `{"paymentMethod":"card",`+shipping+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient stock")
	assert.Equal(t, 1, e.stock(t, productID))

	rec = e.do(http.MethodGet, "/api/orders/myorders", buyer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCount":2`)

	// Owner cancellation returns reserved stock.
	rec = e.do(http.MethodPost, "/api/orders/"+checkedOut.ID+"/cancel", stranger, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = e.do(http.MethodPost, "/api/orders/"+checkedOut.ID+"/cancel", buyer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", decodeOrder(t, rec).Status)
	assert.Equal(t, 3, e.stock(t, productID))

	rec = e.do(http.MethodPut, "/api/admin/orders/"+checkedOut.ID+"/status", admin, `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = e.do(http.MethodPut, "/api/admin/orders/"+checkedOut.ID+"/status", buyer, `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Payment confirmation marks the order paid and publishes after commit.
	paid, err := e.orders.MarkPaid(context.Background(), direct.ID, orders.PaymentResult{
		Rail: "mpesa", Reference: "ws_CO_1", ReceiptNumber: "QK12ABC", Status: "succeeded",
	})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, "confirmed", paid.Status)
	require.Len(t, e.after.paid, 1)
	assert.Equal(t, direct.ID, e.after.paid[0].OrderID)

	_, err = e.orders.MarkPaid(context.Background(), direct.ID, orders.PaymentResult{Rail: "mpesa", Status: "succeeded"})
	assert.ErrorIs(t, err, orders.ErrAlreadyPaid)

	rec = e.do(http.MethodGet, "/api/admin/orders?status=confirmed", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCount":1`)

	revenue, err := e.orders.PaidRevenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6960), revenue)
	pending, err := e.orders.CountOrders(context.Background(), "pending")
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
}
