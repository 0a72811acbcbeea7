package cart_test

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
	"github.com/tabison/suppliers/modules/cart"
	"github.com/tabison/suppliers/modules/cart/application/queries"
	"github.com/tabison/suppliers/modules/cart/domain"
	"github.com/tabison/suppliers/modules/catalog"
	"github.com/tabison/suppliers/modules/shared/types"
)

const secret = "0123456789abcdef0123456789abcdef"

type memoryCarts struct {
	mu    sync.Mutex
	carts map[string][]domain.Item
}

func (m *memoryCarts) Load(ctx context.Context, userID types.UserID) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.Reconstitute(userID, m.carts[userID.String()]), nil
}

func (m *memoryCarts) Mutate(ctx context.Context, userID types.UserID, fn domain.MutateFunc) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := domain.Reconstitute(userID, domain.Reconstitute(userID, m.carts[userID.String()]).Items())
	if err := fn(c); err != nil {
		return nil, err
	}
	m.carts[userID.String()] = c.Items()
	return c, nil
}

func (m *memoryCarts) Delete(ctx context.Context, userID types.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID.String())
	return nil
}

type staticCatalog map[string]*catalog.Product

func (s staticCatalog) Products(ctx context.Context, ids []string) (map[string]*catalog.Product, error) {
	out := make(map[string]*catalog.Product)
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func TestCartRoutes(t *testing.T) {
	productID := types.NewProductID().String()
	mod := cart.New(cart.Config{
		Repository: &memoryCarts{carts: make(map[string][]domain.Item)},
		Catalog: staticCatalog{
			productID: {ID: productID, Name: "Iron sheet", Price: 3000, Currency: "KES", Stock: 3},
		},
		Currency: "KES",
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	mux := http.NewServeMux()
	mod.RegisterRoutes(mux, auth.NewVerifier(secret, "test"))

	issuer, err := auth.NewIssuer(secret, "test", time.Hour)
	require.NoError(t, err)
	userID := types.NewUserID().String()
	token, err := issuer.Issue(auth.Principal{UserID: userID, Role: auth.RoleUser})
	require.NoError(t, err)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}
	decode := func(rec *httptest.ResponseRecorder) queries.CartView {
		var v queries.CartView
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
		return v
	}

	rec := do(http.MethodPost, "/api/cart/add", `{"productId":"`+productID+`","quantity":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient stock")

	rec = do(http.MethodPost, "/api/cart/add", `{"productId":"`+productID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode(rec).ItemCount)

	rec = do(http.MethodPatch, "/api/cart/"+productID, `{"quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode(rec)
	assert.Equal(t, int64(6000), v.Subtotal)
	assert.Equal(t, int64(960), v.Tax)
	assert.Equal(t, int64(0), v.Shipping)
	assert.Equal(t, int64(6960), v.Total)

	rec = do(http.MethodPatch, "/api/cart/"+productID, `{"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	lines, err := mod.Lines(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	rec = do(http.MethodDelete, "/api/cart/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(rec).Items)

	rec = do(http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	v = decode(rec)
	assert.Equal(t, 0, v.ItemCount)
	assert.Equal(t, int64(0), v.Total)
}
