package admin_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabison/suppliers/internal/platform/auth"
	platformtx "github.com/tabison/suppliers/internal/platform/transaction"
	"github.com/tabison/suppliers/modules/admin"
)

const secret = "0123456789abcdef0123456789abcdef"

type stubCounts struct {
	err error
}

func (s stubCounts) CountUsers(ctx context.Context) (int, error)    { return 4, s.err }
func (s stubCounts) CountProducts(ctx context.Context) (int, error) { return 9, nil }
func (s stubCounts) CountLowStock(ctx context.Context) (int, error) { return 2, nil }
func (s stubCounts) PaidRevenue(ctx context.Context) (int64, error) { return 6960, nil }

func (s stubCounts) CountOrders(ctx context.Context, status string) (int, error) {
	if status == "pending" {
		return 1, nil
	}
	return 3, nil
}

func serve(t *testing.T, counts stubCounts, role string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	admin.New(admin.Config{
		Snapshot: platformtx.NewLocalScope(),
		Users:    counts,
		Catalog:  counts,
		Orders:   counts,
		Currency: "KES",
	}).
		RegisterRoutes(mux, auth.NewVerifier(secret, "test"))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil)
	if role != "" {
		issuer, err := auth.NewIssuer(secret, "test", time.Hour)
		require.NoError(t, err)
		token, err := issuer.Issue(auth.Principal{UserID: "2b1f6f0e-5d7c-4a8e-9f11-3c2d1e0a9b87", Role: role})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAnalytics(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serve(t, stubCounts{}, "").Code)
	assert.Equal(t, http.StatusForbidden, serve(t, stubCounts{}, auth.RoleSupplier).Code)

	rec := serve(t, stubCounts{}, auth.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	var got admin.Analytics
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, admin.Analytics{
		TotalUsers:       4,
		TotalProducts:    9,
		LowStockProducts: 2,
		TotalOrders:      3,
		PendingOrders:    1,
		PaidRevenue:      6960,
		Currency:         "KES",
	}, got)

	rec = serve(t, stubCounts{err: errors.New("spanner unavailable")}, auth.RoleAdmin)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "spanner")
}
