package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabison/suppliers/internal/platform/auth"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestIssueAndVerify(t *testing.T) {
	issuer, err := auth.NewIssuer(secret, "test", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(auth.Principal{UserID: "u-1", Role: auth.RoleAdmin})
	require.NoError(t, err)

	p, err := auth.NewVerifier(secret, "test").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.UserID)
	assert.True(t, p.IsAdmin())
}

func TestVerify_Rejects(t *testing.T) {
	issuer, err := auth.NewIssuer(secret, "test", time.Hour)
	require.NoError(t, err)
	token, err := issuer.Issue(auth.Principal{UserID: "u-1", Role: auth.RoleUser})
	require.NoError(t, err)

	_, err = auth.NewVerifier("another-secret-another-secret-xx", "test").Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = auth.NewVerifier(secret, "other-issuer").Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	expired, err := auth.NewIssuer(secret, "test", -time.Hour)
	require.NoError(t, err)
	old, err := expired.Issue(auth.Principal{UserID: "u-1"})
	require.NoError(t, err)
	_, err = auth.NewVerifier(secret, "test").Verify(old)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRequire(t *testing.T) {
	issuer, err := auth.NewIssuer(secret, "test", time.Hour)
	require.NoError(t, err)
	verifier := auth.NewVerifier(secret, "test")

	var seen auth.Principal
	h := verifier.Require(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}, auth.RoleAdmin)

	userToken, _ := issuer.Issue(auth.Principal{UserID: "u-1", Role: auth.RoleUser})
	adminToken, _ := issuer.Issue(auth.Principal{UserID: "a-1", Role: auth.RoleAdmin})

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"wrong role", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+userToken) }, http.StatusForbidden},
		{"admin header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+adminToken) }, http.StatusOK},
		{"admin cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: adminToken}) }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Equal(t, "a-1", seen.UserID)
}
