package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecovery_WritesUniformError(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), Recovery(discardLogger()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, body, "detail")
}

func TestWriteError_DetailOnlyInDebug(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusBadGateway, "payment provider unavailable", errors.New("dial tcp: refused"))
	})

	for _, debug := range []bool{true, false} {
		rec := httptest.NewRecorder()
		Middleware(handler, Debug(debug)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "payment provider unavailable", body.Message)
		if debug {
			assert.Equal(t, "dial tcp: refused", body.Detail)
		} else {
			assert.Empty(t, body.Detail)
		}
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := Middleware(http.NotFoundHandler(), CORS([]string{"https://shop.example"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	req.Header.Set("Origin", "https://shop.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDecode_Validates(t *testing.T) {
	type req struct {
		ProductID string `json:"productId" validate:"required,uuid"`
		Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
	}

	var ok req
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId":"8d0c7f5e-6a47-4b6e-9f0e-2b8f7f1f2a10","quantity":2}`))
	require.NoError(t, Decode(r, &ok))
	assert.Equal(t, 2, ok.Quantity)

	var bad req
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId":"nope"}`))
	err := Decode(r, &bad)
	require.ErrorIs(t, err, ErrInvalidBody)
	assert.Equal(t, "productid failed uuid", ValidationMessage(err))

	var malformed req
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	err = Decode(r, &malformed)
	require.ErrorIs(t, err, ErrInvalidBody)
	assert.Equal(t, "invalid request body", ValidationMessage(err))
}
