// Package http exposes the admin dashboard over HTTP.
package http

import (
	"net/http"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/internal/platform/httpserver"
	"github.com/tabison/suppliers/modules/admin/application/queries"
)

type Handler struct {
	analytics *queries.GetAnalyticsHandler
}

func NewHandler(analytics *queries.GetAnalyticsHandler) *Handler {
	return &Handler{analytics: analytics}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	mux.HandleFunc("GET /api/admin/analytics", verifier.Require(h.handleAnalytics, auth.RoleAdmin))
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.Handle(r.Context())
	if err != nil {
		httpserver.WriteError(w, r, http.StatusInternalServerError, "failed to load analytics", err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, summary)
}
