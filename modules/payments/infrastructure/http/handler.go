// Package http exposes payments over HTTP.
package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/internal/platform/httpserver"
	"github.com/tabison/suppliers/modules/payments/application/commands"
	"github.com/tabison/suppliers/modules/payments/domain"
)

// Daraja posts small JSON documents.
const maxCallbackBytes = 64 << 10

type Handler struct {
	initiate *commands.InitiatePaymentHandler
	confirm  *commands.ConfirmPaymentHandler
	callback *commands.MpesaCallbackHandler
	methods  []domain.Method
}

func NewHandler(
	initiate *commands.InitiatePaymentHandler,
	confirm *commands.ConfirmPaymentHandler,
	callback *commands.MpesaCallbackHandler,
	methods []domain.Method,
) *Handler {
	return &Handler{
		initiate: initiate,
		confirm:  confirm,
		callback: callback,
		methods:  methods,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	mux.HandleFunc("GET /api/payments/methods", h.handleMethods)
	mux.HandleFunc("POST /api/payments", verifier.Require(h.handleInitiate))
	mux.HandleFunc("POST /api/payments/{orderId}/confirm", verifier.Require(h.handleConfirm))
	mux.HandleFunc("POST /api/payments/mpesa/callback/{orderId}", h.handleMpesaCallback)
}

type initiateRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Method  string `json:"method" validate:"omitempty,oneof=mpesa card paypal sandbox"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
}

type methodsResponse struct {
	Methods []domain.Method `json:"methods"`
}

type callbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

func (h *Handler) handleMethods(w http.ResponseWriter, r *http.Request) {
	httpserver.WriteJSON(w, http.StatusOK, methodsResponse{Methods: h.methods})
}

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.WriteError(w, r, http.StatusBadRequest, httpserver.ValidationMessage(err), err)
		return
	}

	p, _ := auth.FromContext(r.Context())
	out, err := h.initiate.Handle(r.Context(), commands.InitiatePaymentCommand{
		OrderID: req.OrderID,
		UserID:  p.UserID,
		IsAdmin: p.IsAdmin(),
		Method:  req.Method,
		Phone:   req.Phone,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOutcome(w, out)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	out, err := h.confirm.Handle(r.Context(), commands.ConfirmPaymentCommand{
		OrderID: r.PathValue("orderId"),
		UserID:  p.UserID,
		IsAdmin: p.IsAdmin(),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOutcome(w, out)
}

func (h *Handler) handleMpesaCallback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBytes))
	if err != nil {
		httpserver.WriteError(w, r, http.StatusBadRequest, domain.ErrInvalidCallback.Error(), err)
		return
	}

	err = h.callback.Handle(r.Context(), commands.MpesaCallbackCommand{
		OrderID: r.PathValue("orderId"),
		Body:    body,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, callbackAck{ResultCode: 0, ResultDesc: "Accepted"})
}

// writeOutcome answers 402 when the rail declined the payment.
func writeOutcome(w http.ResponseWriter, out *commands.Outcome) {
	status := http.StatusOK
	if out.Payment.Status == domain.StatusFailed {
		status = http.StatusPaymentRequired
	}
	httpserver.WriteJSON(w, status, out)
}

var badRequestErrors = []error{
	domain.ErrUnsupportedMethod,
	domain.ErrRailDisabled,
	domain.ErrPhoneRequired,
	domain.ErrInvalidPhone,
	domain.ErrNoPendingPayment,
	domain.ErrInvalidCallback,
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			httpserver.WriteError(w, r, http.StatusBadRequest, target.Error(), err)
			return
		}
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		httpserver.WriteError(w, r, http.StatusNotFound, domain.ErrOrderNotFound.Error(), err)
	case errors.Is(err, domain.ErrForbidden):
		httpserver.WriteError(w, r, http.StatusForbidden, domain.ErrForbidden.Error(), err)
	case errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrNotPayable),
		errors.Is(err, domain.ErrReferenceMismatch):
		httpserver.WriteError(w, r, http.StatusConflict, err.Error(), err)
	case errors.Is(err, domain.ErrUpstream):
		// Provider responses may echo credentials; only the detail carries them.
		httpserver.WriteError(w, r, http.StatusBadGateway, domain.ErrUpstream.Error(), err)
	default:
		httpserver.WriteError(w, r, http.StatusInternalServerError, "internal server error", err)
	}
}
