// Package http exposes orders over HTTP.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/internal/platform/httpserver"
	"github.com/tabison/suppliers/modules/orders/application/commands"
	"github.com/tabison/suppliers/modules/orders/application/queries"
	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

type Handler struct {
	createOrder  *commands.CreateOrderHandler
	checkout     *commands.CheckoutHandler
	cancelOrder  *commands.CancelOrderHandler
	updateStatus *commands.UpdateStatusHandler
	getOrder     *queries.GetOrderHandler
	listOrders   *queries.ListOrdersHandler
}

func NewHandler(
	createOrder *commands.CreateOrderHandler,
	checkout *commands.CheckoutHandler,
	cancelOrder *commands.CancelOrderHandler,
	updateStatus *commands.UpdateStatusHandler,
	getOrder *queries.GetOrderHandler,
	listOrders *queries.ListOrdersHandler,
) *Handler {
	return &Handler{
		createOrder:  createOrder,
		checkout:     checkout,
		cancelOrder:  cancelOrder,
		updateStatus: updateStatus,
		getOrder:     getOrder,
		listOrders:   listOrders,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	mux.HandleFunc("POST /api/orders", verifier.Require(h.handleCreateOrder))
	mux.HandleFunc("POST /api/orders/checkout", verifier.Require(h.handleCheckout))
	mux.HandleFunc("GET /api/orders/myorders", verifier.Require(h.handleListMyOrders))
	mux.HandleFunc("GET /api/orders/{id}", verifier.Require(h.handleGetOrder))
	mux.HandleFunc("POST /api/orders/{id}/cancel", verifier.Require(h.handleCancelOrder))

	mux.HandleFunc("GET /api/admin/orders", verifier.Require(h.handleListOrders, auth.RoleAdmin))
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", verifier.Require(h.handleUpdateStatus, auth.RoleAdmin))
}

// Request DTOs

type addressRequest struct {
	FullName   string `json:"fullName" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	County     string `json:"county"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a addressRequest) toInput() commands.AddressInput {
	return commands.AddressInput{
		FullName:   a.FullName,
		Phone:      a.Phone,
		Street:     a.Street,
		City:       a.City,
		County:     a.County,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

type orderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// createOrderRequest carries client-computed totals; they are compared and
// logged, never used.
type createOrderRequest struct {
	OrderItems      []orderItemRequest `json:"orderItems" validate:"dive"`
	ShippingAddress addressRequest     `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required"`
	ItemsPrice      *int64             `json:"itemsPrice"`
	TaxPrice        *int64             `json:"taxPrice"`
	ShippingPrice   *int64             `json:"shippingPrice"`
	TotalPrice      *int64             `json:"totalPrice"`
}

func (r createOrderRequest) clientTotals() *commands.ClientTotals {
	if r.TotalPrice == nil {
		return nil
	}
	deref := func(v *int64) int64 {
		if v == nil {
			return 0
		}
		return *v
	}
	return &commands.ClientTotals{
		ItemsPrice:    deref(r.ItemsPrice),
		TaxPrice:      deref(r.TaxPrice),
		ShippingPrice: deref(r.ShippingPrice),
		TotalPrice:    *r.TotalPrice,
	}
}

type checkoutRequest struct {
	ShippingAddress addressRequest `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod" validate:"required"`
}

type updateStatusRequest struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"trackingNumber"`
}

// Handlers

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.WriteError(w, r, http.StatusBadRequest, httpserver.ValidationMessage(err), err)
		return
	}

	p, _ := auth.FromContext(r.Context())
	items := make([]commands.ItemInput, len(req.OrderItems))
	for i, it := range req.OrderItems {
		items[i] = commands.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	id, err := h.createOrder.Handle(r.Context(), commands.CreateOrderCommand{
		UserID:          p.UserID,
		Items:           items,
		ShippingAddress: req.ShippingAddress.toInput(),
		PaymentMethod:   req.PaymentMethod,
		ClientTotals:    req.clientTotals(),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.writeOrder(w, r, http.StatusCreated, id)
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.WriteError(w, r, http.StatusBadRequest, httpserver.ValidationMessage(err), err)
		return
	}

	p, _ := auth.FromContext(r.Context())
	id, err := h.checkout.Handle(r.Context(), commands.CheckoutCommand{
		UserID:          p.UserID,
		ShippingAddress: req.ShippingAddress.toInput(),
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.writeOrder(w, r, http.StatusCreated, id)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	h.writeOrder(w, r, http.StatusOK, r.PathValue("id"))
}

func (h *Handler) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	offset, limit := paging(r)

	result, err := h.listOrders.Mine(r.Context(), queries.ListMyOrdersQuery{
		UserID: p.UserID,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	offset, limit := paging(r)

	result, err := h.listOrders.All(r.Context(), queries.ListOrdersQuery{
		Status: r.URL.Query().Get("status"),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	err := h.cancelOrder.Handle(r.Context(), commands.CancelOrderCommand{
		UserID:  p.UserID,
		OrderID: r.PathValue("id"),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.writeOrder(w, r, http.StatusOK, r.PathValue("id"))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.WriteError(w, r, http.StatusBadRequest, httpserver.ValidationMessage(err), err)
		return
	}

	err := h.updateStatus.Handle(r.Context(), commands.UpdateStatusCommand{
		OrderID:        r.PathValue("id"),
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.writeOrder(w, r, http.StatusOK, r.PathValue("id"))
}

// writeOrder reads the order back for the caller and writes it.
func (h *Handler) writeOrder(w http.ResponseWriter, r *http.Request, status int, orderID string) {
	p, _ := auth.FromContext(r.Context())
	order, err := h.getOrder.Handle(r.Context(), queries.GetOrderQuery{
		OrderID: orderID,
		UserID:  p.UserID,
		IsAdmin: p.IsAdmin(),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, status, order)
}

func paging(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return offset, limit
}

// badRequestErrors are reported with their own message.
var badRequestErrors = []error{
	domain.ErrEmptyOrder,
	domain.ErrInvalidQuantity,
	domain.ErrInsufficientStock,
	domain.ErrInvalidAddress,
	domain.ErrInvalidPaymentMethod,
	domain.ErrInvalidStatus,
	domain.ErrTrackingNumberRequired,
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
	case errors.Is(err, domain.ErrProductNotFound):
		httpserver.WriteError(w, r, http.StatusNotFound, domain.ErrProductNotFound.Error(), err)
	case errors.Is(err, domain.ErrForbidden):
		httpserver.WriteError(w, r, http.StatusForbidden, "not authorized to access this order", err)
	case errors.Is(err, types.ErrInvalidID):
		httpserver.WriteError(w, r, http.StatusBadRequest, "invalid order ID", err)
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotCancellable),
		errors.Is(err, domain.ErrAlreadyPaid):
		httpserver.WriteError(w, r, http.StatusConflict, err.Error(), err)
	default:
		httpserver.WriteError(w, r, http.StatusInternalServerError, "internal server error", err)
	}
}
