// Package http exposes the cart over HTTP. Every route acts on the
// authenticated caller's cart.
package http

import (
	"errors"
	"net/http"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/internal/platform/httpserver"
	"github.com/tabison/suppliers/modules/cart/application/commands"
	"github.com/tabison/suppliers/modules/cart/application/queries"
	"github.com/tabison/suppliers/modules/cart/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

type Handler struct {
	addItem        *commands.AddItemHandler
	updateQuantity *commands.UpdateQuantityHandler
	removeItem     *commands.RemoveItemHandler
	clearCart      *commands.ClearCartHandler
	getCart        *queries.GetCartHandler
}

func NewHandler(
	addItem *commands.AddItemHandler,
	updateQuantity *commands.UpdateQuantityHandler,
	removeItem *commands.RemoveItemHandler,
	clearCart *commands.ClearCartHandler,
	getCart *queries.GetCartHandler,
) *Handler {
	return &Handler{
		addItem:        addItem,
		updateQuantity: updateQuantity,
		removeItem:     removeItem,
		clearCart:      clearCart,
		getCart:        getCart,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	mux.HandleFunc("GET /api/cart", verifier.Require(h.handleGetCart))
	mux.HandleFunc("POST /api/cart/add", verifier.Require(h.handleAddItem))
	mux.HandleFunc("PATCH /api/cart/{productId}", verifier.Require(h.handleUpdateQuantity))
	mux.HandleFunc("DELETE /api/cart/clear", verifier.Require(h.handleClearCart))
	mux.HandleFunc("DELETE /api/cart/{productId}", verifier.Require(h.handleRemoveItem))
}

// Request DTOs

type addItemRequest struct {
	ProductID       string            `json:"productId" validate:"required"`
	Quantity        *int              `json:"quantity"`
	SelectedOptions map[string]string `json:"selectedOptions"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// Handlers

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	view, err := h.getCart.Handle(r.Context(), queries.GetCartQuery{UserID: p.UserID})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.WriteError(w, r, http.StatusBadRequest, httpserver.ValidationMessage(err), err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	p, _ := auth.FromContext(r.Context())
	view, err := h.addItem.Handle(r.Context(), commands.AddItemCommand{
		UserID:          p.UserID,
		ProductID:       req.ProductID,
		Quantity:        quantity,
		SelectedOptions: req.SelectedOptions,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.WriteError(w, r, http.StatusBadRequest, httpserver.ValidationMessage(err), err)
		return
	}

	p, _ := auth.FromContext(r.Context())
	view, err := h.updateQuantity.Handle(r.Context(), commands.UpdateQuantityCommand{
		UserID:    p.UserID,
		ProductID: r.PathValue("productId"),
		Quantity:  *req.Quantity,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	view, err := h.removeItem.Handle(r.Context(), commands.RemoveItemCommand{
		UserID:    p.UserID,
		ProductID: r.PathValue("productId"),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	view, err := h.clearCart.Handle(r.Context(), commands.ClearCartCommand{UserID: p.UserID})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, view)
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		httpserver.WriteError(w, r, http.StatusNotFound, domain.ErrProductNotFound.Error(), err)
	case errors.Is(err, domain.ErrItemNotFound):
		httpserver.WriteError(w, r, http.StatusNotFound, domain.ErrItemNotFound.Error(), err)
	case errors.Is(err, domain.ErrInsufficientStock):
		httpserver.WriteError(w, r, http.StatusBadRequest, domain.ErrInsufficientStock.Error(), err)
	case errors.Is(err, domain.ErrInvalidQuantity):
		httpserver.WriteError(w, r, http.StatusBadRequest, domain.ErrInvalidQuantity.Error(), err)
	case errors.Is(err, domain.ErrConcurrentModification):
		httpserver.WriteError(w, r, http.StatusConflict, domain.ErrConcurrentModification.Error(), err)
	case errors.Is(err, types.ErrInvalidID):
		httpserver.WriteError(w, r, http.StatusBadRequest, "invalid identifier", err)
	default:
		httpserver.WriteError(w, r, http.StatusInternalServerError, "internal server error", err)
	}
}
