// Package http exposes the catalog over HTTP.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/internal/platform/httpserver"
	"github.com/tabison/suppliers/modules/catalog/application/commands"
	"github.com/tabison/suppliers/modules/catalog/application/queries"
	"github.com/tabison/suppliers/modules/catalog/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// Handler serves the public catalog and the admin product routes.
type Handler struct {
	createProduct *commands.CreateProductHandler
	updateProduct *commands.UpdateProductHandler
	deleteProduct *commands.DeleteProductHandler
	getProduct    *queries.GetProductHandler
	listProducts  *queries.ListProductsHandler
}

func NewHandler(
	createProduct *commands.CreateProductHandler,
	updateProduct *commands.UpdateProductHandler,
	deleteProduct *commands.DeleteProductHandler,
	getProduct *queries.GetProductHandler,
	listProducts *queries.ListProductsHandler,
) *Handler {
	return &Handler{
		createProduct: createProduct,
		updateProduct: updateProduct,
		deleteProduct: deleteProduct,
		getProduct:    getProduct,
		listProducts:  listProducts,
	}
}

// RegisterRoutes registers the catalog routes; admin routes require the
// admin role.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	mux.HandleFunc("GET /api/products", h.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.handleGetProduct)

	mux.HandleFunc("GET /api/admin/products", verifier.Require(h.handleListProducts, auth.RoleAdmin))
	mux.HandleFunc("POST /api/admin/products", verifier.Require(h.handleCreateProduct, auth.RoleAdmin))
	mux.HandleFunc("PUT /api/admin/products/{id}", verifier.Require(h.handleUpdateProduct, auth.RoleAdmin))
	mux.HandleFunc("DELETE /api/admin/products/{id}", verifier.Require(h.handleDeleteProduct, auth.RoleAdmin))
}

// Request/Response DTOs

type productRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Description    string   `json:"description" validate:"max=5000"`
	Category       string   `json:"category" validate:"omitempty,oneof=building electrical plumbing hardware agricultural office other"`
	Price          int64    `json:"price" validate:"gte=0"`
	WholesalePrice int64    `json:"wholesalePrice" validate:"gte=0"`
	Stock          int      `json:"stock" validate:"gte=0"`
	Tags           []string `json:"tags" validate:"dive,max=50"`
	Images         []string `json:"images" validate:"dive,required"`
	SupplierID     string   `json:"supplierId"`
}

func (r productRequest) toInput() commands.ProductInput {
	return commands.ProductInput{
		Name:           r.Name,
		Description:    r.Description,
		Category:       r.Category,
		Price:          r.Price,
		WholesalePrice: r.WholesalePrice,
		Stock:          r.Stock,
		Tags:           r.Tags,
		Images:         r.Images,
		SupplierID:     r.SupplierID,
	}
}

type createProductResponse struct {
	ID string `json:"id"`
}

// Handlers

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.listProducts.Handle(r.Context(), queries.ListProductsQuery{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.getProduct.Handle(r.Context(), queries.GetProductQuery{ProductID: r.PathValue("id")})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.WriteError(w, r, http.StatusBadRequest, httpserver.ValidationMessage(err), err)
		return
	}

	id, err := h.createProduct.Handle(r.Context(), commands.CreateProductCommand{ProductInput: req.toInput()})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusCreated, createProductResponse{ID: id})
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.WriteError(w, r, http.StatusBadRequest, httpserver.ValidationMessage(err), err)
		return
	}

	err := h.updateProduct.Handle(r.Context(), commands.UpdateProductCommand{
		ProductID:    r.PathValue("id"),
		ProductInput: req.toInput(),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	product, err := h.getProduct.Handle(r.Context(), queries.GetProductQuery{ProductID: r.PathValue("id")})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.deleteProduct.Handle(r.Context(), commands.DeleteProductCommand{ProductID: r.PathValue("id")}); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		httpserver.WriteError(w, r, http.StatusNotFound, domain.ErrProductNotFound.Error(), err)
	case errors.Is(err, types.ErrInvalidID):
		httpserver.WriteError(w, r, http.StatusBadRequest, "invalid product ID", err)
	case errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrNameLength),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidStock),
		errors.Is(err, domain.ErrInvalidCategory):
		httpserver.WriteError(w, r, http.StatusBadRequest, err.Error(), err)
	default:
		httpserver.WriteError(w, r, http.StatusInternalServerError, "internal server error", err)
	}
}
