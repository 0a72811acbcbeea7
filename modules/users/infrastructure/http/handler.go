// Package http exposes user accounts over HTTP.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tabison/suppliers/internal/platform/auth"
	"github.com/tabison/suppliers/internal/platform/httpserver"
	"github.com/tabison/suppliers/modules/shared/types"
	"github.com/tabison/suppliers/modules/users/application/commands"
	"github.com/tabison/suppliers/modules/users/application/queries"
	"github.com/tabison/suppliers/modules/users/domain"
)

// Handler serves registration, the caller's profile and the admin user routes.
type Handler struct {
	registerUser *commands.RegisterUserHandler
	updateRole   *commands.UpdateRoleHandler
	deleteUser   *commands.DeleteUserHandler
	getUser      *queries.GetUserHandler
	listUsers    *queries.ListUsersHandler
}

func NewHandler(
	registerUser *commands.RegisterUserHandler,
	updateRole *commands.UpdateRoleHandler,
	deleteUser *commands.DeleteUserHandler,
	getUser *queries.GetUserHandler,
	listUsers *queries.ListUsersHandler,
) *Handler {
	return &Handler{
		registerUser: registerUser,
		updateRole:   updateRole,
		deleteUser:   deleteUser,
		getUser:      getUser,
		listUsers:    listUsers,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, verifier *auth.Verifier) {
	mux.HandleFunc("POST /api/users", verifier.Require(h.handleRegister))
	mux.HandleFunc("GET /api/users/me", verifier.Require(h.handleMe))

	mux.HandleFunc("GET /api/admin/users", verifier.Require(h.handleListUsers, auth.RoleAdmin))
	mux.HandleFunc("PUT /api/admin/users/{id}/role", verifier.Require(h.handleUpdateRole, auth.RoleAdmin))
	mux.HandleFunc("DELETE /api/admin/users/{id}", verifier.Require(h.handleDeleteUser, auth.RoleAdmin))
}

// Request DTOs

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone"`
	Role      string `json:"role" validate:"omitempty,oneof=user supplier admin"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user supplier admin"`
}

// Handlers

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.WriteError(w, r, http.StatusBadRequest, httpserver.ValidationMessage(err), err)
		return
	}

	p, _ := auth.FromContext(r.Context())
	id, err := h.registerUser.Handle(r.Context(), commands.RegisterUserCommand{
		UserID:        p.UserID,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		Role:          req.Role,
		CallerIsAdmin: p.IsAdmin(),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.writeUser(w, r, http.StatusCreated, id)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	h.writeUser(w, r, http.StatusOK, p.UserID)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.listUsers.Handle(r.Context(), queries.ListUsersQuery{
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.WriteError(w, r, http.StatusBadRequest, httpserver.ValidationMessage(err), err)
		return
	}

	p, _ := auth.FromContext(r.Context())
	err := h.updateRole.Handle(r.Context(), commands.UpdateRoleCommand{
		ActorID: p.UserID,
		UserID:  r.PathValue("id"),
		Role:    req.Role,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.writeUser(w, r, http.StatusOK, r.PathValue("id"))
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	err := h.deleteUser.Handle(r.Context(), commands.DeleteUserCommand{
		ActorID: p.UserID,
		UserID:  r.PathValue("id"),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeUser(w http.ResponseWriter, r *http.Request, status int, userID string) {
	user, err := h.getUser.Handle(r.Context(), queries.GetUserQuery{UserID: userID})
	if err != nil {
		handleError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, status, user)
}

// badRequestErrors are reported with their own message.
var badRequestErrors = []error{
	domain.ErrEmailRequired,
	domain.ErrEmailInvalid,
	domain.ErrFirstNameRequired,
	domain.ErrFirstNameLength,
	domain.ErrLastNameRequired,
	domain.ErrLastNameLength,
	domain.ErrInvalidPhone,
	domain.ErrInvalidRole,
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			httpserver.WriteError(w, r, http.StatusBadRequest, target.Error(), err)
			return
		}
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		httpserver.WriteError(w, r, http.StatusNotFound, domain.ErrUserNotFound.Error(), err)
	case errors.Is(err, types.ErrInvalidID):
		httpserver.WriteError(w, r, http.StatusBadRequest, "invalid user ID", err)
	case errors.Is(err, domain.ErrRoleNotAllowed):
		httpserver.WriteError(w, r, http.StatusForbidden, domain.ErrRoleNotAllowed.Error(), err)
	case errors.Is(err, domain.ErrEmailExists),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrSelfDemotion),
		errors.Is(err, domain.ErrSelfDeletion):
		httpserver.WriteError(w, r, http.StatusConflict, err.Error(), err)
	case errors.Is(err, domain.ErrUserDeleted):
		httpserver.WriteError(w, r, http.StatusGone, domain.ErrUserDeleted.Error(), err)
	default:
		httpserver.WriteError(w, r, http.StatusInternalServerError, "internal server error", err)
	}
}
