package queries

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/shared/types"
	"github.com/tabison/suppliers/modules/users/domain"
)

// GetUserQuery looks up one account. Soft-deleted accounts read as
// ErrUserNotFound unless IncludeDeleted is set.
type GetUserQuery struct {
	UserID         string
	IncludeDeleted bool
}

type GetUserHandler struct {
	repo domain.UserRepository
}

func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

func (h *GetUserHandler) Handle(ctx context.Context, q GetUserQuery) (*UserDTO, error) {
	id, err := types.ParseUserID(q.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	user, err := h.repo.FindByID(ctx, id)
	switch {
	case err != nil:
		return nil, err
	case user.IsDeleted() && !q.IncludeDeleted:
		return nil, domain.ErrUserNotFound
	}
	return newUserDTO(user), nil
}
