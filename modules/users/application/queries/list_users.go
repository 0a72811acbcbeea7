package queries

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/users/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// UserListDTO is one page of live accounts, newest first.
type UserListDTO struct {
	Users      []*UserDTO `json:"users"`
	TotalCount int        `json:"totalCount"`
	Offset     int        `json:"offset"`
	Limit      int        `json:"limit"`
	HasMore    bool       `json:"hasMore"`
}

// ListUsersQuery pages through live accounts. A non-positive Limit means 20;
// anything above 100 is capped.
type ListUsersQuery struct {
	Offset int
	Limit  int
}

func (q ListUsersQuery) bounds() (offset, limit int) {
	offset = max(q.Offset, 0)
	switch {
	case q.Limit <= 0:
		limit = defaultPageSize
	default:
		limit = min(q.Limit, maxPageSize)
	}
	return offset, limit
}

type ListUsersHandler struct {
	repo domain.UserRepository
}

func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

func (h *ListUsersHandler) Handle(ctx context.Context, q ListUsersQuery) (*UserListDTO, error) {
	offset, limit := q.bounds()

	page, total, err := h.repo.FindAll(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	out := &UserListDTO{
		Users:      make([]*UserDTO, 0, len(page)),
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
		HasMore:    offset+len(page) < total,
	}
	for _, u := range page {
		out.Users = append(out.Users, newUserDTO(u))
	}
	return out, nil
}

// Count returns the number of live accounts.
func (h *ListUsersHandler) Count(ctx context.Context) (int, error) {
	n, err := h.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}
