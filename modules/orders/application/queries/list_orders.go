package queries

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/orders/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// OrderListDTO is a page of orders.
type OrderListDTO struct {
	Orders     []*OrderDTO `json:"orders"`
	TotalCount int         `json:"totalCount"`
	Offset     int         `json:"offset"`
	Limit      int         `json:"limit"`
}

// ListMyOrdersQuery lists the caller's orders, newest first.
type ListMyOrdersQuery struct {
	UserID string
	Offset int
	Limit  int
}

// ListOrdersQuery lists every order for admins, optionally by status.
type ListOrdersQuery struct {
	Status string
	Offset int
	Limit  int
}

type ListOrdersHandler struct {
	repo domain.OrderRepository
}

func NewListOrdersHandler(repo domain.OrderRepository) *ListOrdersHandler {
	return &ListOrdersHandler{repo: repo}
}

func (h *ListOrdersHandler) Mine(ctx context.Context, query ListMyOrdersQuery) (*OrderListDTO, error) {
	userID, err := types.ParseUserID(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return h.list(ctx, domain.ListFilter{UserID: userID}, query.Offset, query.Limit)
}

func (h *ListOrdersHandler) All(ctx context.Context, query ListOrdersQuery) (*OrderListDTO, error) {
	var filter domain.ListFilter
	if query.Status != "" {
		status, err := domain.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	return h.list(ctx, filter, query.Offset, query.Limit)
}

func (h *ListOrdersHandler) list(ctx context.Context, filter domain.ListFilter, offset, limit int) (*OrderListDTO, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	orders, total, err := h.repo.FindAll(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	dtos := make([]*OrderDTO, len(orders))
	for i, order := range orders {
		dtos[i] = ToOrderDTO(order)
	}

	return &OrderListDTO{
		Orders:     dtos,
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
	}, nil
}
