// Package eventhandlers reacts to other modules' events.
package eventhandlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tabison/suppliers/modules/cart/domain"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/events/contracts"
	"github.com/tabison/suppliers/modules/shared/types"
)

// UserDeletedHandler drops the cart of a deleted user.
type UserDeletedHandler struct {
	repo   domain.CartRepository
	logger *slog.Logger
}

func NewUserDeletedHandler(repo domain.CartRepository, logger *slog.Logger) *UserDeletedHandler {
	return &UserDeletedHandler{repo: repo, logger: logger}
}

func (h *UserDeletedHandler) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(contracts.UserDeletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	userID, err := types.ParseUserID(e.UserID)
	if err != nil {
		return fmt.Errorf("invalid user ID in event: %w", err)
	}

	if err := h.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("deleting cart: %w", err)
	}
	h.logger.InfoContext(ctx, "cart removed for deleted user", slog.String("user_id", e.UserID))
	return nil
}
