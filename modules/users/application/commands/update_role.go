package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tabison/suppliers/modules/shared/transaction"
	"github.com/tabison/suppliers/modules/shared/types"
	"github.com/tabison/suppliers/modules/users/domain"
)

// UpdateRoleCommand changes a user's role on behalf of an admin.
type UpdateRoleCommand struct {
	ActorID string
	UserID  string
	Role    string
}

type UpdateRoleHandler struct {
	repo    domain.UserRepository
	txScope transaction.Scope
	logger  *slog.Logger
}

func NewUpdateRoleHandler(repo domain.UserRepository, txScope transaction.Scope, logger *slog.Logger) *UpdateRoleHandler {
	return &UpdateRoleHandler{repo: repo, txScope: txScope, logger: logger}
}

func (h *UpdateRoleHandler) Handle(ctx context.Context, cmd UpdateRoleCommand) error {
	userID, err := types.ParseUserID(cmd.UserID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	role, err := domain.ParseRole(cmd.Role)
	if err != nil {
		return err
	}
	if cmd.ActorID == userID.String() && role != domain.RoleAdmin {
		return domain.ErrSelfDemotion
	}

	previous, err := transaction.ExecuteWithResult(ctx, h.txScope, func(ctx context.Context) (domain.Role, error) {
		user, err := h.repo.FindByID(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("finding user: %w", err)
		}
		previous := user.Role()
		if err := user.ChangeRole(role, time.Now()); err != nil {
			return "", err
		}
		if err := h.repo.Save(ctx, user); err != nil {
			return "", fmt.Errorf("saving user: %w", err)
		}
		return previous, nil
	})
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "user role changed",
		slog.String("user_id", userID.String()),
		slog.String("from", previous.String()),
		slog.String("to", role.String()),
		slog.String("actor_id", cmd.ActorID))
	return nil
}
