package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/tabison/suppliers/internal/platform/eventbus"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/types"
	"github.com/tabison/suppliers/modules/users/domain"
)

// DeleteUserCommand soft-deletes a user on behalf of an admin.
type DeleteUserCommand struct {
	ActorID string
	UserID  string
}

type DeleteUserHandler struct {
	repo domain.UserRepository
	uow  *eventbus.UnitOfWork
}

func NewDeleteUserHandler(repo domain.UserRepository, uow *eventbus.UnitOfWork) *DeleteUserHandler {
	return &DeleteUserHandler{repo: repo, uow: uow}
}

// Handle marks the user deleted. UserDeleted handlers run inside the same
// transaction, so a failing handler keeps the user alive.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	userID, err := types.ParseUserID(cmd.UserID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	if cmd.ActorID == userID.String() {
		return domain.ErrSelfDeletion
	}

	return h.uow.Execute(ctx, func(ctx context.Context, publisher events.Publisher) error {
		user, err := h.repo.FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("finding user: %w", err)
		}

		if err := user.Delete(time.Now()); err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}

		if err := h.repo.Save(ctx, user); err != nil {
			return fmt.Errorf("saving user: %w", err)
		}
		return publisher.Publish(ctx, user.PopDomainEvents()...)
	})
}
