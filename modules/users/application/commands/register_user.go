// Package commands contains write use cases for the users module.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tabison/suppliers/internal/platform/eventbus"
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/types"
	"github.com/tabison/suppliers/modules/users/domain"
)

// RegisterUserCommand creates the account for an authenticated subject.
// Only admins may hand out the admin role.
type RegisterUserCommand struct {
	UserID        string
	Email         string
	FirstName     string
	LastName      string
	Phone         string
	Role          string
	CallerIsAdmin bool
}

type RegisterUserHandler struct {
	repo   domain.UserRepository
	uow    *eventbus.UnitOfWork
	logger *slog.Logger
}

func NewRegisterUserHandler(repo domain.UserRepository, uow *eventbus.UnitOfWork, logger *slog.Logger) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, uow: uow, logger: logger}
}

// Handle registers the user and returns its ID.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (string, error) {
	userID, err := types.ParseUserID(cmd.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid user ID: %w", err)
	}
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return "", fmt.Errorf("invalid email: %w", err)
	}
	name, err := domain.NewName(cmd.FirstName, cmd.LastName)
	if err != nil {
		return "", fmt.Errorf("invalid name: %w", err)
	}
	phone, err := domain.NewPhone(cmd.Phone)
	if err != nil {
		return "", err
	}
	role, err := domain.ParseRole(cmd.Role)
	if err != nil {
		return "", err
	}
	if role == domain.RoleAdmin && !cmd.CallerIsAdmin {
		return "", domain.ErrRoleNotAllowed
	}

	err = h.uow.Execute(ctx, func(ctx context.Context, publisher events.Publisher) error {
		if _, err := h.repo.FindByID(ctx, userID); err == nil {
			return domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("finding user: %w", err)
		}

		if _, err := h.repo.FindByEmail(ctx, email); err == nil {
			return domain.ErrEmailExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("checking email: %w", err)
		}

		user := domain.NewUser(userID, email, name, phone, role, time.Now())
		// Pop before saving so a retried attempt starts clean.
		evts := user.PopDomainEvents()
		if err := h.repo.Save(ctx, user); err != nil {
			return fmt.Errorf("saving user: %w", err)
		}
		return publisher.Publish(ctx, evts...)
	})
	if err != nil {
		return "", err
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", userID.String()),
		slog.String("role", role.String()))
	return userID.String(), nil
}
