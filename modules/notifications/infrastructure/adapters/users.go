// Package adapters connects the notifications module to other modules.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tabison/suppliers/modules/notifications/domain"
	"github.com/tabison/suppliers/modules/users"
)

// UsersModule is the part of users.Module notifications uses.
type UsersModule interface {
	GetUser(ctx context.Context, userID string) (*users.User, error)
}

// Recipients implements domain.Recipients on top of the users module.
type Recipients struct {
	module UsersModule
}

func NewRecipients(module UsersModule) *Recipients {
	return &Recipients{module: module}
}

func (r *Recipients) Lookup(ctx context.Context, userID string) (domain.Recipient, error) {
	u, err := r.module.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return domain.Recipient{}, fmt.Errorf("%w: %w", domain.ErrRecipientNotFound, err)
		}
		return domain.Recipient{}, err
	}
	return domain.Recipient{
		UserID: u.ID,
		Email:  u.Email,
		Name:   strings.TrimSpace(u.FirstName + " " + u.LastName),
	}, nil
}
