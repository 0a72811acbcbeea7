package domain

import (
	"context"

	"github.com/tabison/suppliers/modules/shared/types"
)

// UserRepository defines the persistence interface for users.
// Deleted users stay stored but are excluded from FindAll and Count.
type UserRepository interface {
	// Save persists a user (create or update).
	Save(ctx context.Context, user *User) error

	// FindByID returns ErrUserNotFound if the user doesn't exist.
	FindByID(ctx context.Context, id types.UserID) (*User, error)

	// FindByEmail returns ErrUserNotFound if no live user has the email.
	FindByEmail(ctx context.Context, email Email) (*User, error)

	// FindAll returns live users, newest first, with the total count.
	FindAll(ctx context.Context, offset, limit int) ([]*User, int, error)

	Count(ctx context.Context) (int, error)
}
