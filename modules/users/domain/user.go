// Package domain contains the business entities and rules for users.
// This is the innermost layer - it has no dependencies on outer layers.
package domain

import (
	"time"

	shareddomain "github.com/tabison/suppliers/modules/shared/domain"
	"github.com/tabison/suppliers/modules/shared/types"
)

// User is the aggregate root for the users bounded context. The ID is the
// subject of the caller's token, so accounts line up with order owners.
type User struct {
	shareddomain.AggregateRoot

	id        types.UserID
	email     Email
	name      Name
	phone     Phone
	role      Role
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// NewUser registers an account and records UserRegistered.
func NewUser(id types.UserID, email Email, name Name, phone Phone, role Role, now time.Time) *User {
	now = now.UTC()
	u := &User{
		id:        id,
		email:     email,
		name:      name,
		phone:     phone,
		role:      role,
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}
	u.AddDomainEvent(newUserRegisteredEvent(u))
	return u
}

// Reconstitute recreates a User from persistence.
func Reconstitute(
	id types.UserID,
	email Email,
	name Name,
	phone Phone,
	role Role,
	status Status,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:        id,
		email:     email,
		name:      name,
		phone:     phone,
		role:      role,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u *User) ID() types.UserID     { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) Name() Name           { return u.name }
func (u *User) Phone() Phone         { return u.phone }
func (u *User) Role() Role           { return u.role }
func (u *User) Status() Status       { return u.status }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) IsDeleted() bool { return u.status == StatusDeleted }

// ChangeRole sets the user's role. Changing to the current role is a no-op.
func (u *User) ChangeRole(role Role, now time.Time) error {
	if u.IsDeleted() {
		return ErrUserDeleted
	}
	if u.role == role {
		return nil
	}
	u.role = role
	u.updatedAt = now.UTC()
	return nil
}

// Delete marks the user as deleted and records UserDeleted.
func (u *User) Delete(now time.Time) error {
	if u.IsDeleted() {
		return ErrUserDeleted
	}
	u.status = StatusDeleted
	u.updatedAt = now.UTC()
	u.AddDomainEvent(newUserDeletedEvent(u))
	return nil
}
