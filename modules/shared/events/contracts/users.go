// Package contracts is the public event vocabulary. Subscribers import these
// types instead of the publishing module's domain package.
package contracts

import "github.com/tabison/suppliers/modules/shared/events"

const (
	UserRegisteredEventType events.EventType = "users.UserRegistered"
	UserDeletedEventType    events.EventType = "users.UserDeleted"
)

// UserRegisteredEvent follows a stored registration.
type UserRegisteredEvent struct {
	events.BaseEvent
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// UserDeletedEvent is dispatched inside the deleting transaction, so a
// subscriber's failure keeps the account alive.
type UserDeletedEvent struct {
	events.BaseEvent
	UserID string `json:"user_id"`
}
