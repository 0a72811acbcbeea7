package domain

import (
	"github.com/tabison/suppliers/modules/shared/events"
	"github.com/tabison/suppliers/modules/shared/events/contracts"
)

func newUserRegisteredEvent(u *User) contracts.UserRegisteredEvent {
	return contracts.UserRegisteredEvent{
		BaseEvent: events.NewBaseEvent(contracts.UserRegisteredEventType, u.id.String()),
		UserID:    u.id.String(),
		Email:     u.email.String(),
		Role:      u.role.String(),
	}
}

func newUserDeletedEvent(u *User) contracts.UserDeletedEvent {
	return contracts.UserDeletedEvent{
		BaseEvent: events.NewBaseEvent(contracts.UserDeletedEventType, u.id.String()),
		UserID:    u.id.String(),
	}
}
