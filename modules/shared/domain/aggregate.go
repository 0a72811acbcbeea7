// Package domain holds building blocks shared by every module's aggregates.
package domain

import "github.com/tabison/suppliers/modules/shared/events"

// AggregateRoot records the events an aggregate raised while a command ran.
// Command handlers pop them after saving and hand them to the unit of work,
// which dispatches them in-transaction and again after commit.
type AggregateRoot struct {
	pending []events.Event
}

func (a *AggregateRoot) AddDomainEvent(event events.Event) {
	a.pending = append(a.pending, event)
}

// ClearDomainEvents drops recorded events. Reconstituted aggregates that are
// mutated by an event handler use it when the triggering event already
// speaks for the change.
func (a *AggregateRoot) ClearDomainEvents() {
	a.pending = nil
}

// PopDomainEvents returns the recorded events and clears them, so a retried
// transaction does not publish the same event twice.
func (a *AggregateRoot) PopDomainEvents() []events.Event {
	out := a.pending
	a.pending = nil
	return out
}
