package shared

import "context"

// EventPublisher is the side of the bus services depend on. Checkout and
// catalog services publish through this after their transactions commit.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler consumes published events. EventTypes narrows what the
// handler receives; an empty slice subscribes it to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventSubscriber manages handler registration.
type EventSubscriber interface {
	// Subscribe registers a handler. When eventTypes is empty the
	// handler's own EventTypes() decides what it receives.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the full bus contract with lifecycle control.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
