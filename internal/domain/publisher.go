package domain

import "context"

// Routing keys for domain events published after a successful write.
const (
	EventPaymentRecorded     = "payment.recorded"
	EventMembershipGranted   = "membership.granted"
	EventRegistrationCreated = "registration.created"
	EventManagerPromoted     = "manager.promoted"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
