package domain

import (
	"context"
	"time"
)

// RegistrationStatus is the state of an event registration.
type RegistrationStatus string

const (
	RegistrationStatusRegistered     RegistrationStatus = "registered"
	RegistrationStatusPendingPayment RegistrationStatus = "pending_payment"
)

// EventRegistration represents a user's registration for an event.
// swagger:model EventRegistration
type EventRegistration struct {
	ID         string             `json:"id"`
	EventID    string             `json:"event_id"`
	UserEmail  string             `json:"user_email"`
	Status     RegistrationStatus `json:"status"`
	AmountPaid int64              `json:"amount_paid"`
	PaymentID  *string            `json:"payment_id"`
	JoinedAt   time.Time          `json:"joined_at"`
}

// NewEventRegistration creates a registration in the given status. ID is set by the repository on create.
func NewEventRegistration(eventID, userEmail string, status RegistrationStatus, joinedAt time.Time) *EventRegistration {
	return &EventRegistration{
		EventID:   eventID,
		UserEmail: userEmail,
		Status:    status,
		JoinedAt:  joinedAt,
	}
}

// EventRegistrationWithEvent bundles a registration with its related event.
type EventRegistrationWithEvent struct {
	Registration *EventRegistration `json:"registration"`
	Event        *Event             `json:"event"`
}

// EventRegistrationRepository defines storage operations for event registrations.
type EventRegistrationRepository interface {
	// CreateWithinCapacity inserts reg unless the event already holds capacity
	// registrations; capacity <= 0 means unlimited. Pending reservations made
	// before holdsSince are deleted first and no longer take a seat. The sweep,
	// count and insert are serialized per event. Returns ErrFull or ErrAlreadyExists.
	CreateWithinCapacity(ctx context.Context, reg *EventRegistration, capacity int, holdsSince time.Time) error
	GetByEventAndUser(ctx context.Context, eventID, userEmail string) (*EventRegistration, error)
	ListByUser(ctx context.Context, userEmail string) ([]*EventRegistration, error)
	// CountByEvent counts confirmed registrations plus reservations made at or after holdsSince.
	CountByEvent(ctx context.Context, eventID string, holdsSince time.Time) (int, error)
	// DeletePending releases the user's pending reservation, if any.
	DeletePending(ctx context.Context, eventID, userEmail string) error
	Count(ctx context.Context) (int, error)
}
