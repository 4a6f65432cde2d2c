package domain

import (
	"context"
	"time"
)

// Event belongs to exactly one club and may charge a fee.
// swagger:model Event
type Event struct {
	ID           string    `json:"id"`
	ClubID       string    `json:"club_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	IsPaid       bool      `json:"is_paid"`
	Fee          float64   `json:"fee"`
	MaxAttendees *int      `json:"max_attendees,omitempty"`
	ManagerEmail string    `json:"manager_email"`
	CreatedAt    time.Time `json:"created_at"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByClubID(ctx context.Context, clubID string) ([]*Event, error)
	ListUpcoming(ctx context.Context, from time.Time, params PaginationParams) ([]*Event, int, error)
	Count(ctx context.Context) (int, error)
}

// EventService defines event management and listing operations.
type EventService interface {
	CreateEvent(ctx context.Context, p Principal, event *Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListClubEvents(ctx context.Context, clubID string) ([]*Event, error)
	ListUpcoming(ctx context.Context, params PaginationParams) ([]*Event, int, error)
}
