package domain

import (
	"context"
	"time"
)

// MembershipStatus is the state of a club membership.
type MembershipStatus string

const MembershipStatusActive MembershipStatus = "active"

// Membership grants a user access to a club. At most one exists per (user, club).
// swagger:model Membership
type Membership struct {
	ID        string           `json:"id"`
	UserEmail string           `json:"user_email"`
	ClubID    string           `json:"club_id"`
	Status    MembershipStatus `json:"status"`
	JoinedAt  time.Time        `json:"joined_at"`
	ExpiresAt *time.Time       `json:"expires_at"`
	PaymentID *string          `json:"payment_id"`
}

// NewMembership creates an active Membership. ID is set by the repository on create.
func NewMembership(userEmail, clubID string, joinedAt time.Time) *Membership {
	return &Membership{
		UserEmail: userEmail,
		ClubID:    clubID,
		Status:    MembershipStatusActive,
		JoinedAt:  joinedAt,
	}
}

// MembershipWithClub bundles a membership with its club.
type MembershipWithClub struct {
	Membership *Membership `json:"membership"`
	Club       *Club       `json:"club"`
}

// MembershipRepository defines storage operations for memberships.
// Create returns ErrAlreadyExists when the (user, club) pair is taken.
type MembershipRepository interface {
	Create(ctx context.Context, m *Membership) error
	GetByUserAndClub(ctx context.Context, userEmail, clubID string) (*Membership, error)
	ListByUser(ctx context.Context, userEmail string) ([]*Membership, error)
	ListByClub(ctx context.Context, clubID string) ([]*Membership, error)
	Count(ctx context.Context) (int, error)
}
