package domain

import (
	"context"
	"time"
)

// ClubStatus is the moderation state of a club.
type ClubStatus string

const (
	ClubStatusPending  ClubStatus = "pending"
	ClubStatusApproved ClubStatus = "approved"
	ClubStatusRejected ClubStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ClubStatus) Valid() bool {
	switch s {
	case ClubStatusPending, ClubStatusApproved, ClubStatusRejected:
		return true
	}
	return false
}

// Club is a membership organisation run by a manager.
// swagger:model Club
type Club struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Location      string     `json:"location"`
	BannerURL     string     `json:"banner_url"`
	MembershipFee float64    `json:"membership_fee"`
	Status        ClubStatus `json:"status"`
	ManagerEmail  string     `json:"manager_email"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ClubFilter narrows club listings. Zero values mean "no constraint".
type ClubFilter struct {
	Search       string
	Category     string
	Status       ClubStatus
	ManagerEmail string
	Pagination   PaginationParams
}

// ClubRepository defines the interface for club storage
type ClubRepository interface {
	Create(ctx context.Context, club *Club) error
	GetByID(ctx context.Context, id string) (*Club, error)
	List(ctx context.Context, filter ClubFilter) ([]*Club, int, error)
	// UpdateStatus moves a club from one status to another. It returns ErrInvalidState
	// when the club exists but is not in the from status.
	UpdateStatus(ctx context.Context, id string, from, to ClubStatus) (*Club, error)
	CountByStatus(ctx context.Context) (map[ClubStatus]int, error)
}

// ClubService defines club management and listing operations.
type ClubService interface {
	CreateClub(ctx context.Context, p Principal, club *Club) error
	GetClub(ctx context.Context, id string) (*Club, error)
	ListClubs(ctx context.Context, filter ClubFilter) ([]*Club, int, error)
	ListManagedClubs(ctx context.Context, p Principal) ([]*Club, error)
	ListMembers(ctx context.Context, p Principal, clubID string) ([]*Membership, error)
	SetStatus(ctx context.Context, p Principal, clubID string, status ClubStatus) (*Club, error)
}
