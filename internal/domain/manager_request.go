package domain

import (
	"context"
	"time"
)

// ManagerRequestStatus is the review state of a manager request.
type ManagerRequestStatus string

const (
	ManagerRequestPending  ManagerRequestStatus = "pending"
	ManagerRequestApproved ManagerRequestStatus = "approved"
	ManagerRequestRejected ManagerRequestStatus = "rejected"
)

// ManagerRequest is a member's application to become a club manager.
// swagger:model ManagerRequest
type ManagerRequest struct {
	ID        string               `json:"id"`
	Email     string               `json:"email"`
	Name      string               `json:"name"`
	Status    ManagerRequestStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

// ManagerRequestRepository defines storage operations for manager requests.
type ManagerRequestRepository interface {
	// Create returns ErrAlreadyExists when the email already has a pending request.
	Create(ctx context.Context, req *ManagerRequest) error
	GetByID(ctx context.Context, id string) (*ManagerRequest, error)
	GetPendingByEmail(ctx context.Context, email string) (*ManagerRequest, error)
	ListByStatus(ctx context.Context, status ManagerRequestStatus) ([]*ManagerRequest, error)
	// Resolve moves a pending request to status; ErrInvalidState if it is no longer pending.
	Resolve(ctx context.Context, id string, status ManagerRequestStatus) (*ManagerRequest, error)
}

// ManagerRequestService handles applications for the manager role.
type ManagerRequestService interface {
	Submit(ctx context.Context, p Principal, name string) (*ManagerRequest, error)
	List(ctx context.Context, status ManagerRequestStatus) ([]*ManagerRequest, error)
	Decide(ctx context.Context, p Principal, id string, approve bool) (*ManagerRequest, error)
}
