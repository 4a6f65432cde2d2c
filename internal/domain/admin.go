package domain

import "context"

// Stats is the admin dashboard summary.
// swagger:model Stats
type Stats struct {
	Users         int                `json:"users"`
	Clubs         map[ClubStatus]int `json:"clubs"`
	Memberships   int                `json:"memberships"`
	Events        int                `json:"events"`
	Registrations int                `json:"registrations"`
	Payments      int                `json:"payments"`
	Revenue       int64              `json:"revenue"`
}

// ReconcileReport summarises a reconciliation run.
type ReconcileReport struct {
	Scanned  int      `json:"scanned"`
	Repaired int      `json:"repaired"`
	Failed   []string `json:"failed"`
}

// AdminService covers dashboard and user administration.
type AdminService interface {
	Stats(ctx context.Context) (*Stats, error)
	ListUsers(ctx context.Context, params PaginationParams) ([]*User, int, error)
	SetUserRole(ctx context.Context, p Principal, userID string, role Role) (*User, error)
	Reconcile(ctx context.Context) (*ReconcileReport, error)
}
