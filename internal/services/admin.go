package services

import (
	"context"
	"fmt"
	"log/slog"

	"clubhub/internal/domain"
)

// AdminRepositories groups the stores the admin dashboard reads.
type AdminRepositories struct {
	Users         domain.UserRepository
	Clubs         domain.ClubRepository
	Events        domain.EventRepository
	Memberships   domain.MembershipRepository
	Registrations domain.EventRegistrationRepository
	Payments      domain.PaymentRepository
}

type adminService struct {
	repos  AdminRepositories
	join   domain.JoinService
	logger *slog.Logger
}

// NewAdminService creates the AdminService. join is used to repair payments
// whose access record is missing.
func NewAdminService(repos AdminRepositories, join domain.JoinService, logger *slog.Logger) domain.AdminService {
	return &adminService{repos: repos, join: join, logger: logger}
}

func (s *adminService) Stats(ctx context.Context) (*domain.Stats, error) {
	var st domain.Stats
	var err error
	if st.Users, err = s.repos.Users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if st.Clubs, err = s.repos.Clubs.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("count clubs: %w", err)
	}
	if st.Memberships, err = s.repos.Memberships.Count(ctx); err != nil {
		return nil, fmt.Errorf("count memberships: %w", err)
	}
	if st.Events, err = s.repos.Events.Count(ctx); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	if st.Registrations, err = s.repos.Registrations.Count(ctx); err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if st.Payments, err = s.repos.Payments.Count(ctx); err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}
	if st.Revenue, err = s.repos.Payments.Revenue(ctx); err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	return &st, nil
}

func (s *adminService) ListUsers(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	return s.repos.Users.List(ctx, params)
}

// SetUserRole changes a user's role. Admins cannot change their own role.
// The new role takes effect at the user's next login.
func (s *adminService) SetUserRole(ctx context.Context, p domain.Principal, userID string, role domain.Role) (*domain.User, error) {
	if !domain.Authorize(p, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	id, err := domain.ParseID(userID)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if id == p.UserID {
		return nil, fmt.Errorf("cannot change own role: %w", domain.ErrInvalidState)
	}
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Users.UpdateRole(ctx, user.Email, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	user.Role = role
	s.logger.InfoContext(ctx, "user role changed", "user_id", user.ID, "role", role, "by", p.Email)
	return user, nil
}

// Reconcile grants access for every recorded payment that lacks it.
func (s *adminService) Reconcile(ctx context.Context) (*domain.ReconcileReport, error) {
	payments, err := s.repos.Payments.ListUngranted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ungranted payments: %w", err)
	}
	report := &domain.ReconcileReport{Scanned: len(payments), Failed: []string{}}
	for _, p := range payments {
		if err := s.join.GrantPayment(ctx, p); err != nil {
			s.logger.ErrorContext(ctx, "reconcile grant failed", "reference", p.GatewayReference, "err", err)
			report.Failed = append(report.Failed, p.GatewayReference)
			continue
		}
		report.Repaired++
	}
	s.logger.InfoContext(ctx, "reconcile finished", "scanned", report.Scanned, "repaired", report.Repaired, "failed", len(report.Failed))
	return report, nil
}
