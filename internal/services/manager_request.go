package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clubhub/internal/domain"
)

type managerRequestService struct {
	requestRepo domain.ManagerRequestRepository
	userRepo    domain.UserRepository
	publisher   domain.EventPublisher
	email       domain.EmailService
	logger      *slog.Logger
}

// NewManagerRequestService creates the service members use to ask for the manager role.
func NewManagerRequestService(
	requestRepo domain.ManagerRequestRepository,
	userRepo domain.UserRepository,
	publisher domain.EventPublisher,
	email domain.EmailService,
	logger *slog.Logger,
) domain.ManagerRequestService {
	return &managerRequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		email:       email,
		logger:      logger,
	}
}

func (s *managerRequestService) Submit(ctx context.Context, p domain.Principal, name string) (*domain.ManagerRequest, error) {
	p, err := checkPrincipal(p)
	if err != nil {
		return nil, err
	}
	if domain.Authorize(p, domain.RoleManager) {
		return nil, fmt.Errorf("already a %s: %w", p.Role, domain.ErrInvalidState)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if _, err := s.requestRepo.GetPendingByEmail(ctx, p.Email); err == nil {
		return nil, fmt.Errorf("pending request exists: %w", domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get pending request: %w", err)
	}

	req := &domain.ManagerRequest{
		Email:     p.Email,
		Name:      name,
		Status:    domain.ManagerRequestPending,
		CreatedAt: time.Now(),
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create manager request: %w", err)
	}
	return req, nil
}

func (s *managerRequestService) List(ctx context.Context, status domain.ManagerRequestStatus) ([]*domain.ManagerRequest, error) {
	switch status {
	case "", domain.ManagerRequestPending, domain.ManagerRequestApproved, domain.ManagerRequestRejected:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.requestRepo.ListByStatus(ctx, status)
}

// Decide resolves a pending request. Approval promotes a member to manager;
// users who already hold a higher role keep it.
func (s *managerRequestService) Decide(ctx context.Context, p domain.Principal, id string, approve bool) (*domain.ManagerRequest, error) {
	if !domain.Authorize(p, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	id, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	status := domain.ManagerRequestRejected
	if approve {
		status = domain.ManagerRequestApproved
	}
	req, err := s.requestRepo.Resolve(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if approve {
		user, err := s.userRepo.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("get requesting user: %w", err)
		}
		if user.Role == domain.RoleMember {
			if err := s.userRepo.UpdateRole(ctx, user.Email, domain.RoleManager); err != nil {
				return nil, fmt.Errorf("promote user: %w", err)
			}
			if s.publisher != nil {
				payload := map[string]string{"email": user.Email, "request_id": req.ID}
				if err := s.publisher.Publish(ctx, domain.EventManagerPromoted, payload); err != nil {
					s.logger.WarnContext(ctx, "event not published", "routing_key", domain.EventManagerPromoted, "err", err)
				}
			}
		}
	}

	if s.email != nil {
		data := &domain.ManagerDecisionEmailData{Email: req.Email, Name: req.Name, Approved: approve}
		if err := s.email.SendManagerDecision(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "manager decision email not sent", "request_id", req.ID, "err", err)
		}
	}
	return req, nil
}
