package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"clubhub/internal/domain"
)

const managedClubsLimit = 100

type clubService struct {
	clubRepo       domain.ClubRepository
	membershipRepo domain.MembershipRepository
}

// NewClubService creates a ClubService with the given repositories.
func NewClubService(clubRepo domain.ClubRepository, membershipRepo domain.MembershipRepository) domain.ClubService {
	return &clubService{
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
	}
}

func (s *clubService) CreateClub(ctx context.Context, p domain.Principal, club *domain.Club) error {
	if !domain.Authorize(p, domain.RoleManager) {
		return domain.ErrForbidden
	}
	club.Name = strings.TrimSpace(club.Name)
	if club.Name == "" {
		return fmt.Errorf("%w: club name is required", domain.ErrInvalidInput)
	}
	if club.MembershipFee < 0 || math.IsNaN(club.MembershipFee) || math.IsInf(club.MembershipFee, 0) {
		return fmt.Errorf("%w: membership fee must be a non-negative amount", domain.ErrInvalidInput)
	}
	now := time.Now()
	club.Status = domain.ClubStatusPending
	club.ManagerEmail = domain.NormalizeEmail(p.Email)
	club.CreatedAt = now
	club.UpdatedAt = now
	if err := s.clubRepo.Create(ctx, club); err != nil {
		return fmt.Errorf("create club: %w", err)
	}
	return nil
}

func (s *clubService) GetClub(ctx context.Context, id string) (*domain.Club, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.clubRepo.GetByID(ctx, id)
}

// ListClubs lists approved clubs only.
func (s *clubService) ListClubs(ctx context.Context, filter domain.ClubFilter) ([]*domain.Club, int, error) {
	filter.Status = domain.ClubStatusApproved
	filter.ManagerEmail = ""
	return s.clubRepo.List(ctx, filter)
}

func (s *clubService) ListManagedClubs(ctx context.Context, p domain.Principal) ([]*domain.Club, error) {
	if !domain.Authorize(p, domain.RoleManager) {
		return nil, domain.ErrForbidden
	}
	clubs, _, err := s.clubRepo.List(ctx, domain.ClubFilter{
		ManagerEmail: domain.NormalizeEmail(p.Email),
		Pagination:   domain.PaginationParams{Page: 1, PageSize: managedClubsLimit},
	})
	return clubs, err
}

// ListMembers is visible to the club's manager and to admins.
func (s *clubService) ListMembers(ctx context.Context, p domain.Principal, clubID string) ([]*domain.Membership, error) {
	club, err := s.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !canManage(p, club) {
		return nil, domain.ErrForbidden
	}
	return s.membershipRepo.ListByClub(ctx, club.ID)
}

// SetStatus approves or rejects a pending club. Decided clubs never change again.
func (s *clubService) SetStatus(ctx context.Context, p domain.Principal, clubID string, status domain.ClubStatus) (*domain.Club, error) {
	if !domain.Authorize(p, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	id, err := domain.ParseID(clubID)
	if err != nil {
		return nil, err
	}
	if status != domain.ClubStatusApproved && status != domain.ClubStatusRejected {
		return nil, fmt.Errorf("%w: status must be approved or rejected", domain.ErrInvalidInput)
	}
	return s.clubRepo.UpdateStatus(ctx, id, domain.ClubStatusPending, status)
}

func canManage(p domain.Principal, club *domain.Club) bool {
	if domain.Authorize(p, domain.RoleAdmin) {
		return true
	}
	return domain.Authorize(p, domain.RoleManager) && domain.NormalizeEmail(p.Email) == club.ManagerEmail
}
