package services

import (
	"context"
	"errors"
	"fmt"

	"clubhub/internal/domain"
)

type memberService struct {
	clubRepo         domain.ClubRepository
	eventRepo        domain.EventRepository
	membershipRepo   domain.MembershipRepository
	registrationRepo domain.EventRegistrationRepository
	paymentRepo      domain.PaymentRepository
}

// NewMemberService creates the MemberService behind the /me views.
func NewMemberService(
	clubRepo domain.ClubRepository,
	eventRepo domain.EventRepository,
	membershipRepo domain.MembershipRepository,
	registrationRepo domain.EventRegistrationRepository,
	paymentRepo domain.PaymentRepository,
) domain.MemberService {
	return &memberService{
		clubRepo:         clubRepo,
		eventRepo:        eventRepo,
		membershipRepo:   membershipRepo,
		registrationRepo: registrationRepo,
		paymentRepo:      paymentRepo,
	}
}

func (s *memberService) ListMyMemberships(ctx context.Context, p domain.Principal) ([]*domain.MembershipWithClub, error) {
	p, err := checkPrincipal(p)
	if err != nil {
		return nil, err
	}
	memberships, err := s.membershipRepo.ListByUser(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	// One lookup per distinct club.
	clubsByID := make(map[string]*domain.Club)
	result := make([]*domain.MembershipWithClub, 0, len(memberships))
	for _, m := range memberships {
		club, ok := clubsByID[m.ClubID]
		if !ok {
			club, err = s.clubRepo.GetByID(ctx, m.ClubID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("get club for membership: %w", err)
			}
			clubsByID[m.ClubID] = club
		}
		result = append(result, &domain.MembershipWithClub{Membership: m, Club: club})
	}
	return result, nil
}

func (s *memberService) ListMyRegistrations(ctx context.Context, p domain.Principal) ([]*domain.EventRegistrationWithEvent, error) {
	p, err := checkPrincipal(p)
	if err != nil {
		return nil, err
	}
	regs, err := s.registrationRepo.ListByUser(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.EventRegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.EventRegistrationWithEvent{Registration: reg, Event: ev})
	}
	return result, nil
}

func (s *memberService) ListMyPayments(ctx context.Context, p domain.Principal) ([]*domain.Payment, error) {
	p, err := checkPrincipal(p)
	if err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByUser(ctx, p.Email)
}
