package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"clubhub/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
	clubRepo  domain.ClubRepository
	now       func() time.Time
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(eventRepo domain.EventRepository, clubRepo domain.ClubRepository) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		clubRepo:  clubRepo,
		now:       time.Now,
	}
}

// CreateEvent adds an event to an approved club owned by the caller.
func (s *eventService) CreateEvent(ctx context.Context, p domain.Principal, event *domain.Event) error {
	if !domain.Authorize(p, domain.RoleManager) {
		return domain.ErrForbidden
	}
	clubID, err := domain.ParseID(event.ClubID)
	if err != nil {
		return err
	}
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return fmt.Errorf("get club: %w", err)
	}
	if !canManage(p, club) {
		return domain.ErrForbidden
	}
	if !club.IsJoinable() {
		return fmt.Errorf("club is %s: %w", club.Status, domain.ErrInvalidState)
	}
	if err := validateEvent(event); err != nil {
		return err
	}

	event.ClubID = club.ID
	event.ManagerEmail = domain.NormalizeEmail(p.Email)
	event.CreatedAt = s.now()
	if !event.IsPaid {
		event.Fee = 0
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func validateEvent(e *domain.Event) error {
	e.Title = strings.TrimSpace(e.Title)
	switch {
	case e.Title == "":
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	case e.Date.IsZero():
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	case e.Fee < 0 || math.IsNaN(e.Fee) || math.IsInf(e.Fee, 0):
		return fmt.Errorf("%w: fee must be a non-negative amount", domain.ErrInvalidInput)
	case e.IsPaid && e.Fee <= 0:
		return fmt.Errorf("%w: paid events need a positive fee", domain.ErrInvalidInput)
	case e.MaxAttendees != nil && *e.MaxAttendees < 1:
		return fmt.Errorf("%w: max attendees must be at least 1", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) ListClubEvents(ctx context.Context, clubID string) ([]*domain.Event, error) {
	id, err := domain.ParseID(clubID)
	if err != nil {
		return nil, err
	}
	if _, err := s.clubRepo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	return s.eventRepo.ListByClubID(ctx, id)
}

func (s *eventService) ListUpcoming(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	return s.eventRepo.ListUpcoming(ctx, s.now(), params)
}
