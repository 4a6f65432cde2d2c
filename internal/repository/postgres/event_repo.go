package postgres

import (
	"context"
	"database/sql"
	"time"

	"clubhub/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, club_id, title, description, date, location, is_paid, fee, max_attendees, manager_email, created_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var maxNull sql.NullInt64
	err := row.Scan(&e.ID, &e.ClubID, &e.Title, &e.Description, &e.Date, &e.Location,
		&e.IsPaid, &e.Fee, &maxNull, &e.ManagerEmail, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if maxNull.Valid {
		n := int(maxNull.Int64)
		e.MaxAttendees = &n
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (club_id, title, description, date, location, is_paid, fee, max_attendees, manager_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var maxAttendees sql.NullInt64
	if e.MaxAttendees != nil {
		maxAttendees = sql.NullInt64{Int64: int64(*e.MaxAttendees), Valid: true}
	}
	err := r.DB.QueryRowContext(ctx, query, e.ClubID, e.Title, e.Description, e.Date, e.Location,
		e.IsPaid, e.Fee, maxAttendees, e.ManagerEmail, e.CreatedAt).Scan(&e.ID)
	return storeErr("create event", err)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeErr("get event", err)
	}
	return e, nil
}

func (r *eventRepository) ListByClubID(ctx context.Context, clubID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE club_id = $1 ORDER BY date ASC`
	rows, err := r.DB.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, storeErr("list club events", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListUpcoming returns events dated at or after from whose club is approved.
func (r *eventRepository) ListUpcoming(ctx context.Context, from time.Time, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*) FROM events e JOIN clubs c ON c.id = e.club_id
		WHERE e.date >= $1 AND c.status = 'approved'
	`
	if err := r.DB.QueryRowContext(ctx, countQuery, from).Scan(&total); err != nil {
		return nil, 0, storeErr("count upcoming events", err)
	}
	query := `
		SELECT e.id, e.club_id, e.title, e.description, e.date, e.location, e.is_paid, e.fee, e.max_attendees, e.manager_email, e.created_at
		FROM events e JOIN clubs c ON c.id = e.club_id
		WHERE e.date >= $1 AND c.status = 'approved'
		ORDER BY e.date ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, from, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, storeErr("list upcoming events", err)
	}
	defer rows.Close()
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, storeErr("count events", err)
	}
	return n, nil
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, storeErr("scan event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list events", err)
	}
	return events, nil
}
