package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubhub/internal/domain"
)

type eventRegistrationRepository struct {
	DB *sql.DB
}

func NewEventRegistrationRepository(db *sql.DB) domain.EventRegistrationRepository {
	return &eventRegistrationRepository{
		DB: db,
	}
}

const registrationColumns = `id, event_id, user_email, status, amount_paid, payment_id, joined_at`

func scanRegistration(row interface{ Scan(...any) error }) (*domain.EventRegistration, error) {
	reg := &domain.EventRegistration{}
	var paymentID sql.NullString
	if err := row.Scan(&reg.ID, &reg.EventID, &reg.UserEmail, &reg.Status, &reg.AmountPaid, &paymentID, &reg.JoinedAt); err != nil {
		return nil, err
	}
	reg.PaymentID = stringPtr(paymentID)
	return reg, nil
}

// CreateWithinCapacity inserts a registration while holding a lock on the
// event row, so concurrent joins cannot push the count past capacity. Live
// pending reservations count toward capacity; lapsed ones are swept first.
// capacity <= 0 means unlimited.
func (r *eventRegistrationRepository) CreateWithinCapacity(ctx context.Context, reg *domain.EventRegistration, capacity int, holdsSince time.Time) error {
	err := inTx(ctx, r.DB, func(tx *sql.Tx) error {
		var locked string
		if err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, reg.EventID).Scan(&locked); err != nil {
			return storeErr("lock event", err)
		}
		if !holdsSince.IsZero() {
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM event_registrations
				WHERE event_id = $1 AND status = 'pending_payment' AND joined_at < $2`,
				reg.EventID, holdsSince); err != nil {
				return storeErr("release lapsed reservations", err)
			}
		}
		if capacity > 0 {
			var taken int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`, reg.EventID,
			).Scan(&taken); err != nil {
				return storeErr("count registrations", err)
			}
			if taken >= capacity {
				return fmt.Errorf("event %s has %d of %d places taken: %w", reg.EventID, taken, capacity, domain.ErrFull)
			}
		}
		query := `
			INSERT INTO event_registrations (event_id, user_email, status, amount_paid, payment_id, joined_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, query, reg.EventID, reg.UserEmail, reg.Status, reg.AmountPaid,
			nullString(reg.PaymentID), reg.JoinedAt).Scan(&reg.ID)
		return storeErr("create registration", err)
	})
	return err
}

func (r *eventRegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userEmail string) (*domain.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE event_id = $1 AND user_email = $2`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, userEmail))
	if err != nil {
		return nil, storeErr("get registration", err)
	}
	return reg, nil
}

func (r *eventRegistrationRepository) ListByUser(ctx context.Context, userEmail string) ([]*domain.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE user_email = $1 ORDER BY joined_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userEmail)
	if err != nil {
		return nil, storeErr("list registrations", err)
	}
	defer rows.Close()

	regs := make([]*domain.EventRegistration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, storeErr("scan registration", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list registrations", err)
	}
	return regs, nil
}

func (r *eventRegistrationRepository) CountByEvent(ctx context.Context, eventID string, holdsSince time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM event_registrations
		WHERE event_id = $1 AND (status = 'registered' OR joined_at >= $2)
	`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, eventID, holdsSince).Scan(&n); err != nil {
		return 0, storeErr("count registrations", err)
	}
	return n, nil
}

func (r *eventRegistrationRepository) DeletePending(ctx context.Context, eventID, userEmail string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM event_registrations WHERE event_id = $1 AND user_email = $2 AND status = 'pending_payment'`,
		eventID, userEmail)
	return storeErr("release reservation", err)
}

func (r *eventRegistrationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_registrations WHERE status = 'registered'`).Scan(&n); err != nil {
		return 0, storeErr("count registrations", err)
	}
	return n, nil
}
