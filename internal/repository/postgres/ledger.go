package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clubhub/internal/domain"
)

type ledger struct {
	DB *sql.DB
}

// NewLedger returns a domain.Ledger that records a payment and the access it
// funds in a single transaction.
func NewLedger(db *sql.DB) domain.Ledger {
	return &ledger{DB: db}
}

func (l *ledger) RecordClubPayment(ctx context.Context, p *domain.Payment, m *domain.Membership) (bool, error) {
	var granted bool
	err := inTx(ctx, l.DB, func(tx *sql.Tx) error {
		if err := upsertPayment(ctx, tx, p); err != nil {
			return err
		}
		m.PaymentID = &p.ID
		query := `
			INSERT INTO club_memberships (user_email, club_id, status, joined_at, expires_at, payment_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_email, club_id) DO NOTHING
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, query, m.UserEmail, m.ClubID, m.Status, m.JoinedAt, m.ExpiresAt, p.ID).Scan(&m.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return storeErr("grant membership", err)
		}
		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}

// RecordEventPayment confirms a registration. A pending reservation for the
// same user is promoted in place; a confirmed one is left untouched.
func (l *ledger) RecordEventPayment(ctx context.Context, p *domain.Payment, reg *domain.EventRegistration) (bool, error) {
	var granted bool
	err := inTx(ctx, l.DB, func(tx *sql.Tx) error {
		if err := upsertPayment(ctx, tx, p); err != nil {
			return err
		}
		reg.PaymentID = &p.ID
		reg.Status = domain.RegistrationStatusRegistered
		query := `
			INSERT INTO event_registrations (event_id, user_email, status, amount_paid, payment_id, joined_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (event_id, user_email) DO UPDATE
				SET status = EXCLUDED.status, amount_paid = EXCLUDED.amount_paid, payment_id = EXCLUDED.payment_id
				WHERE event_registrations.status = 'pending_payment'
			RETURNING id, joined_at
		`
		err := tx.QueryRowContext(ctx, query, reg.EventID, reg.UserEmail, reg.Status, reg.AmountPaid, p.ID, reg.JoinedAt).
			Scan(&reg.ID, &reg.JoinedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return storeErr("grant registration", err)
		}
		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}

// upsertPayment inserts p, or adopts the existing row for the same gateway or
// settlement reference when it belongs to the same user and target.
func upsertPayment(ctx context.Context, tx *sql.Tx, p *domain.Payment) error {
	query := `
		INSERT INTO payments (user_email, type, club_id, event_id, amount, currency, gateway_reference, settlement_reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT DO NOTHING
		RETURNING id
	`
	err := tx.QueryRowContext(ctx, query, p.UserEmail, p.Type, nullString(p.ClubID), nullString(p.EventID),
		p.Amount, p.Currency, p.GatewayReference, nullString(p.SettlementReference), p.CreatedAt).Scan(&p.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return storeErr("record payment", err)
	}

	existing, err := scanPayment(tx.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE gateway_reference = $1 OR settlement_reference = $2`,
		p.GatewayReference, nullString(p.SettlementReference)))
	if err != nil {
		return storeErr("load payment", err)
	}
	if existing.UserEmail != p.UserEmail || existing.Type != p.Type ||
		derefString(existing.ClubID) != derefString(p.ClubID) || derefString(existing.EventID) != derefString(p.EventID) {
		return fmt.Errorf("payment %s is recorded for another user or target: %w", p.GatewayReference, domain.ErrForbidden)
	}
	*p = *existing
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
