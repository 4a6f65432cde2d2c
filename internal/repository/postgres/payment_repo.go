package postgres

import (
	"context"
	"database/sql"

	"clubhub/internal/domain"
)

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) domain.PaymentRepository {
	return &paymentRepository{DB: db}
}

const paymentColumns = `id, user_email, type, club_id, event_id, amount, currency, gateway_reference, settlement_reference, created_at`

func scanPayment(row interface{ Scan(...any) error }) (*domain.Payment, error) {
	p := &domain.Payment{}
	var clubID, eventID, settlement sql.NullString
	if err := row.Scan(&p.ID, &p.UserEmail, &p.Type, &clubID, &eventID, &p.Amount, &p.Currency,
		&p.GatewayReference, &settlement, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.ClubID = stringPtr(clubID)
	p.EventID = stringPtr(eventID)
	p.SettlementReference = stringPtr(settlement)
	return p, nil
}

func (r *paymentRepository) GetByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_reference = $1 OR settlement_reference = $1`
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, reference))
	if err != nil {
		return nil, storeErr("get payment", err)
	}
	return p, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userEmail string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_email = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userEmail)
}

// ListUngranted finds payments whose access record is missing: club payments
// without a membership, event payments without a confirmed registration.
func (r *paymentRepository) ListUngranted(ctx context.Context) ([]*domain.Payment, error) {
	query := `
		SELECT p.id, p.user_email, p.type, p.club_id, p.event_id, p.amount, p.currency,
		       p.gateway_reference, p.settlement_reference, p.created_at
		FROM payments p
		WHERE (p.type = 'club' AND NOT EXISTS (
				SELECT 1 FROM club_memberships m
				WHERE m.user_email = p.user_email AND m.club_id = p.club_id))
		   OR (p.type = 'event' AND NOT EXISTS (
				SELECT 1 FROM event_registrations er
				WHERE er.user_email = p.user_email AND er.event_id = p.event_id AND er.status = 'registered'))
		ORDER BY p.created_at ASC
	`
	return r.list(ctx, query)
}

func (r *paymentRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list payments", err)
	}
	defer rows.Close()
	out := make([]*domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, storeErr("scan payment", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list payments", err)
	}
	return out, nil
}

func (r *paymentRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&n); err != nil {
		return 0, storeErr("count payments", err)
	}
	return n, nil
}

func (r *paymentRepository) Revenue(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments`).Scan(&total); err != nil {
		return 0, storeErr("sum payments", err)
	}
	return total, nil
}
