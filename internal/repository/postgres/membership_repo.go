package postgres

import (
	"context"
	"database/sql"

	"clubhub/internal/domain"
)

type membershipRepository struct {
	DB *sql.DB
}

func NewMembershipRepository(db *sql.DB) domain.MembershipRepository {
	return &membershipRepository{DB: db}
}

const membershipColumns = `id, user_email, club_id, status, joined_at, expires_at, payment_id`

func scanMembership(row interface{ Scan(...any) error }) (*domain.Membership, error) {
	m := &domain.Membership{}
	var expires sql.NullTime
	var paymentID sql.NullString
	if err := row.Scan(&m.ID, &m.UserEmail, &m.ClubID, &m.Status, &m.JoinedAt, &expires, &paymentID); err != nil {
		return nil, err
	}
	m.ExpiresAt = timePtr(expires)
	m.PaymentID = stringPtr(paymentID)
	return m, nil
}

// Create inserts a membership. An existing (user, club) pair yields ErrAlreadyExists.
func (r *membershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	query := `
		INSERT INTO club_memberships (user_email, club_id, status, joined_at, expires_at, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, m.UserEmail, m.ClubID, m.Status, m.JoinedAt, m.ExpiresAt, nullString(m.PaymentID)).Scan(&m.ID)
	return storeErr("create membership", err)
}

func (r *membershipRepository) GetByUserAndClub(ctx context.Context, userEmail, clubID string) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM club_memberships WHERE user_email = $1 AND club_id = $2`
	m, err := scanMembership(r.DB.QueryRowContext(ctx, query, userEmail, clubID))
	if err != nil {
		return nil, storeErr("get membership", err)
	}
	return m, nil
}

func (r *membershipRepository) ListByUser(ctx context.Context, userEmail string) ([]*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM club_memberships WHERE user_email = $1 ORDER BY joined_at DESC`
	return r.list(ctx, query, userEmail)
}

func (r *membershipRepository) ListByClub(ctx context.Context, clubID string) ([]*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM club_memberships WHERE club_id = $1 ORDER BY joined_at ASC`
	return r.list(ctx, query, clubID)
}

func (r *membershipRepository) list(ctx context.Context, query string, arg string) ([]*domain.Membership, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, storeErr("list memberships", err)
	}
	defer rows.Close()
	out := make([]*domain.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, storeErr("scan membership", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list memberships", err)
	}
	return out, nil
}

func (r *membershipRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM club_memberships`).Scan(&n); err != nil {
		return 0, storeErr("count memberships", err)
	}
	return n, nil
}
