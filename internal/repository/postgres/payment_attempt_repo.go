package postgres

import (
	"context"
	"database/sql"

	"clubhub/internal/domain"
)

type paymentAttemptRepository struct {
	DB *sql.DB
}

func NewPaymentAttemptRepository(db *sql.DB) domain.PaymentAttemptRepository {
	return &paymentAttemptRepository{DB: db}
}

func (r *paymentAttemptRepository) Create(ctx context.Context, a *domain.PaymentAttempt) error {
	query := `
		INSERT INTO payment_attempts (reference, user_email, type, target_id, amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query, a.Reference, a.UserEmail, a.Type, a.TargetID, a.Amount, a.Currency, a.CreatedAt)
	return storeErr("create payment attempt", err)
}

func (r *paymentAttemptRepository) GetByReference(ctx context.Context, reference string) (*domain.PaymentAttempt, error) {
	query := `
		SELECT reference, user_email, type, target_id, amount, currency, created_at
		FROM payment_attempts WHERE reference = $1
	`
	a := &domain.PaymentAttempt{}
	err := r.DB.QueryRowContext(ctx, query, reference).
		Scan(&a.Reference, &a.UserEmail, &a.Type, &a.TargetID, &a.Amount, &a.Currency, &a.CreatedAt)
	if err != nil {
		return nil, storeErr("get payment attempt", err)
	}
	return a, nil
}
