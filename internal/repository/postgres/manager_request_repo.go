package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clubhub/internal/domain"
)

type managerRequestRepository struct {
	DB *sql.DB
}

func NewManagerRequestRepository(db *sql.DB) domain.ManagerRequestRepository {
	return &managerRequestRepository{DB: db}
}

const managerRequestColumns = `id, email, name, status, created_at`

func scanManagerRequest(row interface{ Scan(...any) error }) (*domain.ManagerRequest, error) {
	req := &domain.ManagerRequest{}
	if err := row.Scan(&req.ID, &req.Email, &req.Name, &req.Status, &req.CreatedAt); err != nil {
		return nil, err
	}
	return req, nil
}

// Create stores a new request. A pending request for the same email yields ErrAlreadyExists.
func (r *managerRequestRepository) Create(ctx context.Context, req *domain.ManagerRequest) error {
	query := `
		INSERT INTO manager_requests (email, name, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, req.Email, req.Name, req.Status, req.CreatedAt).Scan(&req.ID)
	return storeErr("create manager request", err)
}

func (r *managerRequestRepository) GetByID(ctx context.Context, id string) (*domain.ManagerRequest, error) {
	query := `SELECT ` + managerRequestColumns + ` FROM manager_requests WHERE id = $1`
	req, err := scanManagerRequest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeErr("get manager request", err)
	}
	return req, nil
}

func (r *managerRequestRepository) GetPendingByEmail(ctx context.Context, email string) (*domain.ManagerRequest, error) {
	query := `SELECT ` + managerRequestColumns + ` FROM manager_requests WHERE email = $1 AND status = 'pending'`
	req, err := scanManagerRequest(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, storeErr("get pending manager request", err)
	}
	return req, nil
}

// ListByStatus lists requests oldest first. An empty status lists all.
func (r *managerRequestRepository) ListByStatus(ctx context.Context, status domain.ManagerRequestStatus) ([]*domain.ManagerRequest, error) {
	query := `SELECT ` + managerRequestColumns + ` FROM manager_requests`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list manager requests", err)
	}
	defer rows.Close()
	out := make([]*domain.ManagerRequest, 0)
	for rows.Next() {
		req, err := scanManagerRequest(rows)
		if err != nil {
			return nil, storeErr("scan manager request", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list manager requests", err)
	}
	return out, nil
}

// Resolve moves a pending request to status. A request that is no longer
// pending yields ErrInvalidState.
func (r *managerRequestRepository) Resolve(ctx context.Context, id string, status domain.ManagerRequestStatus) (*domain.ManagerRequest, error) {
	query := `
		UPDATE manager_requests SET status = $1
		WHERE id = $2 AND status = 'pending'
		RETURNING ` + managerRequestColumns
	req, err := scanManagerRequest(r.DB.QueryRowContext(ctx, query, status, id))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeErr("resolve manager request", err)
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("manager request already resolved: %w", domain.ErrInvalidState)
}
