package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"clubhub/internal/domain"
)

type clubRepository struct {
	DB *sql.DB
}

func NewClubRepository(db *sql.DB) domain.ClubRepository {
	return &clubRepository{DB: db}
}

const clubColumns = `id, name, description, category, location, banner_url, membership_fee, status, manager_email, created_at, updated_at`

func scanClub(row interface{ Scan(...any) error }) (*domain.Club, error) {
	c := &domain.Club{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Category, &c.Location, &c.BannerURL,
		&c.MembershipFee, &c.Status, &c.ManagerEmail, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *clubRepository) Create(ctx context.Context, c *domain.Club) error {
	query := `
		INSERT INTO clubs (name, description, category, location, banner_url, membership_fee, status, manager_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.Name, c.Description, c.Category, c.Location, c.BannerURL,
		c.MembershipFee, c.Status, c.ManagerEmail, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	return storeErr("create club", err)
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`
	c, err := scanClub(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeErr("get club", err)
	}
	return c, nil
}

// List filters by status, manager, category and a case-insensitive search over
// name and description. Results are newest first.
func (r *clubRepository) List(ctx context.Context, f domain.ClubFilter) ([]*domain.Club, int, error) {
	var where []string
	var args []any
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.ManagerEmail != "" {
		add("manager_email = $%d", f.ManagerEmail)
	}
	if f.Category != "" {
		add("LOWER(category) = LOWER($%d)", f.Category)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM clubs`+cond, args...).Scan(&total); err != nil {
		return nil, 0, storeErr("count clubs", err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM clubs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, clubColumns, cond, n+1, n+2)
	rows, err := r.DB.QueryContext(ctx, query, append(args, f.Pagination.Limit(), f.Pagination.Offset())...)
	if err != nil {
		return nil, 0, storeErr("list clubs", err)
	}
	defer rows.Close()
	clubs := make([]*domain.Club, 0)
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, 0, storeErr("scan club", err)
		}
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("list clubs", err)
	}
	return clubs, total, nil
}

// UpdateStatus moves a club from one status to another. A club that is not
// currently in from yields ErrInvalidState.
func (r *clubRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ClubStatus) (*domain.Club, error) {
	query := `
		UPDATE clubs SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + clubColumns
	c, err := scanClub(r.DB.QueryRowContext(ctx, query, to, id, from))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeErr("update club status", err)
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("club is not %s: %w", from, domain.ErrInvalidState)
}

func (r *clubRepository) CountByStatus(ctx context.Context) (map[domain.ClubStatus]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM clubs GROUP BY status`)
	if err != nil {
		return nil, storeErr("count clubs", err)
	}
	defer rows.Close()
	counts := map[domain.ClubStatus]int{
		domain.ClubStatusPending:  0,
		domain.ClubStatusApproved: 0,
		domain.ClubStatusRejected: 0,
	}
	for rows.Next() {
		var status domain.ClubStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, storeErr("scan club count", err)
		}
		counts[status] = n
	}
	return counts, storeErr("count clubs", rows.Err())
}
