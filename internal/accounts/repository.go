package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artha-erp/artha/internal/platform/db"
	"github.com/artha-erp/artha/internal/shared"
)

// Repository persists accounts in PostgreSQL.
type Repository interface {
	List(ctx context.Context, req ListRequest) ([]Account, int, error)
	Get(ctx context.Context, id int64) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	Update(ctx context.Context, id int64, account Account) error
	SoftDelete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Account, int, error) {
	where := "WHERE deleted_at IS NULL"
	args := []any{}
	argPos := 1

	if req.Kind != nil {
		where += fmt.Sprintf(" AND kind = $%d", argPos)
		args = append(args, string(*req.Kind))
		argPos++
	}
	if req.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+req.Search+"%")
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM accounts "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := shared.NewPagination(req.Page, req.Limit, total)
	query := fmt.Sprintf(`SELECT id, kind, name, email, COALESCE(phone, ''), COALESCE(address, ''), created_at, updated_at
FROM accounts %s ORDER BY name ASC LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Kind, &a.Name, &a.Email, &a.Phone, &a.Address, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, a)
	}
	return accounts, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Account, error) {
	var a Account
	err := r.pool.QueryRow(ctx, `SELECT id, kind, name, email, COALESCE(phone, ''), COALESCE(address, ''), created_at, updated_at
FROM accounts WHERE id = $1 AND deleted_at IS NULL`, id).
		Scan(&a.ID, &a.Kind, &a.Name, &a.Email, &a.Phone, &a.Address, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, fmt.Errorf("account %d: %w", id, shared.ErrNotFound)
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, account Account) (Account, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO accounts (kind, name, email, phone, address, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		string(account.Kind), account.Name, account.Email, account.Phone, account.Address).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Account{}, fmt.Errorf("account email %q: %w", account.Email, shared.ErrConflict)
		}
		return Account{}, err
	}
	return account, nil
}

func (r *repository) Update(ctx context.Context, id int64, account Account) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET name = $1, email = $2, phone = $3, address = $4, updated_at = NOW()
WHERE id = $5 AND deleted_at IS NULL`, account.Name, account.Email, account.Phone, account.Address, id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("account email %q: %w", account.Email, shared.ErrConflict)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", id, shared.ErrNotFound)
	}
	return nil
}
