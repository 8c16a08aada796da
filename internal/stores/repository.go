package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artha-erp/artha/internal/shared"
)

// Repository persists stores in PostgreSQL.
type Repository interface {
	List(ctx context.Context, req ListRequest) ([]Store, int, error)
	Get(ctx context.Context, id int64) (Store, error)
	Create(ctx context.Context, store Store) (Store, error)
	Update(ctx context.Context, id int64, store Store) error
	SoftDelete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Store, int, error) {
	where := "WHERE deleted_at IS NULL"
	args := []any{}
	argPos := 1

	if req.Search != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+req.Search+"%")
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM stores "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := shared.NewPagination(req.Page, req.Limit, total)
	query := fmt.Sprintf(`SELECT id, name, COALESCE(address, ''), COALESCE(phone, ''), created_at, updated_at
FROM stores %s ORDER BY name ASC LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	stores := []Store{}
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		stores = append(stores, s)
	}
	return stores, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Store, error) {
	var s Store
	err := r.pool.QueryRow(ctx, `SELECT id, name, COALESCE(address, ''), COALESCE(phone, ''), created_at, updated_at
FROM stores WHERE id = $1 AND deleted_at IS NULL`, id).
		Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Store{}, fmt.Errorf("store %d: %w", id, shared.ErrNotFound)
		}
		return Store{}, err
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, store Store) (Store, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO stores (name, address, phone, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		store.Name, store.Address, store.Phone).
		Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return Store{}, err
	}
	return store, nil
}

func (r *repository) Update(ctx context.Context, id int64, store Store) error {
	tag, err := r.pool.Exec(ctx, `UPDATE stores SET name = $1, address = $2, phone = $3, updated_at = NOW()
WHERE id = $4 AND deleted_at IS NULL`, store.Name, store.Address, store.Phone, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE stores SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store %d: %w", id, shared.ErrNotFound)
	}
	return nil
}
