package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the dashboard aggregate queries.
type Repository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountAccounts(ctx context.Context, kind string) (int64, error)
	CountStores(ctx context.Context) (int64, error)
	QuotationStatusCounts(ctx context.Context) (map[string]int64, error)
	PurchaseStatusCounts(ctx context.Context) (map[string]int64, error)
	CountLowStock(ctx context.Context, threshold int64) (int64, error)
	RecentMovements(ctx context.Context, limit int) ([]RecentMovement, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`)
}

func (r *repository) CountAccounts(ctx context.Context, kind string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE kind = $1 AND deleted_at IS NULL`, kind).Scan(&total)
	return total, err
}

func (r *repository) CountStores(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM stores WHERE deleted_at IS NULL`)
}

func (r *repository) QuotationStatusCounts(ctx context.Context) (map[string]int64, error) {
	return r.statusCounts(ctx, `SELECT status, COUNT(*) FROM quotations WHERE deleted_at IS NULL GROUP BY status`)
}

func (r *repository) PurchaseStatusCounts(ctx context.Context) (map[string]int64, error) {
	return r.statusCounts(ctx, `SELECT status, COUNT(*) FROM purchases WHERE deleted_at IS NULL GROUP BY status`)
}

func (r *repository) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE stock <= $1 AND deleted_at IS NULL`, threshold).Scan(&total)
	return total, err
}

func (r *repository) RecentMovements(ctx context.Context, limit int) ([]RecentMovement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.product_id, p.name, m.direction, m.quantity, COALESCE(m.note, ''), m.created_at
		FROM stock_movements m
		JOIN products p ON m.product_id = p.id
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []RecentMovement{}
	for rows.Next() {
		var m RecentMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.Direction, &m.Quantity, &m.Note, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func (r *repository) count(ctx context.Context, query string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, query).Scan(&total)
	return total, err
}

func (r *repository) statusCounts(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var status string
		var total int64
		if err := rows.Scan(&status, &total); err != nil {
			return nil, err
		}
		counts[status] = total
	}
	return counts, rows.Err()
}
