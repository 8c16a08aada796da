package inventory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artha-erp/artha/internal/shared"
)

// Repository serves the movement read API. Writes go through the Ledger.
type Repository interface {
	List(ctx context.Context, req ListMovementsRequest) ([]MovementWithProduct, int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, req ListMovementsRequest) ([]MovementWithProduct, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	argPos := 1

	if req.ProductID != nil {
		where += fmt.Sprintf(" AND m.product_id = $%d", argPos)
		args = append(args, *req.ProductID)
		argPos++
	}
	if req.Direction != nil {
		where += fmt.Sprintf(" AND m.direction = $%d", argPos)
		args = append(args, string(*req.Direction))
		argPos++
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM stock_movements m %s", where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := shared.NewPagination(req.Page, req.Limit, total)
	query := fmt.Sprintf(`
		SELECT m.id, m.product_id, m.direction, m.quantity, m.note, m.account_id, m.store_id, COALESCE(m.ref_id::text, ''), m.created_at,
		       p.name AS product_name
		FROM stock_movements m
		JOIN products p ON m.product_id = p.id
		%s
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	movements := []MovementWithProduct{}
	for rows.Next() {
		var m MovementWithProduct
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Direction, &m.Quantity, &m.Note, &m.AccountID, &m.StoreID, &m.RefID, &m.CreatedAt, &m.ProductName); err != nil {
			return nil, 0, err
		}
		movements = append(movements, m)
	}
	return movements, total, rows.Err()
}
