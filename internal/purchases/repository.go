package purchases

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artha-erp/artha/internal/platform/db"
	"github.com/artha-erp/artha/internal/shared"
)

// Repository persists purchases in PostgreSQL. WithTx yields a
// transaction-bound Repository together with the transaction executor so
// the stock ledger can share the same transaction.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Repository, ex db.Executor) error) error
	Create(ctx context.Context, purchase Purchase) (int64, error)
	InsertLine(ctx context.Context, line Line) (int64, error)
	Get(ctx context.Context, id int64) (*WithNames, error)
	GetForUpdate(ctx context.Context, id int64) (Purchase, error)
	GetLines(ctx context.Context, purchaseID int64) ([]Line, error)
	List(ctx context.Context, req ListRequest) ([]WithNames, int, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	SoftDelete(ctx context.Context, id int64) error
}

type repository struct {
	db   db.Executor
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context, tx Repository, ex db.Executor) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool}, tx)
	})
}

func (r *repository) Create(ctx context.Context, p Purchase) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO purchases (number, account_id, store_id, total_amount, discount_amount, grand_total, status, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING id`,
		p.Number, p.AccountID, p.StoreID, p.TotalAmount, p.DiscountAmount, p.GrandTotal, string(p.Status), p.Notes).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("purchase number %q: %w", p.Number, shared.ErrConflict)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) InsertLine(ctx context.Context, line Line) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO purchase_lines (purchase_id, product_id, quantity, unit_price, discount, subtotal, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		line.PurchaseID, line.ProductID, line.Quantity, line.UnitPrice, line.Discount, line.Subtotal, line.Notes).Scan(&id)
	return id, err
}

func (r *repository) Get(ctx context.Context, id int64) (*WithNames, error) {
	var p WithNames
	err := r.db.QueryRow(ctx, `
		SELECT p.id, p.number, p.account_id, p.store_id, p.total_amount, p.discount_amount, p.grand_total,
		       p.status, COALESCE(p.notes, ''), p.created_at, p.updated_at,
		       a.name AS account_name, s.name AS store_name
		FROM purchases p
		JOIN accounts a ON p.account_id = a.id
		LEFT JOIN stores s ON p.store_id = s.id
		WHERE p.id = $1 AND p.deleted_at IS NULL`, id).
		Scan(&p.ID, &p.Number, &p.AccountID, &p.StoreID, &p.TotalAmount, &p.DiscountAmount, &p.GrandTotal,
			&p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt, &p.AccountName, &p.StoreName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase %d: %w", id, shared.ErrNotFound)
		}
		return nil, err
	}

	lines, err := r.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Lines = lines
	return &p, nil
}

func (r *repository) GetForUpdate(ctx context.Context, id int64) (Purchase, error) {
	var p Purchase
	err := r.db.QueryRow(ctx, `SELECT id, number, account_id, store_id, total_amount, discount_amount, grand_total, status, COALESCE(notes, ''), created_at, updated_at
FROM purchases WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id).
		Scan(&p.ID, &p.Number, &p.AccountID, &p.StoreID, &p.TotalAmount, &p.DiscountAmount, &p.GrandTotal,
			&p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Purchase{}, fmt.Errorf("purchase %d: %w", id, shared.ErrNotFound)
		}
		return Purchase{}, err
	}
	return p, nil
}

func (r *repository) GetLines(ctx context.Context, purchaseID int64) ([]Line, error) {
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.purchase_id, l.product_id, p.name, l.quantity, l.unit_price, l.discount, l.subtotal, COALESCE(l.notes, '')
		FROM purchase_lines l
		JOIN products p ON l.product_id = p.id
		WHERE l.purchase_id = $1
		ORDER BY l.id ASC`, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.PurchaseID, &line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPrice, &line.Discount, &line.Subtotal, &line.Notes); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

var sortColumns = map[string]string{
	"number":      "p.number",
	"status":      "p.status",
	"grand_total": "p.grand_total",
	"created_at":  "p.created_at",
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]WithNames, int, error) {
	where := "WHERE p.deleted_at IS NULL"
	args := []any{}
	argPos := 1

	if req.Status != nil {
		where += fmt.Sprintf(" AND p.status = $%d", argPos)
		args = append(args, string(*req.Status))
		argPos++
	}
	if req.Search != "" {
		where += fmt.Sprintf(" AND (p.number ILIKE $%d OR a.name ILIKE $%d OR s.name ILIKE $%d)", argPos, argPos, argPos)
		args = append(args, "%"+req.Search+"%")
		argPos++
	}

	joins := `FROM purchases p
		JOIN accounts a ON p.account_id = a.id
		LEFT JOIN stores s ON p.store_id = s.id`

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) %s %s", joins, where), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortBy, ok := sortColumns[req.SortBy]
	if !ok {
		sortBy = "p.created_at"
	}
	sortDir := "DESC"
	if req.SortOrder == "asc" {
		sortDir = "ASC"
	}

	page := shared.NewPagination(req.Page, req.Limit, total)
	query := fmt.Sprintf(`
		SELECT p.id, p.number, p.account_id, p.store_id, p.total_amount, p.discount_amount, p.grand_total,
		       p.status, COALESCE(p.notes, ''), p.created_at, p.updated_at,
		       a.name AS account_name, s.name AS store_name
		%s %s
		ORDER BY %s %s, p.id DESC
		LIMIT $%d OFFSET $%d`, joins, where, sortBy, sortDir, argPos, argPos+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	purchases := []WithNames{}
	for rows.Next() {
		var p WithNames
		if err := rows.Scan(&p.ID, &p.Number, &p.AccountID, &p.StoreID, &p.TotalAmount, &p.DiscountAmount, &p.GrandTotal,
			&p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt, &p.AccountName, &p.StoreName); err != nil {
			return nil, 0, err
		}
		purchases = append(purchases, p)
	}
	return purchases, total, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE purchases SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE purchases SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase %d: %w", id, shared.ErrNotFound)
	}
	return nil
}
