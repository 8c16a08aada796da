package quotations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artha-erp/artha/internal/platform/db"
	"github.com/artha-erp/artha/internal/shared"
)

// Repository persists quotations in PostgreSQL. WithTx yields a
// transaction-bound Repository together with the transaction executor so
// the stock ledger can share the same transaction.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Repository, ex db.Executor) error) error
	Create(ctx context.Context, quotation Quotation) (int64, error)
	InsertLine(ctx context.Context, line Line) (int64, error)
	Get(ctx context.Context, id int64) (*WithNames, error)
	GetForUpdate(ctx context.Context, id int64) (Quotation, error)
	GetLines(ctx context.Context, quotationID int64) ([]Line, error)
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

func (r *repository) Create(ctx context.Context, q Quotation) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO quotations (number, account_id, store_id, total_amount, discount_amount, grand_total, status, notes, valid_until, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()) RETURNING id`,
		q.Number, q.AccountID, q.StoreID, q.TotalAmount, q.DiscountAmount, q.GrandTotal, string(q.Status), q.Notes, q.ValidUntil).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("quotation number %q: %w", q.Number, shared.ErrConflict)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) InsertLine(ctx context.Context, line Line) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO quotation_lines (quotation_id, product_id, quantity, unit_price, discount, subtotal, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		line.QuotationID, line.ProductID, line.Quantity, line.UnitPrice, line.Discount, line.Subtotal, line.Notes).Scan(&id)
	return id, err
}

func (r *repository) Get(ctx context.Context, id int64) (*WithNames, error) {
	var q WithNames
	err := r.db.QueryRow(ctx, `
		SELECT q.id, q.number, q.account_id, q.store_id, q.total_amount, q.discount_amount, q.grand_total,
		       q.status, COALESCE(q.notes, ''), q.valid_until, q.created_at, q.updated_at,
		       a.name AS account_name, s.name AS store_name
		FROM quotations q
		JOIN accounts a ON q.account_id = a.id
		LEFT JOIN stores s ON q.store_id = s.id
		WHERE q.id = $1 AND q.deleted_at IS NULL`, id).
		Scan(&q.ID, &q.Number, &q.AccountID, &q.StoreID, &q.TotalAmount, &q.DiscountAmount, &q.GrandTotal,
			&q.Status, &q.Notes, &q.ValidUntil, &q.CreatedAt, &q.UpdatedAt, &q.AccountName, &q.StoreName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quotation %d: %w", id, shared.ErrNotFound)
		}
		return nil, err
	}

	lines, err := r.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Lines = lines
	return &q, nil
}

func (r *repository) GetForUpdate(ctx context.Context, id int64) (Quotation, error) {
	var q Quotation
	err := r.db.QueryRow(ctx, `SELECT id, number, account_id, store_id, total_amount, discount_amount, grand_total, status, COALESCE(notes, ''), valid_until, created_at, updated_at
FROM quotations WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id).
		Scan(&q.ID, &q.Number, &q.AccountID, &q.StoreID, &q.TotalAmount, &q.DiscountAmount, &q.GrandTotal,
			&q.Status, &q.Notes, &q.ValidUntil, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quotation{}, fmt.Errorf("quotation %d: %w", id, shared.ErrNotFound)
		}
		return Quotation{}, err
	}
	return q, nil
}

func (r *repository) GetLines(ctx context.Context, quotationID int64) ([]Line, error) {
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.quotation_id, l.product_id, p.name, l.quantity, l.unit_price, l.discount, l.subtotal, COALESCE(l.notes, '')
		FROM quotation_lines l
		JOIN products p ON l.product_id = p.id
		WHERE l.quotation_id = $1
		ORDER BY l.id ASC`, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.QuotationID, &line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPrice, &line.Discount, &line.Subtotal, &line.Notes); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

var sortColumns = map[string]string{
	"number":      "q.number",
	"status":      "q.status",
	"grand_total": "q.grand_total",
	"created_at":  "q.created_at",
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]WithNames, int, error) {
	where := "WHERE q.deleted_at IS NULL"
	args := []any{}
	argPos := 1

	if req.Status != nil {
		where += fmt.Sprintf(" AND q.status = $%d", argPos)
		args = append(args, string(*req.Status))
		argPos++
	}
	if req.Search != "" {
		where += fmt.Sprintf(" AND (q.number ILIKE $%d OR a.name ILIKE $%d OR s.name ILIKE $%d)", argPos, argPos, argPos)
		args = append(args, "%"+req.Search+"%")
		argPos++
	}

	joins := `FROM quotations q
		JOIN accounts a ON q.account_id = a.id
		LEFT JOIN stores s ON q.store_id = s.id`

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) %s %s", joins, where), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortBy, ok := sortColumns[req.SortBy]
	if !ok {
		sortBy = "q.created_at"
	}
	sortDir := "DESC"
	if req.SortOrder == "asc" {
		sortDir = "ASC"
	}

	page := shared.NewPagination(req.Page, req.Limit, total)
	query := fmt.Sprintf(`
		SELECT q.id, q.number, q.account_id, q.store_id, q.total_amount, q.discount_amount, q.grand_total,
		       q.status, COALESCE(q.notes, ''), q.valid_until, q.created_at, q.updated_at,
		       a.name AS account_name, s.name AS store_name
		%s %s
		ORDER BY %s %s, q.id DESC
		LIMIT $%d OFFSET $%d`, joins, where, sortBy, sortDir, argPos, argPos+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	quotations := []WithNames{}
	for rows.Next() {
		var q WithNames
		if err := rows.Scan(&q.ID, &q.Number, &q.AccountID, &q.StoreID, &q.TotalAmount, &q.DiscountAmount, &q.GrandTotal,
			&q.Status, &q.Notes, &q.ValidUntil, &q.CreatedAt, &q.UpdatedAt, &q.AccountName, &q.StoreName); err != nil {
			return nil, 0, err
		}
		quotations = append(quotations, q)
	}
	return quotations, total, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE quotations SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE quotations SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation %d: %w", id, shared.ErrNotFound)
	}
	return nil
}
