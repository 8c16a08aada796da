package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/artha-erp/artha/internal/platform/db"
	"github.com/artha-erp/artha/internal/shared"
)

// Ledger is the only component permitted to mutate product stock. Every
// mutation updates the product counter and inserts a movement row against
// the same executor, so both land in the caller's transaction or neither
// does.
type Ledger struct{}

// NewLedger constructs a Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Apply reads the product's stock under a row lock, enforces non-negative
// stock for outbound movements, writes the new counter and records one
// movement row. The caller supplies the transaction-bound executor.
func (l *Ledger) Apply(ctx context.Context, ex db.Executor, input MovementInput) (Movement, error) {
	if !input.Direction.Valid() {
		return Movement{}, fmt.Errorf("%w: unknown movement direction %q", shared.ErrValidation, input.Direction)
	}
	if input.Quantity <= 0 {
		return Movement{}, fmt.Errorf("%w: movement quantity must be positive", shared.ErrValidation)
	}

	var name string
	var stock int64
	err := ex.QueryRow(ctx, `SELECT name, stock FROM products WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, input.ProductID).Scan(&name, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Movement{}, fmt.Errorf("product %d: %w", input.ProductID, shared.ErrNotFound)
		}
		return Movement{}, fmt.Errorf("inventory: read stock: %w", err)
	}

	newStock := stock + input.Quantity
	if input.Direction == DirectionOut {
		if input.Quantity > stock {
			return Movement{}, &shared.InsufficientStockError{Items: []shared.StockShortfall{{
				ProductID:   input.ProductID,
				ProductName: name,
				Available:   stock,
				Requested:   input.Quantity,
			}}}
		}
		newStock = stock - input.Quantity
	}

	if _, err := ex.Exec(ctx, `UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2`, newStock, input.ProductID); err != nil {
		return Movement{}, fmt.Errorf("inventory: update stock: %w", err)
	}

	movement := Movement{
		ProductID: input.ProductID,
		Direction: input.Direction,
		Quantity:  input.Quantity,
		Note:      input.Note,
		AccountID: input.AccountID,
		StoreID:   input.StoreID,
		RefID:     input.RefID,
	}
	err = ex.QueryRow(ctx, `INSERT INTO stock_movements (product_id, direction, quantity, note, account_id, store_id, ref_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING id, created_at`,
		input.ProductID, string(input.Direction), input.Quantity, input.Note, input.AccountID, input.StoreID, nullString(input.RefID)).
		Scan(&movement.ID, &movement.CreatedAt)
	if err != nil {
		return Movement{}, fmt.Errorf("inventory: insert movement: %w", err)
	}
	return movement, nil
}

// CheckAvailability locks every requested product and returns the shortfall
// for each one whose stock cannot cover the requested quantity. Requirements
// are locked in product-id order so concurrent checks cannot deadlock.
func (l *Ledger) CheckAvailability(ctx context.Context, ex db.Executor, reqs []StockRequirement) ([]shared.StockShortfall, error) {
	merged := mergeRequirements(reqs)

	var short []shared.StockShortfall
	for _, req := range merged {
		var name string
		var stock int64
		err := ex.QueryRow(ctx, `SELECT name, stock FROM products WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, req.ProductID).Scan(&name, &stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("product %d: %w", req.ProductID, shared.ErrNotFound)
			}
			return nil, fmt.Errorf("inventory: read stock: %w", err)
		}
		if req.Quantity > stock {
			short = append(short, shared.StockShortfall{
				ProductID:   req.ProductID,
				ProductName: name,
				Available:   stock,
				Requested:   req.Quantity,
			})
		}
	}
	return short, nil
}

// mergeRequirements sums duplicate product lines and orders by product id.
func mergeRequirements(reqs []StockRequirement) []StockRequirement {
	byProduct := make(map[int64]int64, len(reqs))
	for _, req := range reqs {
		byProduct[req.ProductID] += req.Quantity
	}
	merged := make([]StockRequirement, 0, len(byProduct))
	for id, qty := range byProduct {
		merged = append(merged, StockRequirement{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
