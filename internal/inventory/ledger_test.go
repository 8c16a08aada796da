package inventory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/artha-erp/artha/internal/shared"
)

type fakeProduct struct {
	name  string
	stock int64
}

// stockExecutor answers the ledger's queries from an in-memory product map.
type stockExecutor struct {
	products   map[int64]*fakeProduct
	nextMoveID int64
	inserted   int
}

type fakeRow struct {
	err    error
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch target := d.(type) {
		case *string:
			*target = r.values[i].(string)
		case *int64:
			*target = r.values[i].(int64)
		case *time.Time:
			*target = r.values[i].(time.Time)
		}
	}
	return nil
}

func (e *stockExecutor) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if strings.HasPrefix(sql, "SELECT name, stock") {
		product, ok := e.products[args[0].(int64)]
		if !ok {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{values: []any{product.name, product.stock}}
	}
	if strings.HasPrefix(sql, "INSERT INTO stock_movements") {
		e.nextMoveID++
		e.inserted++
		return fakeRow{values: []any{e.nextMoveID, time.Now()}}
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func (e *stockExecutor) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if strings.HasPrefix(sql, "UPDATE products SET stock") {
		e.products[args[1].(int64)].stock = args[0].(int64)
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (e *stockExecutor) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func newExecutor() *stockExecutor {
	return &stockExecutor{products: map[int64]*fakeProduct{
		10: {name: "Widget", stock: 8},
		11: {name: "Gadget", stock: 2},
	}}
}

func TestApplyInboundIncrementsStock(t *testing.T) {
	ex := newExecutor()
	ledger := NewLedger()

	movement, err := ledger.Apply(context.Background(), ex, MovementInput{ProductID: 10, Direction: DirectionIn, Quantity: 5})
	require.NoError(t, err)
	require.EqualValues(t, 13, ex.products[10].stock)
	require.Equal(t, 1, ex.inserted)
	require.NotZero(t, movement.ID)
}

func TestApplyOutboundDecrementsStock(t *testing.T) {
	ex := newExecutor()
	ledger := NewLedger()

	_, err := ledger.Apply(context.Background(), ex, MovementInput{ProductID: 10, Direction: DirectionOut, Quantity: 8})
	require.NoError(t, err)
	require.EqualValues(t, 0, ex.products[10].stock)
}

func TestApplyRejectsNegativeResult(t *testing.T) {
	ex := newExecutor()
	ledger := NewLedger()

	_, err := ledger.Apply(context.Background(), ex, MovementInput{ProductID: 11, Direction: DirectionOut, Quantity: 3})
	var stockErr *shared.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Items, 1)
	require.Equal(t, "Gadget", stockErr.Items[0].ProductName)
	require.EqualValues(t, 2, stockErr.Items[0].Available)
	require.EqualValues(t, 3, stockErr.Items[0].Requested)

	// Neither the counter nor the movement log changed.
	require.EqualValues(t, 2, ex.products[11].stock)
	require.Zero(t, ex.inserted)
}

func TestApplyValidatesInput(t *testing.T) {
	ex := newExecutor()
	ledger := NewLedger()

	_, err := ledger.Apply(context.Background(), ex, MovementInput{ProductID: 10, Direction: Direction("sideways"), Quantity: 1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = ledger.Apply(context.Background(), ex, MovementInput{ProductID: 10, Direction: DirectionIn, Quantity: 0})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestApplyUnknownProduct(t *testing.T) {
	ex := newExecutor()
	ledger := NewLedger()

	_, err := ledger.Apply(context.Background(), ex, MovementInput{ProductID: 404, Direction: DirectionIn, Quantity: 1})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCheckAvailabilityEnumeratesShortfalls(t *testing.T) {
	ex := newExecutor()
	ledger := NewLedger()

	short, err := ledger.CheckAvailability(context.Background(), ex, []StockRequirement{
		{ProductID: 10, Quantity: 9},
		{ProductID: 11, Quantity: 5},
	})
	require.NoError(t, err)
	require.Len(t, short, 2)
	require.EqualValues(t, 10, short[0].ProductID)
	require.EqualValues(t, 11, short[1].ProductID)
}

func TestCheckAvailabilityMergesDuplicateLines(t *testing.T) {
	ex := newExecutor()
	ledger := NewLedger()

	// 5 + 4 together exceed the 8 on hand even though each line alone fits.
	short, err := ledger.CheckAvailability(context.Background(), ex, []StockRequirement{
		{ProductID: 10, Quantity: 5},
		{ProductID: 10, Quantity: 4},
	})
	require.NoError(t, err)
	require.Len(t, short, 1)
	require.EqualValues(t, 9, short[0].Requested)
	require.EqualValues(t, 8, short[0].Available)
}

func TestCheckAvailabilityAllCovered(t *testing.T) {
	ex := newExecutor()
	ledger := NewLedger()

	short, err := ledger.CheckAvailability(context.Background(), ex, []StockRequirement{
		{ProductID: 10, Quantity: 8},
		{ProductID: 11, Quantity: 2},
	})
	require.NoError(t, err)
	require.Empty(t, short)
}
