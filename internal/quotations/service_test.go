package quotations

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/artha-erp/artha/internal/accounts"
	"github.com/artha-erp/artha/internal/inventory"
	"github.com/artha-erp/artha/internal/platform/db"
	"github.com/artha-erp/artha/internal/shared"
)

type memoryRepo struct {
	quotations map[int64]*Quotation
	lines      map[int64][]Line
	deleted    map[int64]bool
	nextID     int64
	nextLineID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		quotations: make(map[int64]*Quotation),
		lines:      make(map[int64][]Line),
		deleted:    make(map[int64]bool),
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository, db.Executor) error) error {
	return fn(ctx, r, nil)
}

func (r *memoryRepo) Create(ctx context.Context, q Quotation) (int64, error) {
	for _, existing := range r.quotations {
		if existing.Number == q.Number {
			return 0, fmt.Errorf("quotation number %q: %w", q.Number, shared.ErrConflict)
		}
	}
	r.nextID++
	q.ID = r.nextID
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	r.quotations[q.ID] = &q
	return q.ID, nil
}

func (r *memoryRepo) InsertLine(ctx context.Context, line Line) (int64, error) {
	r.nextLineID++
	line.ID = r.nextLineID
	r.lines[line.QuotationID] = append(r.lines[line.QuotationID], line)
	return line.ID, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*WithNames, error) {
	q, ok := r.quotations[id]
	if !ok || r.deleted[id] {
		return nil, fmt.Errorf("quotation %d: %w", id, shared.ErrNotFound)
	}
	result := WithNames{Quotation: *q, AccountName: "Test Customer"}
	result.Lines = append([]Line(nil), r.lines[id]...)
	return &result, nil
}

func (r *memoryRepo) GetForUpdate(ctx context.Context, id int64) (Quotation, error) {
	q, ok := r.quotations[id]
	if !ok || r.deleted[id] {
		return Quotation{}, fmt.Errorf("quotation %d: %w", id, shared.ErrNotFound)
	}
	return *q, nil
}

func (r *memoryRepo) GetLines(ctx context.Context, quotationID int64) ([]Line, error) {
	return append([]Line(nil), r.lines[quotationID]...), nil
}

func (r *memoryRepo) List(ctx context.Context, req ListRequest) ([]WithNames, int, error) {
	result := []WithNames{}
	for id, q := range r.quotations {
		if r.deleted[id] {
			continue
		}
		if req.Status != nil && q.Status != *req.Status {
			continue
		}
		result = append(result, WithNames{Quotation: *q, AccountName: "Test Customer"})
	}
	return result, len(result), nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	q, ok := r.quotations[id]
	if !ok || r.deleted[id] {
		return fmt.Errorf("quotation %d: %w", id, shared.ErrNotFound)
	}
	q.Status = status
	q.UpdatedAt = time.Now()
	return nil
}

func (r *memoryRepo) SoftDelete(ctx context.Context, id int64) error {
	if _, ok := r.quotations[id]; !ok || r.deleted[id] {
		return fmt.Errorf("quotation %d: %w", id, shared.ErrNotFound)
	}
	r.deleted[id] = true
	return nil
}

// memoryLedger mirrors the real ledger's semantics against a stock map so
// reconciliation can be asserted.
type memoryLedger struct {
	initial   map[int64]int64
	stock     map[int64]int64
	names     map[int64]string
	movements []inventory.MovementInput
}

func newMemoryLedger(stock map[int64]int64) *memoryLedger {
	initial := make(map[int64]int64, len(stock))
	current := make(map[int64]int64, len(stock))
	for id, qty := range stock {
		initial[id] = qty
		current[id] = qty
	}
	return &memoryLedger{initial: initial, stock: current, names: map[int64]string{}}
}

func (l *memoryLedger) Apply(ctx context.Context, _ db.Executor, input inventory.MovementInput) (inventory.Movement, error) {
	available := l.stock[input.ProductID]
	if input.Direction == inventory.DirectionOut {
		if input.Quantity > available {
			return inventory.Movement{}, &shared.InsufficientStockError{Items: []shared.StockShortfall{{
				ProductID: input.ProductID,
				Available: available,
				Requested: input.Quantity,
			}}}
		}
		l.stock[input.ProductID] = available - input.Quantity
	} else {
		l.stock[input.ProductID] = available + input.Quantity
	}
	l.movements = append(l.movements, input)
	return inventory.Movement{ProductID: input.ProductID, Direction: input.Direction, Quantity: input.Quantity}, nil
}

func (l *memoryLedger) CheckAvailability(ctx context.Context, _ db.Executor, reqs []inventory.StockRequirement) ([]shared.StockShortfall, error) {
	needed := map[int64]int64{}
	for _, req := range reqs {
		needed[req.ProductID] += req.Quantity
	}
	var short []shared.StockShortfall
	for id, qty := range needed {
		if qty > l.stock[id] {
			short = append(short, shared.StockShortfall{ProductID: id, ProductName: l.names[id], Available: l.stock[id], Requested: qty})
		}
	}
	return short, nil
}

func (l *memoryLedger) reconciles() bool {
	derived := make(map[int64]int64, len(l.initial))
	for id, qty := range l.initial {
		derived[id] = qty
	}
	for _, m := range l.movements {
		if m.Direction == inventory.DirectionIn {
			derived[m.ProductID] += m.Quantity
		} else {
			derived[m.ProductID] -= m.Quantity
		}
	}
	for id, qty := range derived {
		if l.stock[id] != qty {
			return false
		}
	}
	return true
}

type memoryAccounts struct {
	accounts map[int64]accounts.Account
}

func (a *memoryAccounts) Get(ctx context.Context, id int64) (accounts.Account, error) {
	account, ok := a.accounts[id]
	if !ok {
		return accounts.Account{}, fmt.Errorf("account %d: %w", id, shared.ErrNotFound)
	}
	return account, nil
}

func newService(stock map[int64]int64) (*Service, *memoryRepo, *memoryLedger) {
	repo := newMemoryRepo()
	ledger := newMemoryLedger(stock)
	accountsPort := &memoryAccounts{accounts: map[int64]accounts.Account{
		1: {ID: 1, Kind: accounts.KindCustomer, Name: "Test Customer"},
		2: {ID: 2, Kind: accounts.KindSupplier, Name: "Test Supplier"},
	}}
	return NewService(repo, ledger, accountsPort, nil), repo, ledger
}

func TestCreateComputesTotals(t *testing.T) {
	svc, _, _ := newService(nil)
	ctx := context.Background()

	quotation, err := svc.Create(ctx, CreateQuotationRequest{
		AccountID:      1,
		DiscountAmount: 500,
		Lines: []CreateQuotationLineReq{
			{ProductID: 10, Quantity: 10, UnitPrice: 1000, Discount: 10},
			{ProductID: 11, Quantity: 2, UnitPrice: 500},
		},
	}, 7)
	require.NoError(t, err)

	require.InDelta(t, 9000.0, quotation.Lines[0].Subtotal, 0.0001)
	require.InDelta(t, 1000.0, quotation.Lines[1].Subtotal, 0.0001)
	require.InDelta(t, 10000.0, quotation.TotalAmount, 0.0001)
	require.InDelta(t, 9500.0, quotation.GrandTotal, 0.0001)
	require.Equal(t, StatusDraft, quotation.Status)
	require.Regexp(t, `^QT-\d{6}-\d{4}$`, quotation.Number)
}

func TestCreateRejectsEmptyLines(t *testing.T) {
	svc, _, _ := newService(nil)

	_, err := svc.Create(context.Background(), CreateQuotationRequest{AccountID: 1}, 7)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsSupplierAccount(t *testing.T) {
	svc, _, _ := newService(nil)

	_, err := svc.Create(context.Background(), CreateQuotationRequest{
		AccountID: 2,
		Lines:     []CreateQuotationLineReq{{ProductID: 10, Quantity: 1, UnitPrice: 100}},
	}, 7)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestAcceptAppliesStockOnce(t *testing.T) {
	svc, _, ledger := newService(map[int64]int64{10: 20, 11: 5})
	ctx := context.Background()

	quotation, err := svc.Create(ctx, CreateQuotationRequest{
		AccountID: 1,
		Lines: []CreateQuotationLineReq{
			{ProductID: 10, Quantity: 10, UnitPrice: 1000},
			{ProductID: 11, Quantity: 3, UnitPrice: 200},
		},
	}, 7)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, quotation.ID, StatusAccepted, 7)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, updated.Status)
	require.Len(t, ledger.movements, 2)
	require.EqualValues(t, 10, ledger.stock[10])
	require.EqualValues(t, 2, ledger.stock[11])

	// Repeating the transition must not decrement stock again.
	updated, err = svc.UpdateStatus(ctx, quotation.ID, StatusAccepted, 7)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, updated.Status)
	require.Len(t, ledger.movements, 2)
	require.EqualValues(t, 10, ledger.stock[10])
	require.True(t, ledger.reconciles())
}

func TestAcceptInsufficientStockEnumeratesEveryShortfall(t *testing.T) {
	svc, repo, ledger := newService(map[int64]int64{10: 5, 11: 1, 12: 100})
	ctx := context.Background()

	quotation, err := svc.Create(ctx, CreateQuotationRequest{
		AccountID: 1,
		Lines: []CreateQuotationLineReq{
			{ProductID: 10, Quantity: 10, UnitPrice: 1000},
			{ProductID: 11, Quantity: 3, UnitPrice: 200},
			{ProductID: 12, Quantity: 1, UnitPrice: 50},
		},
	}, 7)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, quotation.ID, StatusAccepted, 7)
	var stockErr *shared.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Items, 2)

	// No mutation happened: no movements, stock untouched, status unchanged.
	require.Empty(t, ledger.movements)
	require.EqualValues(t, 5, ledger.stock[10])
	require.EqualValues(t, 1, ledger.stock[11])
	current, err := repo.GetForUpdate(ctx, quotation.ID)
	require.NoError(t, err)
	require.Equal(t, StatusDraft, current.Status)
	require.True(t, ledger.reconciles())
}

func TestRejectAfterAcceptedIsBusinessRuleViolation(t *testing.T) {
	svc, _, _ := newService(map[int64]int64{10: 20})
	ctx := context.Background()

	quotation, err := svc.Create(ctx, CreateQuotationRequest{
		AccountID: 1,
		Lines:     []CreateQuotationLineReq{{ProductID: 10, Quantity: 1, UnitPrice: 100}},
	}, 7)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, quotation.ID, StatusAccepted, 7)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, quotation.ID, StatusRejected, 7)
	var ruleErr *shared.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)

	current, err := svc.Get(ctx, quotation.ID)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, current.Status)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	svc, _, _ := newService(nil)

	_, err := svc.UpdateStatus(context.Background(), 1, Status("bogus"), 7)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _, _ := newService(nil)

	_, err := svc.UpdateStatus(context.Background(), 404, StatusSent, 7)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRoundTrip(t *testing.T) {
	svc, _, _ := newService(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateQuotationRequest{
		AccountID: 1,
		Lines: []CreateQuotationLineReq{
			{ProductID: 10, Quantity: 1, UnitPrice: 100},
			{ProductID: 11, Quantity: 2, UnitPrice: 200, Discount: 50},
			{ProductID: 12, Quantity: 3, UnitPrice: 300},
		},
	}, 7)
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Lines, 3)
	require.Equal(t, created.Number, fetched.Number)

	var sum float64
	for i, line := range fetched.Lines {
		require.InDelta(t, created.Lines[i].Subtotal, line.Subtotal, 0.0001)
		sum += line.Subtotal
	}
	require.InDelta(t, sum, fetched.GrandTotal, 0.0001)
}

func TestSoftDeleteExcludesFromReads(t *testing.T) {
	svc, _, _ := newService(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateQuotationRequest{
		AccountID: 1,
		Lines:     []CreateQuotationLineReq{{ProductID: 10, Quantity: 1, UnitPrice: 100}},
	}, 7)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, 7))

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	listed, total, err := svc.List(ctx, ListRequest{})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, listed)

	_, err = svc.UpdateStatus(ctx, created.ID, StatusSent, 7)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
