package dashboard

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	products  int64
	customers int64
	suppliers int64
	stores    int64
	lowStock  int64
	calls     int
}

func (r *mockRepo) CountProducts(ctx context.Context) (int64, error) {
	r.calls++
	return r.products, nil
}

func (r *mockRepo) CountAccounts(ctx context.Context, kind string) (int64, error) {
	if kind == "customer" {
		return r.customers, nil
	}
	return r.suppliers, nil
}

func (r *mockRepo) CountStores(ctx context.Context) (int64, error) {
	return r.stores, nil
}

func (r *mockRepo) QuotationStatusCounts(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{"draft": 2, "accepted": 1}, nil
}

func (r *mockRepo) PurchaseStatusCounts(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{"received": 3}, nil
}

func (r *mockRepo) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	return r.lowStock, nil
}

func (r *mockRepo) RecentMovements(ctx context.Context, limit int) ([]RecentMovement, error) {
	return []RecentMovement{{ID: 1, ProductID: 10, ProductName: "Widget", Direction: "in", Quantity: 5, CreatedAt: time.Now()}}, nil
}

func newTestService(t *testing.T, repo *mockRepo) (*Service, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, repo, cache)
	return svc, func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestSummaryAggregates(t *testing.T) {
	repo := &mockRepo{products: 12, customers: 4, suppliers: 2, stores: 3, lowStock: 1}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 12, summary.Products)
	require.EqualValues(t, 4, summary.Customers)
	require.EqualValues(t, 2, summary.Suppliers)
	require.EqualValues(t, 3, summary.Stores)
	require.EqualValues(t, 1, summary.LowStockProducts)
	require.EqualValues(t, 2, summary.QuotationStatuses["draft"])
	require.EqualValues(t, 3, summary.PurchaseStatuses["received"])
	require.Len(t, summary.RecentMovements, 1)
}

func TestSummaryServesFromCache(t *testing.T) {
	repo := &mockRepo{products: 12}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)
}

func TestSummaryInvalidateRebuilds(t *testing.T) {
	repo := &mockRepo{products: 12}
	svc, cleanup := newTestService(t, repo)
	defer cleanup()

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(context.Background()))

	repo.products = 13
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 13, summary.Products)
	require.Equal(t, 2, repo.calls)
}

func TestSummaryDegradesWithoutRedis(t *testing.T) {
	repo := &mockRepo{products: 7}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, repo, NewCache(nil, time.Minute))

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 7, summary.Products)

	summary, err = svc.Summary(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 7, summary.Products)
	require.Equal(t, 2, repo.calls)
}
