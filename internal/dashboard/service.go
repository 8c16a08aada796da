package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/artha-erp/artha/internal/accounts"
)

const (
	lowStockThreshold = 10
	recentLimit       = 10
)

// Service aggregates the overview numbers. Concurrent requests for the
// same key share one rebuild via singleflight; results live in Redis for
// the cache TTL. A broken cache falls back to a direct rebuild.
type Service struct {
	logger *slog.Logger
	repo   Repository
	cache  *Cache
	group  singleflight.Group
}

// NewService constructs Service.
func NewService(logger *slog.Logger, repo Repository, cache *Cache) *Service {
	return &Service{logger: logger, repo: repo, cache: cache}
}

// Summary returns the cached overview, rebuilding when stale.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "summary")
	if err != nil {
		s.logger.Warn("dashboard cache unavailable", slog.Any("error", err))
		return s.build(ctx)
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		var summary Summary
		err := s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (any, error) {
			return s.build(ctx)
		})
		if err != nil {
			return nil, err
		}
		return &summary, nil
	})
	if err != nil {
		s.logger.Warn("dashboard cache fetch failed", slog.Any("error", err))
		return s.build(ctx)
	}
	return result.(*Summary), nil
}

// Invalidate drops every cached aggregate.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) build(ctx context.Context) (*Summary, error) {
	summary := Summary{GeneratedAt: time.Now().UTC()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.repo.CountProducts(ctx)
		summary.Products = total
		return err
	})
	g.Go(func() error {
		total, err := s.repo.CountAccounts(ctx, string(accounts.KindCustomer))
		summary.Customers = total
		return err
	})
	g.Go(func() error {
		total, err := s.repo.CountAccounts(ctx, string(accounts.KindSupplier))
		summary.Suppliers = total
		return err
	})
	g.Go(func() error {
		total, err := s.repo.CountStores(ctx)
		summary.Stores = total
		return err
	})
	g.Go(func() error {
		counts, err := s.repo.QuotationStatusCounts(ctx)
		summary.QuotationStatuses = counts
		return err
	})
	g.Go(func() error {
		counts, err := s.repo.PurchaseStatusCounts(ctx)
		summary.PurchaseStatuses = counts
		return err
	})
	g.Go(func() error {
		total, err := s.repo.CountLowStock(ctx, lowStockThreshold)
		summary.LowStockProducts = total
		return err
	})
	g.Go(func() error {
		movements, err := s.repo.RecentMovements(ctx, recentLimit)
		summary.RecentMovements = movements
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &summary, nil
}
