package stores

import (
	"context"
	"fmt"
	"strings"

	"github.com/artha-erp/artha/internal/shared"
)

// Service wraps store business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, req ListRequest) ([]Store, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Get(ctx context.Context, id int64) (Store, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, store Store) (Store, error) {
	if strings.TrimSpace(store.Name) == "" {
		return Store{}, fmt.Errorf("%w: store name is required", shared.ErrValidation)
	}
	return s.repo.Create(ctx, store)
}

func (s *Service) Update(ctx context.Context, id int64, store Store) (Store, error) {
	if strings.TrimSpace(store.Name) == "" {
		return Store{}, fmt.Errorf("%w: store name is required", shared.ErrValidation)
	}
	if err := s.repo.Update(ctx, id, store); err != nil {
		return Store{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}
