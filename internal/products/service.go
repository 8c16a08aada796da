package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/artha-erp/artha/internal/shared"
)

// Service wraps product business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, req ListRequest) ([]Product, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, product)
}

// Update never writes the stock counter; stock changes flow through the
// inventory ledger only.
func (s *Service) Update(ctx context.Context, id int64, product Product) (Product, error) {
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	if err := s.repo.Update(ctx, id, product); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) validate(product Product) error {
	if strings.TrimSpace(product.Code) == "" {
		return fmt.Errorf("%w: product code is required", shared.ErrValidation)
	}
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	if product.Price < 0 {
		return fmt.Errorf("%w: product price must be >= 0", shared.ErrValidation)
	}
	if product.Stock < 0 {
		return fmt.Errorf("%w: product stock must be >= 0", shared.ErrValidation)
	}
	return nil
}
