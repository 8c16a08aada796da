package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/artha-erp/artha/internal/shared"
)

// Service wraps account business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, req ListRequest) ([]Account, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Get(ctx context.Context, id int64) (Account, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, account Account) (Account, error) {
	if err := s.validate(account); err != nil {
		return Account{}, err
	}
	return s.repo.Create(ctx, account)
}

func (s *Service) Update(ctx context.Context, id int64, account Account) (Account, error) {
	if err := s.validate(account); err != nil {
		return Account{}, err
	}
	if err := s.repo.Update(ctx, id, account); err != nil {
		return Account{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) validate(account Account) error {
	if !account.Kind.Valid() {
		return fmt.Errorf("%w: account kind must be customer or supplier", shared.ErrValidation)
	}
	if strings.TrimSpace(account.Name) == "" {
		return fmt.Errorf("%w: account name is required", shared.ErrValidation)
	}
	if strings.TrimSpace(account.Email) == "" {
		return fmt.Errorf("%w: account email is required", shared.ErrValidation)
	}
	return nil
}
