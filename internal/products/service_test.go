package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/artha-erp/artha/internal/shared"
)

type memoryRepo struct {
	products map[int64]Product
	deleted  map[int64]bool
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: map[int64]Product{}, deleted: map[int64]bool{}}
}

func (r *memoryRepo) List(ctx context.Context, req ListRequest) ([]Product, int, error) {
	result := []Product{}
	for id, product := range r.products {
		if !r.deleted[id] {
			result = append(result, product)
		}
	}
	return result, len(result), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Product, error) {
	product, ok := r.products[id]
	if !ok || r.deleted[id] {
		return Product{}, fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	return product, nil
}

func (r *memoryRepo) Create(ctx context.Context, product Product) (Product, error) {
	for id, existing := range r.products {
		if !r.deleted[id] && existing.Code == product.Code {
			return Product{}, fmt.Errorf("product code %q: %w", product.Code, shared.ErrConflict)
		}
	}
	r.nextID++
	product.ID = r.nextID
	r.products[product.ID] = product
	return product, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, product Product) error {
	existing, ok := r.products[id]
	if !ok || r.deleted[id] {
		return fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	// The stock counter is owned by the inventory ledger.
	product.ID = id
	product.Stock = existing.Stock
	r.products[id] = product
	return nil
}

func (r *memoryRepo) SoftDelete(ctx context.Context, id int64) error {
	if _, ok := r.products[id]; !ok || r.deleted[id] {
		return fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	r.deleted[id] = true
	return nil
}

func TestCreateValidatesShape(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Product{Name: "No Code", Price: 10})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, Product{Code: "SKU-1", Name: "Negative", Price: -1})
	require.ErrorIs(t, err, shared.ErrValidation)

	created, err := svc.Create(ctx, Product{Code: "SKU-1", Name: "Widget", Unit: "pcs", Price: 10, Stock: 5})
	require.NoError(t, err)
	require.EqualValues(t, 5, created.Stock)
}

func TestCreateDuplicateCodeConflicts(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Product{Code: "SKU-1", Name: "One", Price: 10})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Product{Code: "SKU-1", Name: "Two", Price: 10})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestUpdateNeverTouchesStock(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, Product{Code: "SKU-1", Name: "Widget", Price: 10, Stock: 5})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, Product{Code: "SKU-1", Name: "Widget v2", Price: 12, Stock: 999})
	require.NoError(t, err)
	require.Equal(t, "Widget v2", updated.Name)
	require.EqualValues(t, 5, updated.Stock)
}

func TestDeleteHidesProduct(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, Product{Code: "SKU-1", Name: "Widget", Price: 10})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
