package service_test

import (
	"context"
	"testing"

	"account-storefront/internal/apperr"
	"account-storefront/internal/dbtest"
	"account-storefront/internal/dto"
	"account-storefront/internal/repository"
	"account-storefront/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCatalogService(t *testing.T) {
	svc := service.NewCatalogService(repository.NewProductRepository(dbtest.New(t)))
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, &dto.ProductRequest{
		ID:          "net-x",
		Name:        ptr(" Net X "),
		Price:       ptr(int64(15000)),
		Description: ptr("one month"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Net X", created.Name)

	updated, err := svc.UpdateProduct(ctx, "net-x", &dto.ProductRequest{Price: ptr(int64(20000))})
	require.NoError(t, err)
	assert.EqualValues(t, 20000, updated.Price)
	assert.Equal(t, "one month", updated.Description)

	unchanged, err := svc.UpdateProduct(ctx, "net-x", &dto.ProductRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 20000, unchanged.Price)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	require.NoError(t, svc.DeleteProduct(ctx, "net-x"))
	_, err = svc.GetProduct(ctx, "net-x")
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)
}

func TestCatalogService_Validation(t *testing.T) {
	svc := service.NewCatalogService(repository.NewProductRepository(dbtest.New(t)))
	ctx := context.Background()

	tests := []struct {
		name string
		req  *dto.ProductRequest
	}{
		{name: "bad slug", req: &dto.ProductRequest{ID: "Net X", Name: ptr("n"), Price: ptr(int64(1))}},
		{name: "missing name", req: &dto.ProductRequest{ID: "net-x", Price: ptr(int64(1))}},
		{name: "zero price", req: &dto.ProductRequest{ID: "net-x", Name: ptr("n"), Price: ptr(int64(0))}},
	}
	for _, tt := range tests {
		_, err := svc.CreateProduct(ctx, tt.req)
		assert.ErrorIs(t, err, apperr.ErrInvalidProduct, tt.name)
	}

	_, err := svc.UpdateProduct(ctx, "net-x", &dto.ProductRequest{Price: ptr(int64(-5))})
	assert.ErrorIs(t, err, apperr.ErrInvalidProduct)
}
