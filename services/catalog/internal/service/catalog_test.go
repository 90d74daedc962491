package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/webmarket/webmarket/services/catalog/internal/models"
	"github.com/webmarket/webmarket/services/catalog/internal/repo"
	"github.com/webmarket/webmarket/services/catalog/internal/transport"
)

func newTestCatalogService(t *testing.T) *CatalogService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return &CatalogService{Repo: &repo.GormRepo{DB: db}}
}

func pricePtr(s string) *decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return &d
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()

	prod, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:      "Widget",
		UnitPrice: pricePtr("499.99"),
	})
	require.NoError(t, err)
	assert.NotZero(t, prod.ID)

	got, err := svc.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString("499.99")))

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:      "Widget",
		UnitPrice: pricePtr("10"),
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateProduct_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, transport.CreateProductRequest{UnitPrice: pricePtr("10")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "NoPrice"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "Negative", UnitPrice: pricePtr("-1")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProduct_Partial(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()

	prod, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:      "Widget",
		UnitPrice: pricePtr("100"),
	})
	require.NoError(t, err)

	newName := "Widget Pro"
	updated, err := svc.UpdateProduct(ctx, transport.UpdateProductRequest{Name: &newName}, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", updated.Name)
	// untouched fields survive a partial update
	assert.True(t, updated.UnitPrice.Equal(decimal.NewFromInt(100)))

	_, err = svc.UpdateProduct(ctx, transport.UpdateProductRequest{Name: &newName}, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()

	prod, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:      "Widget",
		UnitPrice: pricePtr("100"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, prod.ID))

	_, err = svc.GetProduct(ctx, prod.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.DeleteProduct(ctx, prod.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch_UnavailableWithoutES(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)

	_, _, err := svc.SearchProducts(context.Background(), "widget", 0, 10)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestCategories(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "tools")
	require.NoError(t, err)
	assert.NotZero(t, cat.ID)

	_, err = svc.CreateCategory(ctx, "tools")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateCategory(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))
	err = svc.DeleteCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductWithCategory(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "tools")
	require.NoError(t, err)

	prod, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:       "Hammer",
		UnitPrice:  pricePtr("25"),
		CategoryID: &cat.ID,
	})
	require.NoError(t, err)

	got, err := svc.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "tools", got.Category.Name)
}
