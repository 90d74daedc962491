package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/webmarket/webmarket/pkg/catalogclient"
	"github.com/webmarket/webmarket/services/cart/internal/models"
	"github.com/webmarket/webmarket/services/cart/internal/repo"
)

type fakeCatalog struct {
	products map[uint]*catalogclient.Product
	err      error
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id uint) (*catalogclient.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, catalogclient.ErrNotFound
	}
	return p, nil
}

func newTestCartService(t *testing.T) (*CartService, *fakeCatalog) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CartItem{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	catalog := &fakeCatalog{products: map[uint]*catalogclient.Product{}}
	svc := &CartService{
		Repo:    &repo.GormRepo{DB: db},
		Catalog: catalog,
	}
	return svc, catalog
}

func priced(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func TestAdd_MergesRepeatedProduct(t *testing.T) {
	t.Parallel()

	svc, catalog := newTestCartService(t)
	catalog.products[1] = &catalogclient.Product{ID: 1, Name: "Widget", UnitPrice: priced(500)}
	ctx := context.Background()

	first, err := svc.Add(ctx, 7, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, first.Quantity)

	second, err := svc.Add(ctx, 7, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.EqualValues(t, 5, second.Quantity)

	items, err := svc.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAdd_RefreshesUnitPrice(t *testing.T) {
	t.Parallel()

	svc, catalog := newTestCartService(t)
	catalog.products[1] = &catalogclient.Product{ID: 1, Name: "Widget", UnitPrice: priced(500)}
	ctx := context.Background()

	_, err := svc.Add(ctx, 7, 1, 1)
	require.NoError(t, err)

	catalog.products[1].UnitPrice = priced(750)
	item, err := svc.Add(ctx, 7, 1, 1)
	require.NoError(t, err)

	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(750)), "price was %s", item.UnitPrice)
	assert.EqualValues(t, 2, item.Quantity)
}

func TestAdd_Errors(t *testing.T) {
	t.Parallel()

	svc, catalog := newTestCartService(t)
	catalog.products[1] = &catalogclient.Product{ID: 1, Name: "Widget", UnitPrice: priced(500)}
	catalog.products[2] = &catalogclient.Product{ID: 2, Name: "Unpriced"}
	ctx := context.Background()

	_, err := svc.Add(ctx, 7, 0, 1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add(ctx, 7, 1, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add(ctx, 7, 99, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Add(ctx, 7, 2, 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdd_CatalogDown(t *testing.T) {
	t.Parallel()

	svc, catalog := newTestCartService(t)
	catalog.err = catalogclient.ErrUnavailable

	_, err := svc.Add(context.Background(), 7, 1, 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	svc, catalog := newTestCartService(t)
	catalog.products[1] = &catalogclient.Product{ID: 1, UnitPrice: priced(500)}
	catalog.products[2] = &catalogclient.Product{ID: 2, UnitPrice: priced(300)}
	ctx := context.Background()

	empty, err := svc.Summarize(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 0, empty.TotalItems)
	assert.Equal(t, 0, empty.ItemsCount)
	assert.True(t, empty.TotalAmount.IsZero())

	_, err = svc.Add(ctx, 7, 1, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 7, 2, 1)
	require.NoError(t, err)

	summary, err := svc.Summarize(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary.TotalItems)
	assert.Equal(t, 2, summary.ItemsCount)
	assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(1300)), "total was %s", summary.TotalAmount)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	svc, catalog := newTestCartService(t)
	catalog.products[1] = &catalogclient.Product{ID: 1, UnitPrice: priced(500)}
	ctx := context.Background()

	item, err := svc.Add(ctx, 7, 1, 1)
	require.NoError(t, err)

	// another user cannot remove it, and learns nothing from the error
	err = svc.Remove(ctx, 8, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Remove(ctx, 7, item.ID))

	err = svc.Remove(ctx, 7, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := svc.List(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, items)
}
