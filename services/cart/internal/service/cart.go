package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/webmarket/webmarket/pkg/catalogclient"
	"github.com/webmarket/webmarket/pkg/logging"
	"github.com/webmarket/webmarket/services/cart/internal/models"
	"github.com/webmarket/webmarket/services/cart/internal/repo"
	"github.com/webmarket/webmarket/services/cart/internal/transport"
)

var (
	ErrValidation  = errors.New("validation")
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("dependency unavailable")
)

// ProductLookup is the slice of the catalog client the cart needs.
type ProductLookup interface {
	GetProduct(ctx context.Context, id uint) (*catalogclient.Product, error)
}

type CartService struct {
	Repo    *repo.GormRepo
	Catalog ProductLookup
}

// Add prices the item from the catalog at call time; a later add for the same
// product refreshes the stored unit price.
func (h *CartService) Add(ctx context.Context, userID, productID, quantity uint) (*models.CartItem, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "product_id", productID)

	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	product, err := h.Catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogclient.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		l.Error("catalog_lookup_failed", "error", err)
		return nil, fmt.Errorf("%w: catalog", ErrUnavailable)
	}
	if product.UnitPrice == nil {
		return nil, fmt.Errorf("%w: product has no price", ErrValidation)
	}

	return h.Repo.Upsert(ctx, userID, productID, quantity, *product.UnitPrice)
}

func (h *CartService) List(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return h.Repo.GetCart(ctx, userID)
}

// Summarize aggregates the cart; an empty cart yields zero totals.
func (h *CartService) Summarize(ctx context.Context, userID uint) (*transport.CartSummary, error) {
	items, err := h.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := transport.CartSummary{
		UserID:      userID,
		TotalAmount: decimal.Zero,
	}
	for i := range items {
		summary.TotalItems += items[i].Quantity
		summary.TotalAmount = summary.TotalAmount.Add(items[i].TotalPrice())
	}
	summary.ItemsCount = len(items)

	return &summary, nil
}

func (h *CartService) Remove(ctx context.Context, userID, itemID uint) error {
	if itemID == 0 {
		return fmt.Errorf("%w: item_id required", ErrValidation)
	}
	if err := h.Repo.Delete(ctx, userID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: item %d", ErrNotFound, itemID)
		}
		return err
	}
	return nil
}
