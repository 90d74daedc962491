package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"github.com/webmarket/webmarket/pkg/logging"
	"github.com/webmarket/webmarket/services/catalog/internal/models"
	"github.com/webmarket/webmarket/services/catalog/internal/repo"
	"github.com/webmarket/webmarket/services/catalog/internal/search"
	"github.com/webmarket/webmarket/services/catalog/internal/transport"
)

var (
	ErrValidation        = errors.New("validation")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrSearchUnavailable = errors.New("search unavailable")
)

type CatalogService struct {
	Repo *repo.GormRepo
	// ES is optional; when nil, search is unavailable and indexing is skipped.
	ES *elasticsearch.Client
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return prod, err
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.UnitPrice == nil {
		return nil, fmt.Errorf("%w: unit_price required", ErrValidation)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit_price must be >= 0", ErrValidation)
	}

	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Size:        req.Size,
		Weight:      req.Weight,
		UnitPrice:   *req.UnitPrice,
		CategoryID:  req.CategoryID,
	}
	if req.IVA != nil {
		prod.IVA = *req.IVA
	}

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		if errors.Is(err, repo.ErrDuplicateName) {
			return nil, fmt.Errorf("%w: product name taken", ErrConflict)
		}
		return nil, err
	}

	s.indexAsync(ctx, &prod)
	return &prod, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, req transport.UpdateProductRequest, id uint) (*models.Product, error) {
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit_price must be >= 0", ErrValidation)
	}

	prod, err := s.Repo.UpdateProduct(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}

	s.indexAsync(ctx, prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}

	if s.ES != nil {
		if err := search.DeleteProduct(ctx, s.ES, id); err != nil {
			logging.FromContext(ctx).Warn("search_deindex_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if s.ES == nil {
		return 0, nil, ErrSearchUnavailable
	}
	if query == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}
	return search.Search(ctx, s.ES, query, from, size)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	cat := models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, &cat); err != nil {
		if errors.Is(err, repo.ErrDuplicateName) {
			return nil, fmt.Errorf("%w: category name taken", ErrConflict)
		}
		return nil, err
	}
	return &cat, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return cat, err
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	err := s.Repo.DeleteCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return err
}

// indexAsync keeps the write path independent from search availability.
func (s *CatalogService) indexAsync(ctx context.Context, prod *models.Product) {
	if s.ES == nil {
		return
	}
	if err := search.IndexProduct(ctx, s.ES, prod); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", prod.ID, "error", err)
	}
}
