package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmoroz/storefront/internal/models"
	"github.com/kmoroz/storefront/internal/repo"
	"github.com/kmoroz/storefront/internal/search"
	"github.com/kmoroz/storefront/internal/transport"
	"github.com/kmoroz/storefront/pkg/logging"
)

type CatalogService struct {
	Repo  *repo.GormRepo
	Index *search.Index
}

func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("search index error", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product", ErrNotFound)
	}
	return p, err
}

func (s *CatalogService) ListProducts(ctx context.Context, page, perPage int) ([]models.Product, *transport.Meta, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 10
	}

	total, items, err := s.Repo.GetProducts(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, nil, err
	}
	return items, transport.NewMeta(page, total, perPage), nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if len(req.Types) == 0 {
		return nil, fmt.Errorf("%w: at least one product type required", ErrValidation)
	}
	for _, t := range req.Types {
		if t.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
	}
	for _, t := range req.Types {
		product.Types = append(product.Types, models.ProductType{
			Name:        t.Name,
			Description: t.Description,
			Price:       t.Price,
			Stock:       t.Stock,
			ImageURL:    t.ImageURL,
		})
	}

	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.reindex(ctx, product)
	return product, nil
}

func (s *CatalogService) PatchProductType(ctx context.Context, id uuid.UUID, req transport.PatchProductTypeRequest) (*models.ProductType, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	pt, err := s.Repo.PatchProductType(ctx, id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product type", ErrNotFound)
		}
		return nil, err
	}

	if p, err := s.Repo.GetProduct(ctx, pt.ProductID); err == nil {
		s.reindex(ctx, p)
	}
	return pt, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product", ErrNotFound)
		}
		return err
	}

	if err := s.Index.DeleteProduct(ctx, id); err != nil {
		logging.FromContext(ctx).Error("search delete error", "product_id", id, "error", err)
	}
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, page, size int) (int64, []models.Product, error) {
	if query == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return s.Index.Search(ctx, query, (page-1)*size, size)
}
