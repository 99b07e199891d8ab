package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmoroz/storefront/internal/models"
	"github.com/kmoroz/storefront/internal/transport"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).
		Preload("Types").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Where("is_deleted = ?", false)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	err := r.DB.WithContext(ctx).
		Preload("Types").
		Where("is_deleted = ?", false).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProductType(ctx context.Context, id uuid.UUID) (*models.ProductType, error) {
	var pt models.ProductType
	if err := r.DB.WithContext(ctx).First(&pt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

func (r *GormRepo) PatchProductType(ctx context.Context, id uuid.UUID, req transport.PatchProductTypeRequest) (*models.ProductType, error) {
	var pt models.ProductType
	if err := r.DB.WithContext(ctx).First(&pt, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		pt.Name = *req.Name
	}
	if req.Description != nil {
		pt.Description = *req.Description
	}
	if req.Price != nil {
		pt.Price = *req.Price
	}
	if req.Stock != nil {
		pt.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		pt.ImageURL = *req.ImageURL
	}

	if err := r.DB.WithContext(ctx).Save(&pt).Error; err != nil {
		return nil, err
	}
	return &pt, nil
}

// DeleteProduct is a soft delete: the product disappears from listings
// but order snapshots keep referencing its types.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
