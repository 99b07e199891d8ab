package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmoroz/storefront/internal/models"
)

func (r *GormRepo) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindCart looks up the user's cart without creating one; carts only
// come into existence on the first add.
func (r *GormRepo) FindCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) CartItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB.WithContext(ctx).
		Preload("ProductType").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem merges (productTypeID, quantity) into the cart: an existing
// line has its quantity increased, otherwise a new line is created with
// the product type's current price as its snapshot. The product type
// row is locked so the stock check and the upsert see the same state.
func (r *GormRepo) AddItem(ctx context.Context, cartID, productTypeID uuid.UUID, quantity uint) (*models.CartItem, error) {
	var item models.CartItem

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pt models.ProductType
		if err := forUpdate(tx).
			First(&pt, "id = ?", productTypeID).Error; err != nil {
			return err
		}

		current := uint(0)
		existing := models.CartItem{}
		found := tx.Where("cart_id = ? AND product_type_id = ?", cartID, productTypeID).
			First(&existing).Error
		if found == nil {
			current = existing.Quantity
		} else if found != gorm.ErrRecordNotFound {
			return found
		}

		if current+quantity > pt.Stock {
			return ErrInsufficientStock
		}

		if found == nil {
			existing.Quantity += quantity
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			item = existing
			return nil
		}

		item = models.CartItem{
			CartID:        cartID,
			ProductTypeID: productTypeID,
			Quantity:      quantity,
			Price:         pt.Price,
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SetItemQuantity updates a cart line under a row lock. Quantity zero
// deletes the row; the returned flag reports whether that happened.
// Positive targets are held to the same stock ceiling as AddItem.
func (r *GormRepo) SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity uint) (bool, error) {
	deleted := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := forUpdate(tx).
			Where("id = ? AND cart_id = ?", itemID, cartID).
			First(&item).Error; err != nil {
			return err
		}

		if quantity == 0 {
			deleted = true
			return tx.Delete(&item).Error
		}

		var pt models.ProductType
		if err := forUpdate(tx).
			First(&pt, "id = ?", item.ProductTypeID).Error; err != nil {
			return err
		}
		if quantity > pt.Stock {
			return ErrInsufficientStock
		}

		return tx.Model(&item).Update("quantity", quantity).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
