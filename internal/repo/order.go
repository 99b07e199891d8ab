package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kmoroz/storefront/internal/models"
	"github.com/kmoroz/storefront/internal/transport"
)

// SubmitOrder persists the delivery address, the order with its item
// snapshots, and clears the cart, all in one transaction.
func (r *GormRepo) SubmitOrder(ctx context.Context, addr *models.Address, order *models.Order, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(addr).Error; err != nil {
			return err
		}
		order.DeliveryAddressID = addr.ID
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("OrderItems").
		Preload("OrderItems.ProductType").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns a page of orders, newest first. A nil userID lists
// all orders (admin); filters match the delivery address fields.
func (r *GormRepo) ListOrders(ctx context.Context, userID *uuid.UUID, f transport.OrderFilters, offset, limit int) (int64, []models.Order, error) {
	base := r.DB.WithContext(ctx).Model(&models.Order{})

	if userID != nil {
		base = base.Where("orders.user_id = ?", *userID)
	}
	if f.Status != "" {
		base = base.Where("orders.status = ?", f.Status)
	}
	if f.FullName != "" || f.Email != "" {
		base = base.Joins("JOIN addresses ON addresses.id = orders.delivery_address_id")
		if f.FullName != "" {
			base = base.Where("addresses.full_name LIKE ?", "%"+f.FullName+"%")
		}
		if f.Email != "" {
			base = base.Where("addresses.email LIKE ?", "%"+f.Email+"%")
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	err := base.
		Preload("OrderItems").
		Preload("OrderItems.ProductType").
		Order("orders.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// UpdateOrderStatus moves an order between states under a row lock.
// The transition is applied only when the current status is one of
// allowedFrom; otherwise ErrInvalidTransition is returned. A non-nil
// userID restricts the lookup to that owner's orders.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID, allowedFrom []string, status string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		q := forUpdate(tx)
		if userID != nil {
			q = q.Where("user_id = ?", *userID)
		}
		if err := q.First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}

		allowed := false
		for _, from := range allowedFrom {
			if order.Status == from {
				allowed = true
				break
			}
		}
		if !allowed {
			return ErrInvalidTransition
		}

		return tx.Model(&order).Update("status", status).Error
	})
}

// Revenue sums completed-order totals since the given instant.
func (r *GormRepo) Revenue(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status = ? AND created_at >= ?", models.OrderStatusCompleted, since).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

type revenueRow struct {
	Day     string
	Revenue decimal.Decimal
}

// RevenueByDay returns per-day completed revenue for the chart on the
// admin dashboard.
func (r *GormRepo) RevenueByDay(ctx context.Context, since time.Time) ([]transport.ChartPoint, error) {
	var rows []revenueRow
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("DATE(created_at) AS day, COALESCE(SUM(total_price), 0) AS revenue").
		Where("status = ? AND created_at >= ?", models.OrderStatusCompleted, since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	points := make([]transport.ChartPoint, len(rows))
	for i, row := range rows {
		points[i] = transport.ChartPoint{Date: row.Day, Revenue: row.Revenue.StringFixed(2)}
	}
	return points, nil
}
