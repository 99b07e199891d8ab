package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmoroz/storefront/internal/events"
	"github.com/kmoroz/storefront/internal/models"
	"github.com/kmoroz/storefront/internal/repo"
	"github.com/kmoroz/storefront/internal/transport"
	"github.com/kmoroz/storefront/pkg/logging"
	"github.com/kmoroz/storefront/pkg/money"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Cart     *CartService
	Producer *events.Producer
}

func (s *OrderService) publish(ctx context.Context, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Producer.Publish(pubCtx, events.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

func validateSubmit(req transport.SubmitOrderRequest) error {
	required := map[string]string{
		"fullName":      req.FullName,
		"email":         req.Email,
		"addressLine1":  req.AddressLine1,
		"city":          req.City,
		"state":         req.State,
		"postalCode":    req.PostalCode,
		"country":       req.Country,
		"phone":         req.Phone,
		"paymentMethod": req.PaymentMethod,
	}
	for field, v := range required {
		if v == "" {
			return fmt.Errorf("%w: %s required", ErrValidation, field)
		}
	}
	return nil
}

// Submit snapshots the cart into an order. Item prices are the cart's
// stored snapshots, not live product prices; the total is the exact
// subtotal plus the flat shipping charge. The cart is cleared in the
// same transaction that persists the order.
func (s *OrderService) Submit(ctx context.Context, userID uuid.UUID, req transport.SubmitOrderRequest) (*models.Order, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	cartID, items, err := s.Cart.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	lines := make([]money.Line, len(items))
	orderItems := make([]models.OrderItem, len(items))
	for i, it := range items {
		lines[i] = money.Line{Price: it.Price, Quantity: it.Quantity}
		orderItems[i] = models.OrderItem{
			ProductTypeID: it.ProductTypeID,
			Quantity:      it.Quantity,
			Price:         it.Price,
		}
	}

	addr := &models.Address{
		UserID:       userID,
		FullName:     req.FullName,
		Email:        req.Email,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Phone:        req.Phone,
		IsDefault:    req.IsDefault,
		AddressName:  req.AddressName,
	}
	if addr.AddressName == "" {
		addr.AddressName = "home"
	}

	order := &models.Order{
		UserID:         userID,
		Status:         models.OrderStatusPending,
		DeliveryCharge: money.FlatShippingRate,
		TotalPrice:     money.Total(lines, money.FlatShippingRate),
		OrderNote:      req.OrderNote,
		PaymentMethod:  req.PaymentMethod,
		OrderItems:     orderItems,
	}

	if err := s.Repo.SubmitOrder(ctx, addr, order, cartID); err != nil {
		return nil, err
	}

	s.publish(ctx, userID.String(), map[string]any{
		"type":    "order_submitted",
		"userID":  userID,
		"orderID": order.ID,
		"total":   money.Format(order.TotalPrice),
	})

	return order, nil
}

func (s *OrderService) List(ctx context.Context, userID *uuid.UUID, f transport.OrderFilters, page, perPage int) ([]models.Order, *transport.Meta, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 10
	}

	total, orders, err := s.Repo.ListOrders(ctx, userID, f, (page-1)*perPage, perPage)
	if err != nil {
		return nil, nil, err
	}
	return orders, transport.NewMeta(page, total, perPage), nil
}

// Cancel moves a pending order to canceled. Anything past pending is a
// conflict, not an error in the request shape.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) error {
	err := s.Repo.UpdateOrderStatus(ctx, orderID, &userID,
		[]string{models.OrderStatusPending}, models.OrderStatusCanceled)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("%w: order", ErrNotFound)
		case errors.Is(err, repo.ErrInvalidTransition):
			return fmt.Errorf("%w: only pending orders can be canceled", ErrConflict)
		default:
			return err
		}
	}

	s.publish(ctx, userID.String(), map[string]any{
		"type":    "order_canceled",
		"userID":  userID,
		"orderID": orderID,
	})
	return nil
}

// UpdateStatus is the admin-side transition: pending orders may be
// completed or canceled.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	if status != models.OrderStatusCompleted && status != models.OrderStatusCanceled {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	err := s.Repo.UpdateOrderStatus(ctx, orderID, nil,
		[]string{models.OrderStatusPending}, status)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("%w: order", ErrNotFound)
		case errors.Is(err, repo.ErrInvalidTransition):
			return fmt.Errorf("%w: order is not pending", ErrConflict)
		default:
			return err
		}
	}
	return nil
}

// Revenue aggregates completed-order revenue for the admin dashboard.
func (s *OrderService) Revenue(ctx context.Context) (*transport.RevenueResponse, error) {
	now := time.Now().UTC()
	resp := &transport.RevenueResponse{}

	type window struct {
		since time.Time
		dst   *string
	}
	windows := []window{
		{now.AddDate(0, 0, -1), &resp.Daily},
		{now.AddDate(0, 0, -7), &resp.Weekly},
		{now.AddDate(0, -1, 0), &resp.Monthly},
		{now.AddDate(-1, 0, 0), &resp.Yearly},
	}

	for _, w := range windows {
		sum, err := s.Repo.Revenue(ctx, w.since)
		if err != nil {
			return nil, err
		}
		*w.dst = money.Format(sum)
	}

	points, err := s.Repo.RevenueByDay(ctx, now.AddDate(0, -1, 0))
	if err != nil {
		return nil, err
	}
	resp.ChartData = points

	return resp, nil
}
