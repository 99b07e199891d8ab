package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kmoroz/storefront/internal/events"
	"github.com/kmoroz/storefront/internal/models"
	"github.com/kmoroz/storefront/internal/repo"
	"github.com/kmoroz/storefront/internal/transport"
	"github.com/kmoroz/storefront/pkg/logging"
	"github.com/kmoroz/storefront/pkg/money"
)

type CartService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

func (s *CartService) publish(ctx context.Context, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Producer.Publish(pubCtx, events.TopicCartEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

// GetCart returns the user's cart contents with the derived item count
// and exact subtotal. A user with no cart yet gets an empty response;
// reading never creates a cart row.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*transport.CartResponse, error) {
	cart, err := s.Repo.FindCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &transport.CartResponse{
				CartItems: []models.CartItem{},
				Subtotal:  money.Format(decimal.Zero),
			}, nil
		}
		return nil, err
	}

	items, err := s.Repo.CartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	total := uint(0)
	lines := make([]money.Line, len(items))
	for i, it := range items {
		total += it.Quantity
		lines[i] = money.Line{Price: it.Price, Quantity: it.Quantity}
	}

	return &transport.CartResponse{
		CartItems: items,
		TotalItem: total,
		Subtotal:  money.Format(money.Subtotal(lines)),
	}, nil
}

// AddItem merges (productTypeID, quantity) into the cart and returns
// the full server-side cart so callers can replace any local view with
// it wholesale.
func (s *CartService) AddItem(ctx context.Context, userID, productTypeID uuid.UUID, quantity uint) (*transport.CartResponse, error) {
	if productTypeID == uuid.Nil {
		return nil, fmt.Errorf("%w: productTypeId required", ErrValidation)
	}
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.Repo.AddItem(ctx, cart.ID, productTypeID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("%w: product type", ErrNotFound)
		case errors.Is(err, repo.ErrInsufficientStock):
			return nil, fmt.Errorf("%w: insufficient stock", ErrConflict)
		default:
			return nil, err
		}
	}

	s.publish(ctx, userID.String(), map[string]any{
		"type":          "cart_item_added",
		"userID":        userID,
		"itemID":        item.ID,
		"productTypeID": productTypeID,
		"quantity":      item.Quantity,
	})

	return s.GetCart(ctx, userID)
}

// SetQuantity applies the quantity-mutation policy: a positive target
// updates the line, a zero target removes it and is only honored when
// the caller has confirmed the removal. The returned flag reports
// whether the line was removed.
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity uint, confirmed bool) (bool, error) {
	if itemID == uuid.Nil {
		return false, fmt.Errorf("%w: itemId required", ErrValidation)
	}
	if quantity == 0 && !confirmed {
		return false, ErrConfirmationRequired
	}

	cart, err := s.Repo.FindCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: cart item", ErrNotFound)
		}
		return false, err
	}

	removed, err := s.Repo.SetItemQuantity(ctx, cart.ID, itemID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return false, fmt.Errorf("%w: cart item", ErrNotFound)
		case errors.Is(err, repo.ErrInsufficientStock):
			return false, fmt.Errorf("%w: insufficient stock", ErrConflict)
		default:
			return false, err
		}
	}

	eventType := "cart_quantity_updated"
	if removed {
		eventType = "cart_item_removed"
	}
	s.publish(ctx, userID.String(), map[string]any{
		"type":     eventType,
		"userID":   userID,
		"itemID":   itemID,
		"quantity": quantity,
	})

	return removed, nil
}

// Items exposes the raw cart lines for order submission. A user with
// no cart has no lines.
func (s *CartService) Items(ctx context.Context, userID uuid.UUID) (uuid.UUID, []models.CartItem, error) {
	cart, err := s.Repo.FindCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, nil, nil
		}
		return uuid.Nil, nil, err
	}
	items, err := s.Repo.CartItems(ctx, cart.ID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return cart.ID, items, nil
}
