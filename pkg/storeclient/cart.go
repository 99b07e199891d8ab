package storeclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmoroz/storefront/pkg/money"
)

// Confirmer is the user-confirmation gate for item removal. It is
// called with the item about to be removed and must return true to
// proceed. A nil Confirmer counts as declined: removal never happens
// without an explicit yes.
type Confirmer func(item CartItem) bool

// Cart returns the current cart, fetching from the server when the
// cached copy has been invalidated. The fetched state fully replaces
// the cache.
func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	if cart, ok := c.cart.snapshot(); ok {
		return cart, nil
	}

	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/carts", nil, &cart); err != nil {
		return nil, err
	}
	c.cart.replace(&cart)
	return &cart, nil
}

// AddItem submits a (productTypeId, quantity) pair. Preconditions are
// checked before any network call; a failed request leaves the cached
// cart untouched. On success the cache is replaced with the server's
// cart, so client and server totals cannot diverge.
func (c *Client) AddItem(ctx context.Context, productTypeID uuid.UUID, quantity int) (*Cart, error) {
	if productTypeID == uuid.Nil {
		return nil, fmt.Errorf("%w: productTypeId required", ErrValidation)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	body := map[string]any{
		"productTypeId": productTypeID,
		"quantity":      quantity,
	}

	var cart Cart
	if err := c.do(ctx, http.MethodPost, "/carts/items", body, &cart); err != nil {
		return nil, err
	}
	c.cart.replace(&cart)
	return &cart, nil
}

// UpdateQuantity changes a cart line's quantity. A target of zero is a
// removal request and is routed through the confirmation gate; any
// other sub-1 target is clamped to 1. Exactly one cache invalidation
// follows a successful mutation; a failed one changes nothing.
func (c *Client) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int, confirm Confirmer) error {
	if itemID == uuid.Nil {
		return fmt.Errorf("%w: itemId required", ErrValidation)
	}

	if quantity == 0 {
		_, err := c.RemoveItem(ctx, itemID, confirm)
		return err
	}
	if quantity < 1 {
		quantity = 1
	}

	body := map[string]any{"quantity": quantity}
	path := fmt.Sprintf("/carts/items/%s/quantity", itemID)
	if err := c.do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return err
	}

	c.cart.invalidate()
	return nil
}

// RemoveItem drives an item's quantity to zero after explicit
// confirmation. The server interprets the zero-quantity mutation as
// deletion. The returned flag reports whether removal actually
// happened; a declined confirmation is not an error.
func (c *Client) RemoveItem(ctx context.Context, itemID uuid.UUID, confirm Confirmer) (bool, error) {
	if itemID == uuid.Nil {
		return false, fmt.Errorf("%w: itemId required", ErrValidation)
	}

	cart, err := c.Cart(ctx)
	if err != nil {
		return false, err
	}

	var item *CartItem
	for i := range cart.CartItems {
		if cart.CartItems[i].ID == itemID {
			item = &cart.CartItems[i]
			break
		}
	}
	if item == nil {
		return false, fmt.Errorf("%w: item not in cart", ErrValidation)
	}

	if confirm == nil || !confirm(*item) {
		return false, nil
	}

	body := map[string]any{"quantity": 0, "confirmed": true}
	path := fmt.Sprintf("/carts/items/%s/quantity", itemID)
	if err := c.do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return false, err
	}

	c.cart.invalidate()
	return true, nil
}

// Subtotal computes the exact subtotal of the current cart.
func (c *Client) Subtotal(ctx context.Context) (decimal.Decimal, error) {
	cart, err := c.Cart(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	lines := make([]money.Line, len(cart.CartItems))
	for i, it := range cart.CartItems {
		lines[i] = money.Line{Price: it.Price, Quantity: it.Quantity}
	}
	return money.Subtotal(lines), nil
}

// Total is the subtotal plus the flat shipping rate.
func (c *Client) Total(ctx context.Context) (decimal.Decimal, error) {
	sub, err := c.Subtotal(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return sub.Add(money.FlatShippingRate), nil
}
