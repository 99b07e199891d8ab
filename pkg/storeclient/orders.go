package storeclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// SubmitOrder checks out the current cart. The server clears the cart
// as part of the submission, so the local cart cache is invalidated on
// success.
func (c *Client) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (*Order, error) {
	if req.FullName == "" || req.Email == "" || req.AddressLine1 == "" {
		return nil, fmt.Errorf("%w: name, email and address are required", ErrValidation)
	}

	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders/submit", req, &order); err != nil {
		return nil, err
	}

	c.cart.invalidate()
	return &order, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("%w: orderId required", ErrValidation)
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/orders/%s/cancel", orderID), nil, nil)
}

func (c *Client) Orders(ctx context.Context, page int, filters OrderFilters) ([]Order, *Meta, error) {
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if filters.FullName != "" {
		q.Set("fullName", filters.FullName)
	}
	if filters.Email != "" {
		q.Set("email", filters.Email)
	}
	if filters.Status != "" {
		q.Set("status", filters.Status)
	}

	var orders []Order
	meta, err := c.doList(ctx, "/orders?"+q.Encode(), &orders)
	if err != nil {
		return nil, nil, err
	}
	return orders, meta, nil
}
