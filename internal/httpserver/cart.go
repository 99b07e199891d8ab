package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kmoroz/storefront/internal/service"
	"github.com/kmoroz/storefront/internal/transport"
	"github.com/kmoroz/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	uid, err := userID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.Svc.GetCart(ctx, uid)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	uid, err := userID(c)
	if err != nil {
		l.Error("add_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.AddItem(ctx, uid, req.ProductTypeID, req.Quantity)
	if err != nil {
		l.Warn("add_item_error", "error", err)
		return mapServiceError(err)
	}

	l.Info("cart_item_added", "product_type_id", req.ProductTypeID, "quantity", req.Quantity)
	return c.JSON(http.StatusCreated, cart)
}

// UpdateQuantity handles PATCH /carts/items/:itemId/quantity. A zero
// quantity means removal and must arrive with confirmed=true; the
// unconfirmed form is answered with 409 so the caller can run its
// confirmation step and resubmit.
func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	uid, err := userID(c)
	if err != nil {
		l.Error("update_quantity_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity == nil {
		l.Warn("update_quantity_error", "status", 400, "reason", "quantity missing")
		return echo.NewHTTPError(http.StatusBadRequest, "quantity required")
	}

	removed, err := h.Svc.SetQuantity(ctx, uid, itemID, *req.Quantity, req.Confirmed)
	if err != nil {
		l.Warn("update_quantity_error", "error", err)
		return mapServiceError(err)
	}

	l.Info("cart_quantity_updated", "item_id", itemID, "quantity", *req.Quantity, "removed", removed)
	return c.NoContent(http.StatusNoContent)
}
