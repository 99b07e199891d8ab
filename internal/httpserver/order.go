package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kmoroz/storefront/internal/service"
	"github.com/kmoroz/storefront/internal/transport"
	"github.com/kmoroz/storefront/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.submit")

	uid, err := userID(c)
	if err != nil {
		l.Error("submit_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.SubmitOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("submit_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Submit(ctx, uid, req)
	if err != nil {
		l.Warn("submit_order_error", "error", err)
		return mapServiceError(err)
	}

	l.Info("order_submitted", "order_id", order.ID, "total", order.TotalPrice)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	uid, err := userID(c)
	if err != nil {
		l.Error("cancel_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		l.Warn("cancel_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	if err := h.Svc.Cancel(ctx, orderID, uid); err != nil {
		l.Warn("cancel_order_error", "error", err)
		return mapServiceError(err)
	}

	l.Info("order_canceled", "order_id", orderID)
	return c.NoContent(http.StatusNoContent)
}

// List returns the caller's orders; admins see all orders and may
// filter by the customer name/email on the delivery address.
func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	uid, err := userID(c)
	if err != nil {
		l.Error("list_orders_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	filters := transport.OrderFilters{
		FullName: c.QueryParam("fullName"),
		Email:    c.QueryParam("email"),
		Status:   c.QueryParam("status"),
	}

	scope := &uid
	if isAdmin(c) {
		scope = nil
	}

	orders, meta, err := h.Svc.List(ctx, scope, filters, page, 10)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, transport.Envelope{Data: orders, Meta: meta})
}
