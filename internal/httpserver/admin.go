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

// AdminHTTP carries the dashboard endpoints: catalog management,
// order status transitions, the customer table and revenue analytics.
type AdminHTTP struct {
	Catalog *service.CatalogService
	Orders  *service.OrderService
	Auth    *service.AuthService
}

func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Catalog.CreateProduct(ctx, req)
	if err != nil {
		l.Warn("create_product_error", "error", err)
		return mapServiceError(err)
	}

	l.Info("product_created", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHTTP) PatchProductType(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.patch_product_type")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product type id")
	}

	var req transport.PatchProductTypeRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_type_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pt, err := h.Catalog.PatchProductType(ctx, id, req)
	if err != nil {
		l.Warn("patch_product_type_error", "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, pt)
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Catalog.DeleteProduct(ctx, id); err != nil {
		l.Warn("delete_product_error", "error", err)
		return mapServiceError(err)
	}

	l.Info("product_deleted", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_status_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Orders.UpdateStatus(ctx, id, req.Status); err != nil {
		l.Warn("update_order_status_error", "error", err)
		return mapServiceError(err)
	}

	l.Info("order_status_updated", "order_id", id, "status", req.Status)
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_customers")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("perPage"))

	users, meta, err := h.Auth.ListCustomers(ctx, page, perPage)
	if err != nil {
		l.Error("list_customers_error", "status", 500, "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, transport.Envelope{Data: users, Meta: meta})
}

func (h *AdminHTTP) Revenue(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.revenue")

	resp, err := h.Orders.Revenue(ctx)
	if err != nil {
		l.Error("revenue_error", "status", 500, "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, resp)
}
