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

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("perPage"))

	products, meta, err := h.Svc.ListProducts(ctx, page, perPage)
	if err != nil {
		l.Error("list_products_error", "status", 500, "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, transport.Envelope{Data: products, Meta: meta})
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		l.Warn("get_product_error", "product_id", id, "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}

	total, products, err := h.Svc.SearchProducts(ctx, q, page, size)
	if err != nil {
		l.Warn("search_products_error", "query", q, "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, transport.Envelope{
		Data: products,
		Meta: transport.NewMeta(page, total, size),
	})
}
