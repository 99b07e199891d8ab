package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/kmoroz/storefront/internal/middleware"
)

type Deps struct {
	Auth    *AuthHTTP
	Cart    *CartHTTP
	Order   *OrderHTTP
	Product *ProductHTTP
	Admin   *AdminHTTP

	AuthMW *mw.AuthMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)

	products := e.Group("/products")
	products.GET("", d.Product.List)
	products.GET("/search", d.Product.Search)
	products.GET("/admin/list", d.Product.List, d.AuthMW.RequireAdmin)
	products.POST("", d.Admin.CreateProduct, d.AuthMW.RequireAdmin)
	products.PATCH("/types/:id", d.Admin.PatchProductType, d.AuthMW.RequireAdmin)
	products.DELETE("/:id", d.Admin.DeleteProduct, d.AuthMW.RequireAdmin)
	products.GET("/:id", d.Product.Get)

	carts := e.Group("/carts", d.AuthMW.RequireAuth)
	carts.GET("", d.Cart.GetCart)
	carts.POST("/items", d.Cart.AddItem)
	carts.PATCH("/items/:itemId/quantity", d.Cart.UpdateQuantity)

	orders := e.Group("/orders", d.AuthMW.RequireAuth)
	orders.GET("", d.Order.List)
	orders.POST("/submit", d.Order.Submit)
	orders.POST("/:orderId/cancel", d.Order.Cancel)
	orders.PATCH("/:id/status", d.Admin.UpdateOrderStatus, d.AuthMW.RequireAdmin)

	admin := e.Group("/admin", d.AuthMW.RequireAdmin)
	admin.GET("/customers", d.Admin.ListCustomers)
	admin.GET("/revenue", d.Admin.Revenue)
}
