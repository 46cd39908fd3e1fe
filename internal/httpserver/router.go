package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/auth"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	CatalogHandler  *CatalogHTTP
	CartHandler     *CartHTTP
	CheckoutHandler *CheckoutHTTP
	PaymentHandler  *PaymentHTTP
	AuthMW          *auth.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	v1.GET("/products", d.CatalogHandler.ListItems)
	v1.GET("/products/:slug", d.CatalogHandler.GetItem)
	v1.GET("/search", d.CatalogHandler.Search)

	admin := v1.Group("/admin", d.AuthMW.RequireAdmin)
	admin.POST("/products", d.CatalogHandler.CreateItem)
	admin.PATCH("/products/:slug", d.CatalogHandler.PatchItem)
	admin.DELETE("/products/:slug", d.CatalogHandler.DeleteItem)

	cart := v1.Group("/cart", d.AuthMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/:slug", d.CartHandler.AddToCart)
	cart.DELETE("/:slug", d.CartHandler.RemoveFromCart)
	cart.DELETE("/:slug/one", d.CartHandler.RemoveSingleFromCart)

	checkout := v1.Group("/checkout", d.AuthMW.RequireAuth)
	checkout.POST("", d.CheckoutHandler.Checkout)
	checkout.POST("/payment/:option", d.PaymentHandler.Pay)
}
