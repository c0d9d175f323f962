package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minhtri-dev/coffeeshop/internal/jwtmiddleware"
)

type Deps struct {
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	LoyaltyHandler *LoyaltyHTTP
	SearchHandler  *SearchHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := jwtmiddleware.RequireAuth(d.JWTSecret)

	cart := e.Group("/cart", authMW)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddItem)
	cart.DELETE("", d.CartHandler.Clear)
	cart.PATCH("/items/:id", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:id", d.CartHandler.RemoveItem)
	cart.POST("/voucher", d.CartHandler.ApplyVoucher)
	cart.DELETE("/voucher", d.CartHandler.RemoveVoucher)

	orders := e.Group("/orders", authMW)
	orders.POST("", d.OrderHandler.Checkout)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/:id/cancel", d.OrderHandler.Cancel)
	orders.POST("/:id/reorder", d.OrderHandler.Reorder)
	orders.PATCH("/:id/status", d.OrderHandler.AdvanceStatus)
	orders.PATCH("/:id/payment", d.OrderHandler.UpdatePaymentStatus)

	loyalty := e.Group("/loyalty", authMW)
	loyalty.GET("", d.LoyaltyHandler.GetSummary)
	loyalty.GET("/history", d.LoyaltyHandler.GetHistory)
	loyalty.POST("/redeem", d.LoyaltyHandler.Redeem)

	if d.SearchHandler != nil && d.SearchHandler.ES != nil {
		e.GET("/menu/search", d.SearchHandler.SearchMenu, authMW)
	}
}
