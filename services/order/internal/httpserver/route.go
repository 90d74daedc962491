package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webmarket/webmarket/pkg/authclient"
	authmw "github.com/webmarket/webmarket/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler *OrderHTTP
	AuthClient   *authclient.Client
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := authmw.NewRemoteAuth(d.AuthClient)

	orders := e.Group("/api/orders")
	orders.Use(authMW.RequireUser)

	orders.POST("/checkout", d.OrderHandler.Checkout)
	orders.GET("", d.OrderHandler.ListOrders)
	// registered before :order_id so "summary" never parses as an id
	orders.GET("/summary/stats", d.OrderHandler.GetStats)
	orders.GET("/:order_id", d.OrderHandler.GetOrder)
	orders.PUT("/:order_id/cancel", d.OrderHandler.CancelOrder)
	orders.PUT("/:order_id/status", d.OrderHandler.UpdateStatus)
}
