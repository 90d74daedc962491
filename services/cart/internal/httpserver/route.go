package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webmarket/webmarket/pkg/authclient"
	authmw "github.com/webmarket/webmarket/pkg/middleware/auth"
)

type Deps struct {
	CartHandler *CartHTTP
	AuthClient  *authclient.Client
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := authmw.NewRemoteAuth(d.AuthClient)

	cart := e.Group("/api/cart")
	cart.Use(authMW.RequireUser)

	cart.POST("", d.CartHandler.AddToCart)
	cart.GET("", d.CartHandler.GetCart)
	cart.GET("/summary", d.CartHandler.GetSummary)
	cart.DELETE("/:item_id", d.CartHandler.RemoveItem)
}
