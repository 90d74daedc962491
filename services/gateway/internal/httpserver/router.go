package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthURL    string
	CatalogURL string
	CartURL    string
	OrderURL   string
}

// Register wires path-prefix routes to the backing services. Each service
// mounts its own full paths, so nothing is stripped; the gateway only picks
// the upstream.
func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authProxy, err := newProxy(d.AuthURL)
	if err != nil {
		return err
	}
	catalogProxy, err := newProxy(d.CatalogURL)
	if err != nil {
		return err
	}
	cartProxy, err := newProxy(d.CartURL)
	if err != nil {
		return err
	}
	orderProxy, err := newProxy(d.OrderURL)
	if err != nil {
		return err
	}

	e.Any("/auth/*", authProxy)

	e.Any("/products", catalogProxy)
	e.Any("/products/*", catalogProxy)
	e.Any("/categories", catalogProxy)
	e.Any("/categories/*", catalogProxy)

	e.Any("/api/cart", cartProxy)
	e.Any("/api/cart/*", cartProxy)

	e.Any("/api/orders", orderProxy)
	e.Any("/api/orders/*", orderProxy)

	return nil
}
