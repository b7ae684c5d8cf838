// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/restaurant-catalog/internal/handler"
)

// RegisterRoutes registers the operational endpoints: the health check used
// by load balancers and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterCatalog registers the read-only catalog listings under /api.
// The cache middleware serves repeated reads from Redis until the next
// import purges them.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api", cache)
	g.GET("/restaurants", h.ListRestaurants)
	g.GET("/restaurants/:id", h.GetRestaurant)
	g.GET("/menus", h.ListMenus)
	g.GET("/menus/:id", h.GetMenu)
	g.GET("/menu_items", h.ListMenuItems)
}

// RegisterImports registers the bulk import endpoint behind the rate
// limiter.
func RegisterImports(e *echo.Echo, h *handler.ImportHandler, limiter echo.MiddlewareFunc) {
	e.POST("/api/imports", h.Create, limiter)
}
