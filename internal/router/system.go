package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/restaurant-pos/internal/handler"
)

// registerSystemRoutes registers the endpoints outside /api/v1: health,
// the docs page and its static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
