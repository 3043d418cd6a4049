package router

import (
	"github.com/deppfellow/income-api/internal/handler"
	"github.com/deppfellow/income-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes mounts the endpoints that are not business logic:
// health, metrics, documentation and its static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", m.Metrics.Handler())

	r.Static("/static", "static")
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
