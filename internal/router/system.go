package router

import (
	"github.com/deppfellow/sportspredict/internal/handler"
	"github.com/deppfellow/sportspredict/internal/metrics"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the routes outside the rate-limited API:
// health, metrics and docs.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/health", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
