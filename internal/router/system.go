package router

import (
	"github.com/deppfellow/cpf-validator/internal/handler"
	"github.com/deppfellow/cpf-validator/internal/server"
	"github.com/deppfellow/cpf-validator/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the API
// proper. They are never rate limited.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
