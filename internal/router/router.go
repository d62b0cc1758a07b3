// Package router initializes the Echo router.
//
// It installs the global middleware chain and error handler and registers
// the route groups, mapping paths to their handlers.
package router

import (
	"github.com/deppfellow/cpf-validator/internal/handler"
	"github.com/deppfellow/cpf-validator/internal/middleware"
	"github.com/deppfellow/cpf-validator/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance serving the whole HTTP API.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: request id and tracing first so every later layer can
	// log with them; recover wraps everything that runs a handler.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.Global.BodyLimit(),
	)

	registerSystemRoutes(router, s, h)

	limit := middlewares.RateLimit.Limit()
	registerLegacyRoutes(router, h, limit)

	v1 := router.Group("/api/v1", limit)
	registerCPFRoutes(v1, h)

	return router
}
