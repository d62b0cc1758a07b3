package router

import (
	"net/http"

	"github.com/deppfellow/cpf-validator/internal/handler"
	"github.com/labstack/echo/v4"
)

// LegacyFunctionPath is the route of the single-function deployment this
// service replaces. It answers exactly like /api/v1/cpf/validate.
const LegacyFunctionPath = "/api/ValidateCpfFunction"

func registerCPFRoutes(g *echo.Group, h *handler.Handlers) {
	cpf := g.Group("/cpf")

	cpf.POST("/validate", handler.Handle(h.CPF.Handler, h.CPF.Validate, http.StatusOK))
	cpf.POST("/validate/batch", handler.Handle(h.CPF.Handler, h.CPF.ValidateBatch, http.StatusOK))
	cpf.GET("/:cpf", handler.Handle(h.CPF.Handler, h.CPF.Format, http.StatusOK))
}

func registerLegacyRoutes(r *echo.Echo, h *handler.Handlers, limit echo.MiddlewareFunc) {
	validate := handler.Handle(h.CPF.Handler, h.CPF.Validate, http.StatusOK)

	r.POST("/", validate, limit)
	r.POST(LegacyFunctionPath, validate, limit)
}
