package handler

import (
	"github.com/deppfellow/cpf-validator/internal/server"
	"github.com/deppfellow/cpf-validator/internal/service"
	"github.com/deppfellow/cpf-validator/static"
)

// Handlers groups all HTTP handlers so the router takes a single value.
type Handlers struct {
	CPF     *CPFHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		CPF:     NewCPFHandler(s, services.CPF),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s, static.FS, static.OpenAPIUI),
	}
}
