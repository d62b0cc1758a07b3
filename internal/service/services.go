package service

import (
	"github.com/deppfellow/cpf-validator/internal/server"
)

// Services groups every business service so handlers take a single value.
type Services struct {
	CPF *CPFService
}

// NewServices constructs all services from the application container.
func NewServices(s *server.Server) *Services {
	return &Services{
		CPF: NewCPFService(s.Logger, s.Metrics),
	}
}
