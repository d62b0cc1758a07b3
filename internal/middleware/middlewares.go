package middleware

import (
	"github.com/deppfellow/cpf-validator/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server,
// built once from the application container and reused by the router.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers, body
	// limit and the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer enriches each request with a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and attributes.
	Tracing *TracingMiddleware

	// RateLimit throttles API routes per client.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components.
//
// When New Relic is not configured the tracing middleware degrades to a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, s.LoggerService.GetApplication()),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
