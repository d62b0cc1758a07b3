package middleware

import (
	"math"

	"github.com/deppfellow/cpf-validator/internal/errs"
	"github.com/deppfellow/cpf-validator/internal/ratelimit"
	"github.com/deppfellow/cpf-validator/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RateLimitMiddleware throttles requests per client IP and records every
// rejection in metrics and New Relic.
type RateLimitMiddleware struct {
	server *server.Server
	store  middleware.RateLimiterStore
}

// NewRateLimitMiddleware picks the Redis store when Redis is configured and
// the in-memory store otherwise.
func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
		store:  ratelimit.NewStore(s.Config.RateLimit, s.Redis, s.Logger),
	}
}

// Limit returns the Echo rate limiter. It is a pass-through when rate
// limiting is disabled.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	if !r.server.Config.RateLimit.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	retryAfter := 1
	if rps := r.server.Config.RateLimit.RequestsPerSecond; rps > 0 {
		retryAfter = int(math.Ceil(1 / rps))
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: r.store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			GetLogger(c).Error().Err(err).Msg("could not identify client for rate limiting")
			return errs.NewInternalServerError()
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().
				Str("identifier", identifier).
				Str("endpoint", c.Path()).
				Msg("rate limit exceeded")
			return errs.NewTooManyRequestsError("Too many requests, slow down.", retryAfter)
		},
	})
}

// RecordRateLimitHit records a rejected request for endpoint.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.Metrics != nil {
		r.server.Metrics.IncrementRateLimitHit(endpoint)
	}
	r.server.LoggerService.RecordCustomEvent("RateLimitHit", map[string]interface{}{
		"endpoint": endpoint,
	})
}
