// Package ratelimit provides the stores behind the per-client rate limiter.
//
// Two implementations satisfy Echo's middleware.RateLimiterStore:
//   - memory: token buckets per identifier (golang.org/x/time/rate), local
//     to one process
//   - redis: fixed one-second windows shared by every replica
//
// NewStore picks Redis when a client is configured, memory otherwise.
package ratelimit

import (
	"math"

	"github.com/deppfellow/cpf-validator/internal/config"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// NewStore returns the store matching the configuration.
func NewStore(cfg config.RateLimitConfig, client *redis.Client, logger *zerolog.Logger) middleware.RateLimiterStore {
	if client != nil {
		return NewRedisStore(client, WindowLimit(cfg), logger)
	}
	return NewMemoryStore(cfg)
}

// NewMemoryStore wraps Echo's in-memory token-bucket store.
func NewMemoryStore(cfg config.RateLimitConfig) middleware.RateLimiterStore {
	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.RequestsPerSecond),
		Burst:     cfg.Burst,
		ExpiresIn: cfg.ExpiresIn,
	})
}

// WindowLimit converts a rate and burst into the request count allowed per
// one-second window: the larger of the burst and the rounded-up rate.
func WindowLimit(cfg config.RateLimitConfig) int64 {
	limit := int64(math.Ceil(cfg.RequestsPerSecond))
	if burst := int64(cfg.Burst); burst > limit {
		limit = burst
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
