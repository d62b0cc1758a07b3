package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyPrefix = "cpf:ratelimit:"

	// window is the fixed counting window.
	window = time.Second

	// opTimeout bounds a single Redis round trip.
	opTimeout = 250 * time.Millisecond
)

// RedisStore counts requests per identifier in fixed one-second windows.
//
// When Redis is unreachable the store fails open: the request is allowed and
// the error is logged.
type RedisStore struct {
	client *redis.Client
	limit  int64
	logger *zerolog.Logger
	now    func() time.Time
}

// NewRedisStore creates a RedisStore allowing limit requests per window.
func NewRedisStore(client *redis.Client, limit int64, logger *zerolog.Logger) *RedisStore {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RedisStore{
		client: client,
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

// Allow implements middleware.RateLimiterStore.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	key := s.key(identifier)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		// The key is dead once its window passes; two windows leaves slack for clock skew.
		pipe.Expire(ctx, key, 2*window)
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("identifier", identifier).
			Msg("rate limit store unavailable, allowing request")
		return true, fmt.Errorf("rate limit incr: %w", err)
	}

	return incr.Val() <= s.limit, nil
}

// key returns the counter key for identifier in the current window.
func (s *RedisStore) key(identifier string) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, identifier, s.now().Unix())
}
