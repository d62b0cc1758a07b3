// Package server defines the Server struct that composes the app's main
// dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - optional redis client (shared rate-limit counters)
//   - prometheus metrics
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/deppfellow/cpf-validator/internal/config"
	"github.com/deppfellow/cpf-validator/internal/metrics"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/cpf-validator/internal/logger"
)

// redisPingTimeout bounds the startup connectivity check.
const redisPingTimeout = 5 * time.Second

// ErrNotInitialized is returned by Start and Serve before SetupHTTPServer.
var ErrNotInitialized = errors.New("HTTP server not initialized")

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself; it holds one, configured by
// SetupHTTPServer and started by Start.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService holds the optional New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// Redis is nil when no redis address is configured.
	Redis *redis.Client

	Metrics *metrics.Metrics

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// A configured but unreachable Redis does not block startup: the failure is
// logged and the rate limiter fails open until Redis comes back.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Metrics:       metrics.New(),
	}

	if cfg.Redis.Enabled() {
		server.Redis = newRedisClient(cfg.Redis, logger, loggerService)
	}

	return server, nil
}

func newRedisClient(cfg config.RedisConfig, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Instrument redis commands so they show up in distributed traces.
	if loggerService.GetApplication() != nil {
		client.AddHook(nrredis.NewHook(client.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Str("address", cfg.Address).Msg("failed to connect to redis, continuing without it")
	} else {
		logger.Info().Str("address", cfg.Address).Msg("connected to redis")
	}

	return client
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores whole seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start listens on the configured port and serves until Shutdown.
//
// It requires SetupHTTPServer to be called first. http.ErrServerClosed is
// returned after a graceful shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return ErrNotInitialized
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Serve serves on an existing listener. Used by tests and by callers that
// bind the socket themselves.
func (s *Server) Serve(l net.Listener) error {
	if s.httpServer == nil {
		return ErrNotInitialized
	}

	s.Logger.Info().
		Str("addr", l.Addr().String()).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.Serve(l)
}

// Shutdown gracefully shuts down the server and its dependencies.
//
// It stops the HTTP server (finishing in-flight requests until ctx
// expires), closes redis and flushes New Relic.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}

	s.LoggerService.Shutdown()

	return nil
}
