package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/cpf-validator/internal/middleware"
	"github.com/deppfellow/cpf-validator/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthHandler serves the status endpoint used by load balancers and
// uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns the service status and dependency checks.
//
// Redis is pinged when a client is configured. A failing check only turns
// the response into 503 when it is listed in observability.health_checks.checks.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      statusHealthy,
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	healthCfg := h.server.Config.Observability.HealthChecks
	isHealthy := true

	if healthCfg.Enabled && h.server.Redis != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCfg.Timeout)
		defer cancel()

		redisStart := time.Now()

		if err := h.server.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = map[string]interface{}{
				"status":        statusUnhealthy,
				"response_time": time.Since(redisStart).String(),
				"error":         err.Error(),
			}

			if healthCfg.Requires("redis") {
				isHealthy = false
			}

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(redisStart)).
				Msg("redis health check failed")

			h.recordHealthError("redis", "redis_unhealthy", map[string]interface{}{
				"response_time_ms": time.Since(redisStart).Milliseconds(),
				"error_message":    err.Error(),
			})
		} else {
			checks["redis"] = map[string]interface{}{
				"status":        statusHealthy,
				"response_time": time.Since(redisStart).String(),
			}

			logger.Debug().
				Dur("response_time", time.Since(redisStart)).
				Msg("redis health check passed")
		}
	}

	if !isHealthy {
		response["status"] = statusUnhealthy

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthError("overall", "overall_unhealthy", map[string]interface{}{
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// recordHealthError sends a HealthCheckError custom event when New Relic is on.
func (h *HealthHandler) recordHealthError(checkType, errorType string, attrs map[string]interface{}) {
	attrs["check_type"] = checkType
	attrs["operation"] = "health_check"
	attrs["error_type"] = errorType
	h.server.LoggerService.RecordCustomEvent("HealthCheckError", attrs)
}
