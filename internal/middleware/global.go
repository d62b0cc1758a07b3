package middleware

import (
	"net/http"
	"strconv"

	"github.com/deppfellow/cpf-validator/internal/errs"
	"github.com/deppfellow/cpf-validator/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups "global" middleware and the global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo's CORS middleware configured from server config.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	})
}

// BodyLimit caps request bodies. A CPF request is a few dozen bytes.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(global.server.Config.Server.BodyLimit)
}

// RequestLogger returns Echo's request logger middleware with a zerolog
// LogValuesFunc: one "API" log line per request, severity based on status,
// plus the Prometheus HTTP series.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error the global error handler has
			// not written the response yet, so derive the status from the error.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = statusFromError(v.Error)
			}

			if global.server.Metrics != nil {
				global.server.Metrics.ObserveHTTP(c.Path(), v.Method, strconv.Itoa(statusCode), v.Latency)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover returns Echo's panic recovery middleware.
// Panics become 500 responses through the global error handler.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every error ends up here and is translated into the errs.HTTPError JSON
// shape. The original error is logged; the client only sees the sanitized one.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err
	httpErr := toHTTPError(err)

	logger := GetLogger(c)

	var e *zerolog.Event
	if httpErr.Status >= 500 {
		e = logger.Error().Stack()
	} else {
		e = logger.Warn()
	}
	e.Err(originalErr).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}

	_ = c.JSON(httpErr.Status, httpErr)
}

// toHTTPError converts any error into the response shape.
func toHTTPError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return errs.NewNotFoundError("Route not found", false, nil)
		}

		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			message = msg
		}

		// Internal details never leak on 5xx.
		if echoErr.Code >= http.StatusInternalServerError {
			return errs.NewInternalServerError()
		}

		return &errs.HTTPError{
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Message: message,
			Status:  echoErr.Code,
		}
	}

	return errs.NewInternalServerError()
}

// statusFromError returns the status GlobalErrorHandler will write for err.
func statusFromError(err error) int {
	return toHTTPError(err).Status
}
