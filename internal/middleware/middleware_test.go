package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/cpf-validator/internal/config"
	"github.com/deppfellow/cpf-validator/internal/errs"
	"github.com/deppfellow/cpf-validator/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *server.Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)
	return s
}

func TestRequestID_GeneratesAndReuses(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestGetLogger_FallsBackToNop(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
}

func TestEnhanceContext_StoresLoggerInRequestContext(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(t, nil)
	logger := zerolog.New(&logs)
	s.Logger = &logger

	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())
	e.GET("/check", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from service")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, logs.String(), `"request_id":"req-42"`)
	assert.Contains(t, logs.String(), `"path":"/check"`)
}

func TestGlobalErrorHandler(t *testing.T) {
	s := newTestServer(t, nil)
	global := NewGlobalMiddlewares(s)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"custom error passes through", errs.NewInvalidCPFError(), http.StatusBadRequest, errs.CodeInvalidCPF},
		{"echo 404 becomes route not found", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"echo 413 keeps status", echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "REQUEST_ENTITY_TOO_LARGE"},
		{"unknown error is sanitized", errors.New("boom: secret"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.NotContains(t, rec.Body.String(), "secret")
		})
	}
}

func TestRateLimit_DeniesAfterBurst(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.RequestsPerSecond = 0.001
		cfg.RateLimit.Burst = 2
	})
	rl := NewRateLimitMiddleware(s)
	global := NewGlobalMiddlewares(s)

	e := echo.New()
	e.HTTPErrorHandler = global.GlobalErrorHandler
	e.Use(rl.Limit())
	e.POST("/limited", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	do := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/limited", nil))
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do().Code)
	assert.Equal(t, http.StatusNoContent, do().Code)

	rec := do()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TOO_MANY_REQUESTS", body.Code)
	require.NotNil(t, body.Action)
	assert.Equal(t, errs.ActionTypeRetry, body.Action.Type)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.RateLimitHits.WithLabelValues("/limited")))
}

func TestRateLimit_Disabled(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.Enabled = false
		cfg.RateLimit.Burst = 0
		cfg.RateLimit.RequestsPerSecond = 0
	})

	e := echo.New()
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}
