package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/cpf-validator/internal/config"
	"github.com/deppfellow/cpf-validator/internal/errs"
	"github.com/deppfellow/cpf-validator/internal/handler"
	"github.com/deppfellow/cpf-validator/internal/server"
	"github.com/deppfellow/cpf-validator/internal/service"
	"github.com/deppfellow/cpf-validator/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	suite.Suite
	server *server.Server
	router *echo.Echo
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.server, s.router = newTestRouter(s.T(), func(cfg *config.Config) {
		cfg.RateLimit.Enabled = false
	})
}

func newTestRouter(t *testing.T, mutate func(*config.Config)) (*server.Server, *echo.Echo) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	logger := zerolog.Nop()
	srv, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	services := service.NewServices(srv)
	return srv, NewRouter(srv, handler.NewHandlers(srv, services))
}

func (s *RouterSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) decodeError(rec *httptest.ResponseRecorder) errs.HTTPError {
	var httpErr errs.HTTPError
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &httpErr), rec.Body.String())
	return httpErr
}

func (s *RouterSuite) TestValidate_Valid() {
	for _, path := range []string{"/api/v1/cpf/validate", "/", LegacyFunctionPath} {
		rec := s.do(http.MethodPost, path, `{"cpf":"529.982.247-25"}`)
		s.Equal(http.StatusOK, rec.Code, path)

		var res map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
		s.Equal(handler.MessageValidCPF, res["message"], path)
		s.Equal("529.982.247-25", res["cpf"], path)
	}
}

func (s *RouterSuite) TestValidate_InvalidCandidates() {
	bodies := map[string]string{
		"wrong check digit": `{"cpf":"52998224726"}`,
		"repeated digits":   `{"cpf":"111.111.111-11"}`,
		"empty string":      `{"cpf":""}`,
		"null":              `{"cpf":null}`,
		"absent field":      `{}`,
		"other fields only": `{"document":"52998224725"}`,
		"empty body":        ``,
		"number":            `{"cpf":52998224725}`,
		"boolean":           `{"cpf":true}`,
		"object":            `{"cpf":{}}`,
		"array":             `{"cpf":["52998224725"]}`,
	}

	for name, body := range bodies {
		for _, path := range []string{"/api/v1/cpf/validate", LegacyFunctionPath} {
			s.Run(name+" "+path, func() {
				rec := s.do(http.MethodPost, path, body)
				s.Equal(http.StatusBadRequest, rec.Code)

				httpErr := s.decodeError(rec)
				s.Equal(errs.CodeInvalidCPF, httpErr.Code)
				s.Equal(errs.MessageInvalidCPF, httpErr.Message)
			})
		}
	}
}

func (s *RouterSuite) TestValidate_AnyContentTypeReadsJSON() {
	for _, contentType := range []string{echo.MIMETextPlain, echo.MIMEApplicationForm, "application/octet-stream"} {
		req := httptest.NewRequest(http.MethodPost, LegacyFunctionPath, strings.NewReader(`{"cpf":"529.982.247-25"}`))
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		s.Equal(http.StatusOK, rec.Code, contentType)
	}
}

func (s *RouterSuite) TestValidate_MalformedJSON() {
	for _, body := range []string{`{"cpf":`, `"52998224725"`, `[1,2]`} {
		rec := s.do(http.MethodPost, "/api/v1/cpf/validate", body)
		s.Equal(http.StatusBadRequest, rec.Code, body)

		httpErr := s.decodeError(rec)
		s.Equal("BAD_REQUEST", httpErr.Code, body)
		s.Equal(validation.MessageInvalidBody, httpErr.Message, body)
		s.NotContains(rec.Body.String(), "model.", body)
	}

	valid := testutil.ToFloat64(s.server.Metrics.Validations.WithLabelValues("valid", "none"))
	s.Zero(valid, "core must not run for unparsable bodies")
}

func (s *RouterSuite) TestValidate_RecordsMetrics() {
	s.do(http.MethodPost, "/api/v1/cpf/validate", `{"cpf":"52998224725"}`)
	s.do(http.MethodPost, "/api/v1/cpf/validate", `{"cpf":"52998224726"}`)

	m := s.server.Metrics
	s.Equal(1.0, testutil.ToFloat64(m.Validations.WithLabelValues("valid", "none")))
	s.Equal(1.0, testutil.ToFloat64(m.Validations.WithLabelValues("invalid", "second_check_digit")))
	s.Equal(1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/v1/cpf/validate", http.MethodPost, "400")))
}

func (s *RouterSuite) TestValidate_BodyTooLarge() {
	body := `{"cpf":"` + strings.Repeat("1", 2048) + `"}`
	rec := s.do(http.MethodPost, "/api/v1/cpf/validate", body)
	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
}

func (s *RouterSuite) TestValidateBatch() {
	rec := s.do(http.MethodPost, "/api/v1/cpf/validate/batch", `{"cpfs":["52998224725","nope","111.444.777-35",""]}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Results []struct {
			Valid bool   `json:"valid"`
			CPF   string `json:"cpf"`
		} `json:"results"`
		ValidCount int `json:"valid_count"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Require().Len(res.Results, 4)

	s.Equal(2, res.ValidCount)
	s.True(res.Results[0].Valid)
	s.Equal("529.982.247-25", res.Results[0].CPF)
	s.False(res.Results[1].Valid)
	s.Empty(res.Results[1].CPF)
	s.Equal("111.444.777-35", res.Results[2].CPF)
	s.False(res.Results[3].Valid)
}

func (s *RouterSuite) TestValidateBatch_Bounds() {
	rec := s.do(http.MethodPost, "/api/v1/cpf/validate/batch", `{"cpfs":[]}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	httpErr := s.decodeError(rec)
	s.Require().Len(httpErr.Errors, 1)
	s.Equal("cpfs", httpErr.Errors[0].Field)

	items := make([]string, service.MaxBatchSize+1)
	for i := range items {
		items[i] = `"1"`
	}
	big := `{"cpfs":[` + strings.Join(items, ",") + `]}`

	// Lift the body limit so the size check is what rejects the batch.
	_, router := newTestRouter(s.T(), func(cfg *config.Config) {
		cfg.RateLimit.Enabled = false
		cfg.Server.BodyLimit = "64K"
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cpf/validate/batch", strings.NewReader(big))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterSuite) TestFormat() {
	rec := s.do(http.MethodGet, "/api/v1/cpf/52998224725", "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var res map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Equal("529.982.247-25", res["cpf"])
	s.Equal("52998224725", res["digits"])

	rec = s.do(http.MethodGet, "/api/v1/cpf/52998224726", "")
	s.Equal(http.StatusBadRequest, rec.Code)
	httpErr := s.decodeError(rec)
	s.Require().Len(httpErr.Errors, 1)
	s.Equal("must be a valid CPF", httpErr.Errors[0].Error)
}

func (s *RouterSuite) TestSystemRoutes() {
	rec := s.do(http.MethodGet, "/status", "")
	s.Equal(http.StatusOK, rec.Code)
	var health map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &health))
	s.Equal("healthy", health["status"])
	s.Equal("development", health["environment"])

	rec = s.do(http.MethodGet, "/metrics", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "cpf_validations_total")

	rec = s.do(http.MethodGet, "/docs", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get(echo.HeaderContentType), "text/html")
	s.Equal("no-cache", rec.Header().Get("Cache-Control"))

	rec = s.do(http.MethodGet, "/static/openapi.json", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "/api/v1/cpf/validate")
}

func (s *RouterSuite) TestNotFound() {
	rec := s.do(http.MethodGet, "/nope", "")
	s.Equal(http.StatusNotFound, rec.Code)

	httpErr := s.decodeError(rec)
	s.Equal("NOT_FOUND", httpErr.Code)
	s.Equal("Route not found", httpErr.Message)
}

func (s *RouterSuite) TestRequestIDEchoed() {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal("abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRateLimit_AppliesToAPIOnly(t *testing.T) {
	_, router := newTestRouter(t, func(cfg *config.Config) {
		cfg.RateLimit.RequestsPerSecond = 0.001
		cfg.RateLimit.Burst = 1
	})

	post := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"cpf":"52998224725"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post("/api/v1/cpf/validate"))
	assert.Equal(t, http.StatusTooManyRequests, post("/api/v1/cpf/validate"))
	assert.Equal(t, http.StatusTooManyRequests, post(LegacyFunctionPath), "limit is shared per client across routes")

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
