package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/deppfellow/cpf-validator/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerService_DisabledWithoutLicense(t *testing.T) {
	svc, err := NewLoggerService(config.DefaultObservabilityConfig())
	require.NoError(t, err)
	assert.Nil(t, svc.GetApplication())

	// Safe no-ops without an application.
	svc.RecordCustomEvent("Test", map[string]interface{}{"k": "v"})
	svc.Shutdown()

	var nilSvc *LoggerService
	assert.Nil(t, nilSvc.GetApplication())
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "info"

	var buf bytes.Buffer
	log := NewLoggerWithWriter(cfg, nil, &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("cpf", "529.***.***-25").Msg("validated")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "validated", line["message"])
	assert.Equal(t, config.ServiceName, line["service"])
	assert.Equal(t, "development", line["environment"])
	assert.Equal(t, "529.***.***-25", line["cpf"])
}

func TestNewLoggerWithWriter_Console(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "console"

	var buf bytes.Buffer
	log := NewLoggerWithWriter(cfg, nil, &buf)
	log.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(config.DefaultObservabilityConfig(), nil, &buf)

	same := WithTraceContext(log, nil)
	same.Info().Msg("x")

	assert.NotContains(t, buf.String(), "trace.id")
}
