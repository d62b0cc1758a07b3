// Package logger configures the application's logging and
// monitoring.
//
// It uses *ZeroLog* for logging and integrates with
// *New Relic* to forward logs and attach trace context
// to log lines.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/deppfellow/cpf-validator/internal/config"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// shutdownTimeout bounds how long the agent may spend flushing on exit.
const shutdownTimeout = 10 * time.Second

// LoggerService owns the optional New Relic application.
//
// A LoggerService without an application is valid: every caller checks
// GetApplication() for nil and degrades to plain logging.
type LoggerService struct {
	nrApp *newrelic.Application
}

// NewLoggerService starts the New Relic agent when a license key is set.
//
// Agent startup failures are reported but never fatal; the service simply
// runs without APM.
func NewLoggerService(cfg *config.ObservabilityConfig) (*LoggerService, error) {
	service := &LoggerService{}

	if !cfg.NewRelic.Enabled() {
		return service, nil
	}

	configOptions := []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.ServiceName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(cfg.NewRelic.AppLogForwardingEnabled),
		newrelic.ConfigDistributedTracerEnabled(cfg.NewRelic.DistributedTracingEnabled),
		newrelic.ConfigEnabled(true),
		func(c *newrelic.Config) {
			c.Labels = map[string]string{"environment": cfg.Environment}
		},
	}

	if cfg.NewRelic.DebugLogging {
		configOptions = append(configOptions, newrelic.ConfigDebugLogger(os.Stdout))
	}

	app, err := newrelic.NewApplication(configOptions...)
	if err != nil {
		return service, fmt.Errorf("failed to initialize new relic: %w", err)
	}

	service.nrApp = app
	return service, nil
}

// GetApplication returns the New Relic application, or nil when disabled.
func (ls *LoggerService) GetApplication() *newrelic.Application {
	if ls == nil {
		return nil
	}
	return ls.nrApp
}

// RecordCustomEvent forwards an event to New Relic when it is enabled.
func (ls *LoggerService) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if app := ls.GetApplication(); app != nil {
		app.RecordCustomEvent(eventType, params)
	}
}

// Shutdown flushes and stops the New Relic agent.
func (ls *LoggerService) Shutdown() {
	if app := ls.GetApplication(); app != nil {
		app.Shutdown(shutdownTimeout)
	}
}

// NewLogger builds the application logger writing to stdout.
func NewLogger(cfg *config.ObservabilityConfig, loggerService *LoggerService) zerolog.Logger {
	return NewLoggerWithWriter(cfg, loggerService, os.Stdout)
}

// NewLoggerWithWriter builds the application logger on top of out.
//
// Output format:
//   - "json": raw JSON lines, forwarded to New Relic when enabled
//   - "console": human-friendly colored output for local work
func NewLoggerWithWriter(cfg *config.ObservabilityConfig, loggerService *LoggerService, out io.Writer) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var writer io.Writer
	if cfg.Logging.Format == "json" {
		writer = out
		if app := loggerService.GetApplication(); app != nil {
			nrWriter := zerologWriter.New(out, app)
			writer = nrWriter
		}
	} else {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
	}

	logger := zerolog.New(writer).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()

	// Stack traces are noisy; keep them out of production logs.
	if !cfg.IsProduction() {
		logger = logger.With().Stack().Logger()
	}

	return logger
}

// WithTraceContext adds trace.id and span.id from txn to logger.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return logger
	}

	metadata := txn.GetTraceMetadata()

	return logger.With().
		Str("trace.id", metadata.TraceID).
		Str("span.id", metadata.SpanID).
		Logger()
}
