package config

import (
	"fmt"
	"time"
)

// ObservabilityConfig groups all configuration related to telemetry.
//
// This includes:
//   - logging settings (format, level)
//   - APM/tracing provider settings (New Relic)
//   - health check settings
type ObservabilityConfig struct {
	// ServiceName identifies this service in logs/traces. Always forced to
	// ServiceName by Load.
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment splits telemetry by environment. Always copied from
	// Primary.Env by Load.
	Environment string `koanf:"environment" validate:"required"`

	Logging      LoggingConfig      `koanf:"logging" validate:"required"`
	NewRelic     NewRelicConfig     `koanf:"new_relic"`
	HealthChecks HealthChecksConfig `koanf:"health_checks"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level"`

	// Format selects the output format: "json" or "console".
	Format string `koanf:"format" validate:"required,oneof=json console"`
}

// NewRelicConfig holds configuration for New Relic APM and tracing.
//
// An empty LicenseKey disables New Relic entirely.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`

	// DebugLogging enables agent debug output. Keep it off in production,
	// it mixes into the JSON log stream.
	DebugLogging bool `koanf:"debug_logging"`
}

// Enabled reports whether a license key is configured.
func (n NewRelicConfig) Enabled() bool {
	return n.LicenseKey != ""
}

// HealthChecksConfig controls the dependency checks run by GET /status.
type HealthChecksConfig struct {
	Enabled bool `koanf:"enabled"`

	// Timeout is the max time allowed per dependency check.
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	// Checks lists the dependencies that make the service unhealthy when
	// they fail (currently only "redis").
	Checks []string `koanf:"checks" validate:"dive,oneof=redis"`
}

// Requires reports whether name is listed in Checks.
func (h HealthChecksConfig) Requires(name string) bool {
	for _, check := range h.Checks {
		if check == name {
			return true
		}
	}
	return false
}

// DefaultObservabilityConfig provides a safe set of defaults.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},

		NewRelic: NewRelicConfig{
			LicenseKey:                "",
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
			DebugLogging:              false,
		},

		HealthChecks: HealthChecksConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
		},
	}
}

// Validate applies rules that go beyond struct tags.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	// An empty level is allowed, GetLogLevel picks one from the environment.
	validLevels := map[string]bool{
		"":      true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	return nil
}

// GetLogLevel returns the effective log level to use at runtime.
//
// An unset level defaults to "info" in production and "debug" elsewhere.
func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level != "" {
		return c.Logging.Level
	}

	if c.IsProduction() {
		return "info"
	}
	return "debug"
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}
