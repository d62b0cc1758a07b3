// Package config manages environment variables.
//
// It reads variables (optionally from a `.env` file), loads them into
// structured Go types and validates them so the app fails fast on bad or
// missing config.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate values so the app refuses to start on bad config.
//   - Provide sane defaults for everything, so an empty environment runs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it is loaded into the
	// process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Key idea in this file:
	- Env vars are read using a prefix: CPF_
	- Keys are normalized (lowercased, prefix removed)
	- A double underscore marks nesting, mapped to koanf's "." delimiter
	  e.g. CPF_SERVER__PORT -> server.port -> Config.Server.Port
	- Comma separated values become lists
	  e.g. CPF_SERVER__CORS_ALLOWED_ORIGINS=a,b -> []string{"a", "b"}
*/

// EnvPrefix is the prefix every environment variable must carry.
const EnvPrefix = "CPF_"

// ServiceName identifies this service in logs, traces and APM dashboards.
const ServiceName = "cpf-validator"

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// BodyLimit caps request bodies, in Echo's size notation ("1K", "2M").
	BodyLimit string `koanf:"body_limit" validate:"required"`
}

// RedisConfig contains Redis connection details.
//
// Redis is optional. An empty Address disables it, and the rate limiter
// falls back to its in-memory store.
type RedisConfig struct {
	Address  string `koanf:"address" validate:"omitempty,hostname_port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// RateLimitConfig controls per-client request throttling.
type RateLimitConfig struct {
	Enabled bool `koanf:"enabled"`

	// RequestsPerSecond is the sustained rate allowed per client IP.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"required_if=Enabled true,gte=0"`

	// Burst is how many requests may arrive at once above the sustained rate.
	Burst int `koanf:"burst" validate:"gte=0"`

	// ExpiresIn is how long an idle client's limiter state is kept.
	ExpiresIn time.Duration `koanf:"expires_in" validate:"gte=0"`
}

// Default returns a Config that runs locally without any environment set.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			BodyLimit:          "1K",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
			ExpiresIn:         3 * time.Minute,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// Load loads configuration from environment variables on top of Default,
// validates it and returns the result.
//
// Unlike a fatal-on-error loader, every failure is returned so callers
// (and tests) decide what to do with it.
func Load() (*Config, error) {
	// The "." is the key-path delimiter koanf uses to represent nesting.
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(key, EnvPrefix), "__", "."))

		if strings.Contains(value, ",") {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return key, parts
		}

		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Start from defaults; Unmarshal only overwrites keys that are present.
	mainConfig := Default()

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced so telemetry is consistent.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
