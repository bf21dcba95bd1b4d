package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the server-side settings of an application. Values come from
// built-in defaults, optionally overlaid by a YAML file, with environment
// variables taking final precedence.
type Config struct {
	// Addr is the listen address.
	Addr string `env:"PENCIL_ADDR" yaml:"addr"`

	// MaxBodyBytes caps how much of a request body is buffered before
	// parsing. Zero disables the cap.
	MaxBodyBytes int64 `env:"PENCIL_MAX_BODY_BYTES" yaml:"max_body_bytes"`

	ReadTimeout       time.Duration `env:"PENCIL_READ_TIMEOUT" yaml:"read_timeout"`
	WriteTimeout      time.Duration `env:"PENCIL_WRITE_TIMEOUT" yaml:"write_timeout"`
	IdleTimeout       time.Duration `env:"PENCIL_IDLE_TIMEOUT" yaml:"idle_timeout"`
	ReadHeaderTimeout time.Duration `env:"PENCIL_READ_HEADER_TIMEOUT" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `env:"PENCIL_SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout"`
	MaxHeaderBytes    int           `env:"PENCIL_MAX_HEADER_BYTES" yaml:"max_header_bytes"`

	// Sentry passthrough for the logger.
	SentryDSN         string `env:"SENTRY_DSN" yaml:"sentry_dsn"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" yaml:"sentry_environment"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		MaxBodyBytes:      10 << 20, // 10MB
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
		SentryEnvironment: "production",
	}
}

// LoadConfig builds a Config from defaults and environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile builds a Config from defaults, a YAML file, and environment
// variables, in that order of precedence (env wins).
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}
