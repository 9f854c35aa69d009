// Package config loads, defaults and validates the vapord configuration.
//
// Configuration sources, in order of precedence:
//  1. Environment variables (VAPOR_*, e.g. VAPOR_API_PORT)
//  2. Configuration file (YAML)
//  3. Default values
//
// Store configuration pattern:
// The store section selects one backend with its type field and carries a
// type-specific option map per backend; only the map matching the selected
// type is used. CreateServerStore (factories.go) decodes the options and
// constructs the backend.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete vapord configuration.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains server-wide settings.
	Server ServerConfig `mapstructure:"server"`

	// API configures the HTTP inbound adapter.
	API APIConfig `mapstructure:"api"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Store selects and configures the persistence backend.
	Store StoreConfig `mapstructure:"store"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format: text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written: stdout, stderr, or a file
	// path.
	Output string `mapstructure:"output" validate:"required"`
}

// ServerConfig contains server-wide settings.
type ServerConfig struct {
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// APIConfig configures the HTTP API adapter.
type APIConfig struct {
	// Host is the address to bind to. Empty binds all interfaces.
	Host string `mapstructure:"host"`

	// Port to listen on.
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`

	// APIKey is the shared secret required in the X-API-Key header.
	// Required; there is no default secret.
	APIKey string `mapstructure:"api_key" validate:"required"`

	// ReadTimeout bounds request reads.
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"gt=0"`

	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`

	// RateLimit is the sustained request rate in requests per second.
	// Zero disables rate limiting.
	RateLimit uint `mapstructure:"rate_limit"`

	// RateLimitBurst is the burst capacity above the sustained rate.
	RateLimitBurst uint `mapstructure:"rate_limit_burst"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled turns metrics collection and the /metrics endpoint on.
	Enabled bool `mapstructure:"enabled"`

	// Port for the metrics HTTP server.
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// StoreConfig specifies the persistence backend.
//
// The Type field determines which backend is used. Only the corresponding
// option map is consulted.
type StoreConfig struct {
	// Type selects the backend: file, memory, badger or s3.
	Type string `mapstructure:"type" validate:"required,oneof=file memory badger s3"`

	// File contains file-backend options (directory).
	File map[string]any `mapstructure:"file"`

	// Memory contains memory-backend options (none currently).
	Memory map[string]any `mapstructure:"memory"`

	// Badger contains badger-backend options (db_path).
	Badger map[string]any `mapstructure:"badger"`

	// S3 contains s3-backend options (bucket, region, key_prefix,
	// endpoint, access_key_id, secret_access_key).
	S3 map[string]any `mapstructure:"s3"`
}

// Load reads the configuration from configPath (optional), environment
// variables and defaults, then validates it.
//
// A missing config file is not an error: defaults plus environment
// variables form a complete configuration as long as validation passes.
// A present but malformed file is an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("VAPOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" && fileExists(configPath) {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
