package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a configuration that passes validation; tests break
// one field at a time.
func validConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stdout",
		},
		Server: ServerConfig{
			ShutdownTimeout: 30 * time.Second,
		},
		API: APIConfig{
			Port:         8080,
			APIKey:       "secret",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
		Store: StoreConfig{
			Type: "memory",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Expected valid config to pass, got: %v", err)
	}
}

func TestValidate_NilConfig(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatal("Expected an error for a nil config")
	}
}

func TestValidate_FieldViolations(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		mention string
	}{
		{
			name:    "InvalidLogLevel",
			mutate:  func(c *Config) { c.Logging.Level = "LOUD" },
			mention: "logging.level",
		},
		{
			name:    "InvalidLogFormat",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			mention: "logging.format",
		},
		{
			name:    "MissingAPIKey",
			mutate:  func(c *Config) { c.API.APIKey = "" },
			mention: "api.api_key",
		},
		{
			name:    "PortOutOfRange",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			mention: "api.port",
		},
		{
			name:    "ZeroShutdownTimeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			mention: "server.shutdown_timeout",
		},
		{
			name:    "UnknownStoreType",
			mutate:  func(c *Config) { c.Store.Type = "tape" },
			mention: "store.type",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.mention) {
				t.Errorf("Expected the error to mention %q, got: %v", tc.mention, err)
			}
		})
	}
}

func TestValidate_MetricsPortCollision(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = cfg.API.Port

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected an error when metrics and api share a port")
	}
	if !strings.Contains(err.Error(), "metrics.port") {
		t.Errorf("Expected the error to mention metrics.port, got: %v", err)
	}

	// Collision is fine while metrics are disabled.
	cfg.Metrics.Enabled = false
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected disabled metrics to skip the port check, got: %v", err)
	}
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.API.APIKey = ""
	cfg.Logging.Level = "LOUD"
	cfg.Store.Type = "tape"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	for _, mention := range []string{"api.api_key", "logging.level", "store.type"} {
		if !strings.Contains(err.Error(), mention) {
			t.Errorf("Expected the combined error to mention %q, got: %v", mention, err)
		}
	}
}
