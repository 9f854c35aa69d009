package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes a config file into a fresh temp directory.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return configPath
}

func TestLoad_MinimalConfig(t *testing.T) {
	configPath := writeConfig(t, `
api:
  api_key: "secret"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify defaults were applied
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics disabled by default")
	}
	if cfg.Store.Type != "file" {
		t.Errorf("Expected default store type 'file', got %q", cfg.Store.Type)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: "DEBUG"
  format: "json"

server:
  shutdown_timeout: "5s"

api:
  host: "127.0.0.1"
  port: 9000
  api_key: "secret"
  read_timeout: "3s"

metrics:
  enabled: true
  port: 9100

store:
  type: "badger"
  badger:
    db_path: "/var/lib/vapor/badger"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format 'json', got %q", cfg.Logging.Format)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected shutdown_timeout 5s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.API.Host != "127.0.0.1" || cfg.API.Port != 9000 {
		t.Errorf("Unexpected API binding: %s:%d", cfg.API.Host, cfg.API.Port)
	}
	if cfg.API.ReadTimeout != 3*time.Second {
		t.Errorf("Expected read_timeout 3s, got %v", cfg.API.ReadTimeout)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != 9100 {
		t.Errorf("Unexpected metrics config: %+v", cfg.Metrics)
	}
	if cfg.Store.Type != "badger" {
		t.Errorf("Expected store type 'badger', got %q", cfg.Store.Type)
	}
	if cfg.Store.Badger["db_path"] != "/var/lib/vapor/badger" {
		t.Errorf("Badger options not decoded: %+v", cfg.Store.Badger)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("VAPOR_API_API_KEY", "from-env")

	// A missing file is fine as long as validation passes.
	nonExistentPath := filepath.Join(t.TempDir(), "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error with missing config file, got: %v", err)
	}
	if cfg.API.APIKey != "from-env" {
		t.Errorf("Expected api key from environment, got %q", cfg.API.APIKey)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("VAPOR_API_PORT", "9999")
	t.Setenv("VAPOR_LOGGING_LEVEL", "ERROR")

	configPath := writeConfig(t, `
api:
  api_key: "secret"
  port: 8081
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Environment beats file beats defaults.
	if cfg.API.Port != 9999 {
		t.Errorf("Expected env override port 9999, got %d", cfg.API.Port)
	}
	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected env override level 'ERROR', got %q", cfg.Logging.Level)
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	configPath := writeConfig(t, `
api:
  port: 8080
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected an error for a missing api key")
	}
	if !strings.Contains(err.Error(), "api.api_key") {
		t.Errorf("Expected the error to name api.api_key, got: %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "logging: [unclosed")

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected an error for malformed YAML")
	}
}
