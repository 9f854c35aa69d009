package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks a loaded configuration against the struct tags plus the
// cross-field rules the tags cannot express.
//
// Returns a single error listing every violation, so an operator fixes a
// broken config in one round trip instead of one field at a time.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var problems []string

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		for _, fieldErr := range validationErrs {
			problems = append(problems, describeFieldError(fieldErr))
		}
	}

	// Cross-field rules.
	if cfg.Metrics.Enabled && cfg.Metrics.Port == cfg.API.Port {
		problems = append(problems, fmt.Sprintf(
			"metrics.port and api.port must differ (both %d)", cfg.API.Port))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// describeFieldError renders one validator violation as an operator-facing
// message keyed by the config file path of the field.
func describeFieldError(fieldErr validator.FieldError) string {
	path := configPath(fieldErr.Namespace())

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s (got %q)", path, fieldErr.Param(), fieldErr.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", path, fieldErr.Param())
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s (got %v)", path, fieldErr.Tag(), fieldErr.Param(), fieldErr.Value())
	default:
		return fmt.Sprintf("%s failed %q validation", path, fieldErr.Tag())
	}
}

// configPath converts a struct namespace like "Config.API.APIKey" into
// the lowercase dotted path operators see in the config file.
func configPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 0 && parts[0] == "Config" {
		parts = parts[1:]
	}
	for i, part := range parts {
		switch part {
		case "APIKey":
			parts[i] = "api_key"
		case "ShutdownTimeout":
			parts[i] = "shutdown_timeout"
		case "ReadTimeout":
			parts[i] = "read_timeout"
		case "WriteTimeout":
			parts[i] = "write_timeout"
		default:
			parts[i] = strings.ToLower(part)
		}
	}
	return strings.Join(parts, ".")
}
