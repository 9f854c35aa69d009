package config

import (
	"github.com/spf13/viper"
)

// setDefaults registers the default value for every configurable key.
//
// Defaults are the lowest-precedence configuration source: the config
// file and VAPOR_* environment variables both override them. The API key
// deliberately has no usable default.
func setDefaults(v *viper.Viper) {
	// Logging
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	// Server
	v.SetDefault("server.shutdown_timeout", "30s")

	// API
	v.SetDefault("api.host", "")
	v.SetDefault("api.port", 8080)
	// Registered empty so VAPOR_API_API_KEY is picked up by Unmarshal;
	// validation rejects the empty value, so this is not a default secret.
	v.SetDefault("api.api_key", "")
	v.SetDefault("api.read_timeout", "10s")
	v.SetDefault("api.write_timeout", "10s")
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("api.rate_limit_burst", 0)

	// Metrics
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)

	// Store
	v.SetDefault("store.type", "file")
	v.SetDefault("store.file.directory", "./storage")
}
