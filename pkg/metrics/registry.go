// Package metrics provides Prometheus metrics collection for Vapor
// components.
//
// Metrics are optional: if InitRegistry is not called, constructors return
// no-op implementations with zero overhead, and the control plane runs
// exactly as it would with metrics enabled.
//
// Usage:
//
//	// In main, when metrics are enabled in the configuration:
//	metrics.InitRegistry()
//
//	// Components receive their metrics instance at construction:
//	svc := service.New(st, metrics.NewServiceMetrics())
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// registry is the global Prometheus registry for all Vapor metrics.
	// Write-once via registryOnce, read-many afterwards.
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry.
//
// Must be called before creating metrics instances. Safe to call multiple
// times; subsequent calls are ignored. If never called, all constructors
// return no-op implementations.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global registry, or nil when metrics are
// disabled. The sync.Once in InitRegistry provides the happens-before
// relationship that makes the plain read safe.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return GetRegistry() != nil
}
