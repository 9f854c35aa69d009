package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ServiceMetrics provides observability for orchestration operations.
//
// The orchestration service records one observation per operation
// (create_server, list_servers, attach_disk) with its outcome and
// duration. Implementations must be safe for concurrent use.
type ServiceMetrics interface {
	// RecordOperation records a completed operation.
	//
	// Parameters:
	//   - operation: "create_server", "list_servers" or "attach_disk"
	//   - status: "ok", "not_found" or "error"
	//   - duration: Wall time spent in the operation
	RecordOperation(operation, status string, duration time.Duration)
}

// serviceMetrics is the Prometheus implementation of ServiceMetrics.
type serviceMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewServiceMetrics creates a Prometheus-backed ServiceMetrics instance.
//
// Returns a no-op implementation if metrics are disabled (InitRegistry not
// called).
func NewServiceMetrics() ServiceMetrics {
	if !IsEnabled() {
		return NewNoopServiceMetrics()
	}

	reg := GetRegistry()

	return &serviceMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "vapor_operations_total",
				Help: "Total number of orchestration operations by operation and status",
			},
			[]string{"operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "vapor_operation_duration_seconds",
				Help: "Duration of orchestration operations in seconds",
				Buckets: []float64{
					0.001, // 1ms
					0.01,  // 10ms
					0.1,   // 100ms
					1,     // 1s
					10,    // 10s
				},
			},
			[]string{"operation"},
		),
	}
}

func (m *serviceMetrics) RecordOperation(operation, status string, duration time.Duration) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// noopServiceMetrics discards all observations.
type noopServiceMetrics struct{}

// NewNoopServiceMetrics returns a ServiceMetrics that does nothing.
// Used when metrics are disabled and in tests.
func NewNoopServiceMetrics() ServiceMetrics {
	return noopServiceMetrics{}
}

func (noopServiceMetrics) RecordOperation(string, string, time.Duration) {}
