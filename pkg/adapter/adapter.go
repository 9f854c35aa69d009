// Package adapter defines the lifecycle contract for inbound adapters.
package adapter

import (
	"context"
)

// Adapter represents an inbound server adapter managed by the Vapor
// lifecycle orchestrator (pkg/server).
//
// Each adapter exposes the control plane over some surface (the HTTP API,
// the metrics endpoint) and is started and stopped by the orchestrator.
// Dependencies are injected at construction time; the orchestrator only
// drives the lifecycle.
//
// Thread safety:
// Serve is called once. Stop may be called concurrently with Serve during
// shutdown and must be idempotent.
type Adapter interface {
	// Name identifies the adapter in logs ("http-api", "metrics").
	Name() string

	// Serve starts the adapter and blocks until the context is cancelled
	// or an unrecoverable error occurs.
	//
	// On context cancellation, Serve initiates graceful shutdown and
	// returns nil once it completes. A return before cancellation is
	// treated as fatal by the orchestrator, which then stops all other
	// adapters.
	Serve(ctx context.Context) error

	// Stop initiates graceful shutdown. The context bounds how long the
	// adapter may wait for in-flight work; when it expires, the adapter
	// must release its resources regardless.
	Stop(ctx context.Context) error
}
