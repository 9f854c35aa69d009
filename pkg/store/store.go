// Package store defines the persistence port for the compute domain.
//
// ServerStore is an abstract capability: the orchestration layer depends
// only on this interface and must behave identically regardless of which
// backend fulfills it. Concrete adapters live in the subpackages (file,
// memory, badger, s3) and are verified against the shared conformance
// suite in pkg/store/testing.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/vaporstack/vapor/pkg/compute"
)

// ServerStore persists and retrieves servers.
//
// Contract:
//   - Save has upsert semantics: it persists the complete current state of
//     the server, replacing any prior record for the same id. The written
//     record must be a self-consistent snapshot; a concurrent reader must
//     never observe a partially written server.
//   - ListAll returns every currently persisted server. Order is not part
//     of the contract and callers must not depend on it.
//   - FindByID returns ErrServerNotFound (matched with errors.Is) when no
//     record exists for the id. Absence is an expected outcome, not an
//     infrastructure failure.
//
// All other failures (I/O, permission, unparseable records) are reported
// as *StoreError with enough context to log meaningfully. Implementations
// never silently skip corrupt records: a record that cannot be parsed
// fails the operation that touched it.
//
// Thread safety:
// Implementations must be safe for concurrent use by multiple goroutines.
// Concurrent Save calls for different ids must not interfere; concurrent
// Save calls for the same id resolve to last-writer-wins.
type ServerStore interface {
	// Save persists the complete state of server, creating the record if
	// absent or fully replacing it if present (keyed by server.ID).
	Save(ctx context.Context, server *compute.Server) error

	// ListAll returns every persisted server in unspecified order.
	ListAll(ctx context.Context) ([]*compute.Server, error)

	// FindByID returns the persisted server for id, or an error wrapping
	// ErrServerNotFound when no record exists.
	FindByID(ctx context.Context, id uuid.UUID) (*compute.Server, error)
}
