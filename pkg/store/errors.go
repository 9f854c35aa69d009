package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrServerNotFound indicates that no record exists for the requested
// server id.
//
// This is a recoverable condition for callers (the API layer maps it to
// 404), never an infrastructure failure. Implementations wrap it with
// additional context:
//
//	return fmt.Errorf("server %s: %w", id, store.ErrServerNotFound)
//
// Callers match it with errors.Is:
//
//	srv, err := st.FindByID(ctx, id)
//	if errors.Is(err, store.ErrServerNotFound) {
//	    // 404, not 500
//	}
var ErrServerNotFound = errors.New("server not found")

// StoreError reports a failure to read, write or parse persisted state.
//
// It carries the operation name and, when known, the server id involved,
// so the failure can be logged with enough context to act on. The
// underlying cause is available through errors.Unwrap.
type StoreError struct {
	// Op is the store operation that failed ("save", "list", "find").
	Op string

	// ServerID is the id involved, or uuid.Nil when the failure is not
	// tied to a single record (e.g. enumerating the storage directory).
	ServerID uuid.UUID

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.ServerID == uuid.Nil {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.ServerID, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/errors.As chains.
func (e *StoreError) Unwrap() error {
	return e.Err
}
