// Package file implements a filesystem-backed ServerStore.
//
// Each server is persisted as one JSON document named "<id>.json" inside a
// configured storage directory. This layout keeps records independently
// replaceable (no shared index to corrupt) and trivially inspectable with
// standard tools.
//
// Atomicity:
// Save never writes a record in place. It writes the full document to a
// temporary file in the same directory and renames it over the target.
// Rename is the atomicity boundary on POSIX filesystems, so a concurrent
// reader observes either the previous complete record or the new complete
// record, never a torn write.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/vaporstack/vapor/pkg/compute"
	"github.com/vaporstack/vapor/pkg/store"
)

// recordExt is the filename extension for server records. Temporary files
// use a different suffix so directory listings never pick them up.
const recordExt = ".json"

// Store implements store.ServerStore using one file per server.
//
// Thread safety:
// Concurrent operations on different ids never interfere because each id
// maps to its own file. Concurrent Save calls for the same id race at the
// rename, resolving to last-writer-wins with both outcomes being complete
// records.
type Store struct {
	dir string
}

// New creates a file-backed store rooted at dir, creating the directory
// (permissions 0755) if it does not exist.
//
// Parameters:
//   - ctx: Context, checked before the filesystem operation
//   - dir: Storage directory for server records
//
// Returns:
//   - *Store: Initialized store
//   - error: Directory creation failure or context cancellation
func New(ctx context.Context, dir string) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &store.StoreError{Op: "init", Err: fmt.Errorf("failed to create storage directory: %w", err)}
	}

	return &Store{dir: dir}, nil
}

// Dir returns the storage directory this store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// recordPath returns the record filename for a server id.
func (s *Store) recordPath(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+recordExt)
}

// Save persists the complete server record, replacing any existing one.
//
// The document is written to a temporary file in the storage directory and
// renamed over the target so readers never observe a partial write. The
// temporary file is removed on any failure before the rename.
func (s *Store) Save(ctx context.Context, server *compute.Server) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(server, "", "  ")
	if err != nil {
		return &store.StoreError{Op: "save", ServerID: server.ID, Err: fmt.Errorf("failed to encode server: %w", err)}
	}

	tmp, err := os.CreateTemp(s.dir, "server-*.tmp")
	if err != nil {
		return &store.StoreError{Op: "save", ServerID: server.ID, Err: fmt.Errorf("failed to create temporary file: %w", err)}
	}
	tmpName := tmp.Name()

	// Any failure from here on must not leave the temporary file behind.
	cleanup := func(cause error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &store.StoreError{Op: "save", ServerID: server.ID, Err: cause}
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("failed to write record: %w", err))
	}

	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("failed to sync record: %w", err))
	}

	if err := tmp.Close(); err != nil {
		return cleanup(fmt.Errorf("failed to close record: %w", err))
	}

	// Records should be readable by operators; CreateTemp defaults to 0600.
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return &store.StoreError{Op: "save", ServerID: server.ID, Err: fmt.Errorf("failed to set record permissions: %w", err)}
	}

	if err := os.Rename(tmpName, s.recordPath(server.ID)); err != nil {
		os.Remove(tmpName)
		return &store.StoreError{Op: "save", ServerID: server.ID, Err: fmt.Errorf("failed to replace record: %w", err)}
	}

	return nil
}

// ListAll enumerates the storage directory and parses every server record.
//
// The operation is fail-fast: a record that cannot be read or parsed fails
// the whole call with a *store.StoreError rather than being silently
// skipped. A listing that succeeds is therefore complete.
func (s *Store) ListAll(ctx context.Context) ([]*compute.Server, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &store.StoreError{Op: "list", Err: fmt.Errorf("failed to read storage directory: %w", err)}
	}

	servers := make([]*compute.Server, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}

		server, err := s.readRecord(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, &store.StoreError{Op: "list", Err: fmt.Errorf("record %s: %w", entry.Name(), err)}
		}
		servers = append(servers, server)
	}

	return servers, nil
}

// FindByID returns the persisted server for id.
//
// A missing record is reported by wrapping store.ErrServerNotFound; any
// other read or parse failure is a *store.StoreError.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*compute.Server, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	server, err := s.readRecord(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("server %s: %w", id, store.ErrServerNotFound)
		}
		return nil, &store.StoreError{Op: "find", ServerID: id, Err: err}
	}

	return server, nil
}

// readRecord reads and decodes a single server record.
//
// os.IsNotExist on the returned error distinguishes a missing file from a
// corrupt one; callers decide which error to surface.
func (s *Store) readRecord(path string) (*compute.Server, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var server compute.Server
	if err := json.Unmarshal(data, &server); err != nil {
		return nil, fmt.Errorf("failed to decode server record: %w", err)
	}

	if !server.Status.Valid() {
		return nil, fmt.Errorf("invalid server status %q", server.Status)
	}

	return &server, nil
}
