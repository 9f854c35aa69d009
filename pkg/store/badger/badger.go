// Package badger implements a BadgerDB-backed ServerStore.
//
// BadgerDB is an embedded key-value store with WAL-based crash recovery,
// which makes this backend suitable for single-node deployments that need
// records to survive restarts without running an external database.
//
// Storage model:
// Each server is stored under the key "server:<uuid>" with the canonical
// JSON document as the value. JSON keeps the records debuggable (badger
// tooling can dump them in readable form) and shares the encoding with the
// file and s3 backends.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/vaporstack/vapor/pkg/compute"
	"github.com/vaporstack/vapor/pkg/store"
)

// serverPrefix namespaces server records inside the database, leaving room
// for other record types without key collisions.
var serverPrefix = []byte("server:")

// Config contains configuration for the BadgerDB store.
type Config struct {
	// DBPath is the directory for the BadgerDB database files (required).
	DBPath string

	// InMemory runs BadgerDB without touching disk. Used by tests that
	// want badger semantics without a TempDir.
	InMemory bool
}

// Store implements store.ServerStore using BadgerDB for persistence.
//
// Thread safety:
// BadgerDB transactions provide snapshot isolation; the store adds no
// locking of its own. Concurrent Save calls for the same id resolve to
// last-writer-wins at commit time.
type Store struct {
	db *badger.DB
}

// New opens (or creates) the BadgerDB database at cfg.DBPath.
//
// The returned store must be closed with Close to release the database
// lock and flush pending writes.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger store: db_path is required")
	}

	opts := badger.DefaultOptions(cfg.DBPath).
		WithInMemory(cfg.InMemory).
		WithLogger(nil) // badger's own logging is too chatty for a library

	db, err := badger.Open(opts)
	if err != nil {
		return nil, &store.StoreError{Op: "init", Err: fmt.Errorf("failed to open badger database: %w", err)}
	}

	return &Store{db: db}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// serverKey returns the database key for a server id.
func serverKey(id uuid.UUID) []byte {
	return append(append([]byte{}, serverPrefix...), id.String()...)
}

// Save upserts the server record in a single write transaction.
func (s *Store) Save(ctx context.Context, server *compute.Server) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(server)
	if err != nil {
		return &store.StoreError{Op: "save", ServerID: server.ID, Err: fmt.Errorf("failed to encode server: %w", err)}
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(serverKey(server.ID), data)
	})
	if err != nil {
		return &store.StoreError{Op: "save", ServerID: server.ID, Err: fmt.Errorf("failed to write record: %w", err)}
	}

	return nil
}

// ListAll scans the server key range and decodes every record.
//
// Fail-fast: an undecodable record aborts the scan with a *store.StoreError
// instead of producing a partial listing.
func (s *Store) ListAll(ctx context.Context) ([]*compute.Server, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var servers []*compute.Server

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = serverPrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(serverPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := it.Item().Value(func(val []byte) error {
				server, err := decodeServer(val)
				if err != nil {
					return fmt.Errorf("record %s: %w", it.Item().Key(), err)
				}
				servers = append(servers, server)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &store.StoreError{Op: "list", Err: err}
	}

	if servers == nil {
		servers = []*compute.Server{}
	}
	return servers, nil
}

// FindByID fetches and decodes the record for id.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*compute.Server, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var server *compute.Server

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(serverKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			server, err = decodeServer(val)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("server %s: %w", id, store.ErrServerNotFound)
		}
		return nil, &store.StoreError{Op: "find", ServerID: id, Err: err}
	}

	return server, nil
}

// decodeServer unmarshals a server record and validates its status field.
func decodeServer(data []byte) (*compute.Server, error) {
	var server compute.Server
	if err := json.Unmarshal(data, &server); err != nil {
		return nil, fmt.Errorf("failed to decode server record: %w", err)
	}
	if !server.Status.Valid() {
		return nil, fmt.Errorf("invalid server status %q", server.Status)
	}
	return &server, nil
}
