// Package memory implements an in-memory ServerStore.
//
// The store keeps every record in a map guarded by a read-write mutex.
// Nothing survives a process restart, which makes this backend suitable
// for tests and for development setups where persistence does not matter.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vaporstack/vapor/pkg/compute"
	"github.com/vaporstack/vapor/pkg/store"
)

// Store implements store.ServerStore backed by a map.
//
// Thread safety:
// All operations take the mutex. Servers are deep-copied on the way in and
// out, so callers can never mutate persisted state without going through
// Save — the same isolation a real backend provides by serializing.
type Store struct {
	mu      sync.RWMutex
	servers map[uuid.UUID]*compute.Server
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		servers: make(map[uuid.UUID]*compute.Server),
	}
}

// Save stores a deep copy of server, replacing any existing record.
func (s *Store) Save(ctx context.Context, server *compute.Server) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.servers[server.ID] = server.Clone()
	return nil
}

// ListAll returns deep copies of every stored server in map order.
func (s *Store) ListAll(ctx context.Context) ([]*compute.Server, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	servers := make([]*compute.Server, 0, len(s.servers))
	for _, server := range s.servers {
		servers = append(servers, server.Clone())
	}
	return servers, nil
}

// FindByID returns a deep copy of the server for id, or an error wrapping
// store.ErrServerNotFound.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*compute.Server, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	server, ok := s.servers[id]
	if !ok {
		return nil, fmt.Errorf("server %s: %w", id, store.ErrServerNotFound)
	}
	return server.Clone(), nil
}

// Len returns the number of stored servers. Intended for tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.servers)
}
