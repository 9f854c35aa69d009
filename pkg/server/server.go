// Package server ties the control plane together at runtime.
package server

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/vaporstack/vapor/internal/logger"
	"github.com/vaporstack/vapor/pkg/adapter"
	"github.com/vaporstack/vapor/pkg/store"
	"golang.org/x/sync/errgroup"
)

// VaporServer manages the lifecycle of the inbound adapters that share the
// control plane's store.
//
// Lifecycle:
//  1. Creation: New() with the configured store
//  2. Registration: AddAdapter() for each inbound surface
//  3. Startup: Serve() runs all adapters concurrently
//  4. Shutdown: context cancellation stops every adapter gracefully,
//     then closes the store (backends like badger hold locks and buffers
//     that must be flushed)
//
// Thread safety:
// AddAdapter may be called concurrently before Serve. Serve must only be
// called once per instance.
type VaporServer struct {
	store           store.ServerStore
	shutdownTimeout time.Duration

	mu       sync.Mutex
	adapters []adapter.Adapter
	served   bool
}

// New creates a VaporServer with the provided store.
//
// Panics if st is nil (programmer error). Call AddAdapter to register
// inbound surfaces, then Serve to start them.
func New(st store.ServerStore, shutdownTimeout time.Duration) *VaporServer {
	if st == nil {
		panic("server store cannot be nil")
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}

	return &VaporServer{
		store:           st,
		shutdownTimeout: shutdownTimeout,
		adapters:        make([]adapter.Adapter, 0, 2),
	}
}

// AddAdapter registers an inbound adapter.
//
// Returns an error if an adapter with the same name is already registered
// or if Serve has already been called.
func (s *VaporServer) AddAdapter(a adapter.Adapter) error {
	if a == nil {
		panic("adapter cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.served {
		return fmt.Errorf("cannot add adapter %q: server is already running", a.Name())
	}
	for _, existing := range s.adapters {
		if existing.Name() == a.Name() {
			return fmt.Errorf("adapter %q is already registered", a.Name())
		}
	}

	s.adapters = append(s.adapters, a)
	return nil
}

// Serve runs all registered adapters until the context is cancelled or
// one of them fails.
//
// On cancellation every adapter is stopped gracefully, bounded by the
// configured shutdown timeout, and the store is closed last. If an
// adapter fails before cancellation, the remaining adapters are stopped
// and the failure is returned.
func (s *VaporServer) Serve(ctx context.Context) error {
	s.mu.Lock()
	if s.served {
		s.mu.Unlock()
		return fmt.Errorf("Serve called twice")
	}
	s.served = true
	adapters := make([]adapter.Adapter, len(s.adapters))
	copy(adapters, s.adapters)
	s.mu.Unlock()

	if len(adapters) == 0 {
		return fmt.Errorf("no adapters registered")
	}

	group, groupCtx := errgroup.WithContext(ctx)

	for _, a := range adapters {
		group.Go(func() error {
			logger.Debug("Starting adapter %q", a.Name())
			if err := a.Serve(groupCtx); err != nil {
				return fmt.Errorf("adapter %q: %w", a.Name(), err)
			}
			return nil
		})
	}

	// Stop adapters once the group context ends, whether from caller
	// cancellation or an adapter failure.
	<-groupCtx.Done()
	s.stopAll(adapters)

	err := group.Wait()
	s.closeStore()

	if err != nil {
		return err
	}
	return ctx.Err()
}

// stopAll stops every adapter concurrently, bounded by the shutdown
// timeout.
func (s *VaporServer) stopAll(adapters []adapter.Adapter) {
	stopCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, a := range adapters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.Stop(stopCtx); err != nil {
				logger.Warn("Adapter %q did not stop cleanly: %v", a.Name(), err)
			} else {
				logger.Info("Adapter %q stopped", a.Name())
			}
		}()
	}
	wg.Wait()
}

// closeStore closes the store if the backend needs closing.
func (s *VaporServer) closeStore() {
	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close store: %v", err)
		}
	}
}
