// Package service implements the orchestration layer of the control
// plane.
//
// ComputeService coordinates domain construction and persistence to
// fulfill client requests. It depends only on the store.ServerStore port,
// never on a concrete backend, so the storage technology can be swapped
// without touching this package.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/im7mortal/kmutex"
	"github.com/vaporstack/vapor/internal/logger"
	"github.com/vaporstack/vapor/pkg/compute"
	"github.com/vaporstack/vapor/pkg/metrics"
	"github.com/vaporstack/vapor/pkg/store"
)

// CreateServerCommand carries the inputs for server creation.
//
// Commands are plain values deliberately separate from wire DTOs: the API
// layer maps requests onto them, and future inbound surfaces (CLI, gRPC)
// reuse them unchanged.
type CreateServerCommand struct {
	Name      string
	CPUCores  uint32
	RAMGB     uint32
	StorageGB uint32
}

// AttachDiskCommand carries the inputs for disk attachment.
type AttachDiskCommand struct {
	ServerID uuid.UUID
	SizeGB   uint32
}

// ComputeService sequences domain construction and persistence calls.
//
// One instance is shared across all inbound requests for the lifetime of
// the process.
//
// Concurrency:
// Operations on unrelated servers never serialize against each other.
// AttachDisk is a read-modify-write sequence, so concurrent attaches to
// the same server id are serialized with a keyed mutex; without it, two
// callers could read the same prior state and the second save would
// silently drop the first caller's disk.
type ComputeService struct {
	store    store.ServerStore
	attachMu *kmutex.Kmutex
	metrics  metrics.ServiceMetrics
}

// New creates a ComputeService backed by st.
//
// Passing nil metrics selects the no-op implementation. Panics if st is
// nil (programmer error: the service is unusable without a store).
func New(st store.ServerStore, m metrics.ServiceMetrics) *ComputeService {
	if st == nil {
		panic("server store cannot be nil")
	}
	if m == nil {
		m = metrics.NewNoopServiceMetrics()
	}

	return &ComputeService{
		store:    st,
		attachMu: kmutex.New(),
		metrics:  m,
	}
}

// CreateServer constructs a new server and persists it.
//
// The id is generated before the first persistence attempt. If Save fails
// the error propagates unchanged and the server is considered not created;
// there is no retry at this layer.
func (s *ComputeService) CreateServer(ctx context.Context, cmd CreateServerCommand) (*compute.Server, error) {
	start := time.Now()

	server := compute.NewServer(cmd.Name, cmd.CPUCores, cmd.RAMGB, cmd.StorageGB)

	if err := s.store.Save(ctx, server); err != nil {
		s.observe("create_server", start, err)
		return nil, err
	}

	s.observe("create_server", start, nil)
	logger.Info("Server %s created (name=%q cpu=%d ram=%d storage=%d)",
		server.ID, server.Name, server.CPUCores, server.RAMGB, server.StorageGB)
	return server, nil
}

// ListServers returns every persisted server. Pure delegation to the
// store; order is unspecified.
func (s *ComputeService) ListServers(ctx context.Context) ([]*compute.Server, error) {
	start := time.Now()

	servers, err := s.store.ListAll(ctx)
	s.observe("list_servers", start, err)
	return servers, err
}

// AttachDisk appends a new disk to the server and re-persists the whole
// record.
//
// The sequence is: fetch by id, construct the disk, append, save. All
// attaches for the same server id run under a per-id lock, so concurrent
// attaches each land exactly once. A missing server yields an error
// wrapping store.ErrServerNotFound and performs no write.
func (s *ComputeService) AttachDisk(ctx context.Context, cmd AttachDiskCommand) (*compute.Server, error) {
	start := time.Now()

	s.attachMu.Lock(cmd.ServerID)
	defer s.attachMu.Unlock(cmd.ServerID)

	server, err := s.store.FindByID(ctx, cmd.ServerID)
	if err != nil {
		s.observe("attach_disk", start, err)
		return nil, err
	}

	disk := compute.NewDisk(cmd.SizeGB)
	server.AdditionalDisks = append(server.AdditionalDisks, disk)

	if err := s.store.Save(ctx, server); err != nil {
		s.observe("attach_disk", start, err)
		return nil, err
	}

	s.observe("attach_disk", start, nil)
	logger.Info("Disk %s (%d GB) attached to server %s", disk.ID, disk.SizeGB, server.ID)
	return server, nil
}

// observe records one operation outcome.
func (s *ComputeService) observe(operation string, start time.Time, err error) {
	status := "ok"
	switch {
	case errors.Is(err, store.ErrServerNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	s.metrics.RecordOperation(operation, status, time.Since(start))
}
