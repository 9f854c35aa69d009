// Package compute defines the domain model for the Vapor control plane.
//
// The model is intentionally small: a Server owns its attached Disks
// exclusively, and the only business rule enforced at this level is the
// initial state of a newly provisioned server. Entities are pure data and
// perform no I/O; persistence and coordination live in pkg/store and
// pkg/service respectively.
package compute

import (
	"github.com/google/uuid"
)

// ServerStatus identifies the lifecycle state of a server.
//
// The set of statuses is closed. No component of the core drives
// transitions between them: a server is created in StatusProvisioning and
// stays there until an external actor (a future provisioning worker, not
// part of this codebase) changes it.
type ServerStatus string

const (
	// StatusProvisioning is the initial state of every server.
	StatusProvisioning ServerStatus = "Provisioning"

	// StatusRunning indicates the server is provisioned and active.
	StatusRunning ServerStatus = "Running"

	// StatusStopped indicates the server exists but is powered off.
	StatusStopped ServerStatus = "Stopped"

	// StatusTerminated indicates the server has been decommissioned.
	StatusTerminated ServerStatus = "Terminated"
)

// Valid reports whether s is one of the four known statuses.
//
// Stores use this to reject records whose status field has been corrupted
// or written by an incompatible version.
func (s ServerStatus) Valid() bool {
	switch s {
	case StatusProvisioning, StatusRunning, StatusStopped, StatusTerminated:
		return true
	default:
		return false
	}
}

// Disk represents one extra storage volume attached to a server.
//
// A disk is exclusively owned by the server it is attached to. It has no
// identity or lifecycle outside its parent: it is created by the attach
// operation and persisted as part of the server record.
type Disk struct {
	// ID uniquely identifies the disk, assigned at attach time.
	ID uuid.UUID `json:"id"`

	// SizeGB is the requested volume size in gigabytes.
	SizeGB uint32 `json:"size_gb"`
}

// NewDisk creates a disk with a freshly generated id and the given size.
func NewDisk(sizeGB uint32) Disk {
	return Disk{
		ID:     uuid.New(),
		SizeGB: sizeGB,
	}
}

// Server represents one provisioned compute resource.
//
// The JSON tags define the canonical serialization used both on disk
// (file, badger and s3 stores persist servers as JSON documents) and as
// the basis for API responses.
type Server struct {
	// ID uniquely identifies the server. Assigned at creation, immutable
	// thereafter.
	ID uuid.UUID `json:"id"`

	// Name is a user-supplied label. Not unique and not interpreted.
	Name string `json:"name"`

	// CPUCores is the requested number of virtual CPU cores.
	CPUCores uint32 `json:"cpu_cores"`

	// RAMGB is the requested memory in gigabytes.
	RAMGB uint32 `json:"ram_gb"`

	// StorageGB is the requested root storage in gigabytes.
	StorageGB uint32 `json:"storage_gb"`

	// Status is the lifecycle state. Set to StatusProvisioning at creation
	// and never changed by the core.
	Status ServerStatus `json:"status"`

	// AdditionalDisks holds the extra volumes attached to this server,
	// in attach order. Append-only: there is no detach operation.
	AdditionalDisks []Disk `json:"additional_disks"`
}

// NewServer creates a server with a fresh unique id, StatusProvisioning
// and an empty disk list.
//
// This is the only way a server comes into existence: every server starts
// provisioning with zero disks regardless of caller input. Capacity values
// are recorded as requested; range validation is a caller concern.
func NewServer(name string, cpuCores, ramGB, storageGB uint32) *Server {
	return &Server{
		ID:              uuid.New(),
		Name:            name,
		CPUCores:        cpuCores,
		RAMGB:           ramGB,
		StorageGB:       storageGB,
		Status:          StatusProvisioning,
		AdditionalDisks: []Disk{},
	}
}

// Clone returns a deep copy of the server.
//
// Stores that share memory with callers (the in-memory store) use this to
// prevent aliasing: a caller mutating a returned server must not affect
// persisted state until it calls Save.
func (s *Server) Clone() *Server {
	if s == nil {
		return nil
	}

	clone := *s
	clone.AdditionalDisks = make([]Disk, len(s.AdditionalDisks))
	copy(clone.AdditionalDisks, s.AdditionalDisks)
	return &clone
}
