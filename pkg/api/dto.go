package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vaporstack/vapor/pkg/compute"
)

// validate checks request bodies before the core is invoked. Malformed
// payloads never reach the orchestration layer.
var validate = validator.New()

// CreateServerRequest is the wire shape for server creation.
type CreateServerRequest struct {
	Name    string `json:"name" validate:"required"`
	CPU     uint32 `json:"cpu" validate:"required,gt=0"`
	RAM     uint32 `json:"ram" validate:"required,gt=0"`
	Storage uint32 `json:"storage" validate:"required,gt=0"`
}

// AttachDiskRequest is the wire shape for disk attachment. The server id
// comes from the path.
type AttachDiskRequest struct {
	SizeGB uint32 `json:"size_gb" validate:"required,gt=0"`
}

// ServerResponse is the wire shape for a server.
//
// Deliberately separate from compute.Server: the API contract must not
// change just because the internal model does. Capacity fields are not
// exposed, and the disk array is keyed "disks" on the wire even though
// the domain stores it as additional_disks.
type ServerResponse struct {
	ID     uuid.UUID      `json:"id"`
	Name   string         `json:"name"`
	Status string         `json:"status"`
	Disks  []DiskResponse `json:"disks"`
}

// DiskResponse is the wire shape for an attached disk.
type DiskResponse struct {
	ID     uuid.UUID `json:"id"`
	SizeGB uint32    `json:"size_gb"`
}

// toServerResponse maps a domain server onto its wire shape.
func toServerResponse(server *compute.Server) ServerResponse {
	disks := make([]DiskResponse, 0, len(server.AdditionalDisks))
	for _, disk := range server.AdditionalDisks {
		disks = append(disks, DiskResponse{
			ID:     disk.ID,
			SizeGB: disk.SizeGB,
		})
	}

	return ServerResponse{
		ID:     server.ID,
		Name:   server.Name,
		Status: string(server.Status),
		Disks:  disks,
	}
}
