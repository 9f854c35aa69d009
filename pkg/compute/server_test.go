package compute

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNewServer_InitialState(t *testing.T) {
	server := NewServer("prod-db-01", 8, 32, 500)

	if server.Name != "prod-db-01" {
		t.Errorf("Expected name %q, got %q", "prod-db-01", server.Name)
	}
	if server.CPUCores != 8 {
		t.Errorf("Expected 8 cpu cores, got %d", server.CPUCores)
	}
	if server.RAMGB != 32 {
		t.Errorf("Expected 32 GB ram, got %d", server.RAMGB)
	}
	if server.StorageGB != 500 {
		t.Errorf("Expected 500 GB storage, got %d", server.StorageGB)
	}
	if server.Status != StatusProvisioning {
		t.Errorf("Expected status %q, got %q", StatusProvisioning, server.Status)
	}
	if len(server.AdditionalDisks) != 0 {
		t.Errorf("Expected no disks on a new server, got %d", len(server.AdditionalDisks))
	}
	if server.ID == uuid.Nil {
		t.Error("Expected a non-nil server id")
	}
}

func TestNewServer_UniqueIDs(t *testing.T) {
	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 1000; i++ {
		server := NewServer("vm", 1, 1, 10)
		if seen[server.ID] {
			t.Fatalf("Duplicate server id generated: %s", server.ID)
		}
		seen[server.ID] = true
	}
}

func TestNewDisk(t *testing.T) {
	disk := NewDisk(100)

	if disk.SizeGB != 100 {
		t.Errorf("Expected 100 GB, got %d", disk.SizeGB)
	}
	if disk.ID == uuid.Nil {
		t.Error("Expected a non-nil disk id")
	}

	other := NewDisk(100)
	if other.ID == disk.ID {
		t.Error("Expected distinct ids for distinct disks")
	}
}

func TestServerStatus_Valid(t *testing.T) {
	tests := []struct {
		status ServerStatus
		want   bool
	}{
		{StatusProvisioning, true},
		{StatusRunning, true},
		{StatusStopped, true},
		{StatusTerminated, true},
		{ServerStatus(""), false},
		{ServerStatus("Rebooting"), false},
		{ServerStatus("provisioning"), false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestServerClone_Isolation(t *testing.T) {
	server := NewServer("vm-1", 2, 4, 40)
	server.AdditionalDisks = append(server.AdditionalDisks, NewDisk(100))

	clone := server.Clone()
	clone.Name = "changed"
	clone.AdditionalDisks[0].SizeGB = 999
	clone.AdditionalDisks = append(clone.AdditionalDisks, NewDisk(250))

	if server.Name != "vm-1" {
		t.Errorf("Clone mutation leaked into original name: %q", server.Name)
	}
	if server.AdditionalDisks[0].SizeGB != 100 {
		t.Errorf("Clone mutation leaked into original disk: %d", server.AdditionalDisks[0].SizeGB)
	}
	if len(server.AdditionalDisks) != 1 {
		t.Errorf("Clone append leaked into original disk list: %d disks", len(server.AdditionalDisks))
	}
}

func TestServer_JSONWireFormat(t *testing.T) {
	server := NewServer("vm-1", 2, 4, 40)

	data, err := json.Marshal(server)
	if err != nil {
		t.Fatalf("Failed to marshal server: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal server document: %v", err)
	}

	// The on-disk field names are a compatibility contract.
	for _, field := range []string{"id", "name", "cpu_cores", "ram_gb", "storage_gb", "status", "additional_disks"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("Serialized server is missing field %q", field)
		}
	}

	if decoded["status"] != "Provisioning" {
		t.Errorf("Expected status to serialize as %q, got %v", "Provisioning", decoded["status"])
	}
}
