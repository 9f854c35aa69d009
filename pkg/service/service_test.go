package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/vaporstack/vapor/pkg/compute"
	"github.com/vaporstack/vapor/pkg/store"
	"github.com/vaporstack/vapor/pkg/store/memory"
)

func newTestService(t *testing.T) (*ComputeService, *memory.Store) {
	t.Helper()
	st := memory.New()
	return New(st, nil), st
}

func TestNew_NilStorePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected a panic for a nil store")
		}
	}()
	New(nil, nil)
}

func TestCreateServer(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	server, err := svc.CreateServer(ctx, CreateServerCommand{
		Name:      "web-1",
		CPUCores:  4,
		RAMGB:     8,
		StorageGB: 100,
	})
	if err != nil {
		t.Fatalf("CreateServer failed: %v", err)
	}

	if server.ID == uuid.Nil {
		t.Error("Expected a generated server id")
	}
	if server.Status != compute.StatusProvisioning {
		t.Errorf("Expected status %q, got %q", compute.StatusProvisioning, server.Status)
	}
	if len(server.AdditionalDisks) != 0 {
		t.Errorf("Expected no disks on a new server, got %d", len(server.AdditionalDisks))
	}

	persisted, err := st.FindByID(ctx, server.ID)
	if err != nil {
		t.Fatalf("Created server was not persisted: %v", err)
	}
	if persisted.Name != "web-1" {
		t.Errorf("Expected persisted name %q, got %q", "web-1", persisted.Name)
	}
}

func TestCreateServer_SaveFailure(t *testing.T) {
	saveErr := errors.New("disk full")
	svc := New(&stubStore{saveErr: saveErr}, nil)

	_, err := svc.CreateServer(context.Background(), CreateServerCommand{Name: "vm", CPUCores: 1, RAMGB: 1, StorageGB: 10})
	if !errors.Is(err, saveErr) {
		t.Fatalf("Expected save error to propagate, got %v", err)
	}
}

func TestListServers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	servers, err := svc.ListServers(ctx)
	if err != nil {
		t.Fatalf("ListServers failed: %v", err)
	}
	if len(servers) != 0 {
		t.Errorf("Expected empty listing, got %d servers", len(servers))
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateServer(ctx, CreateServerCommand{Name: "vm", CPUCores: 1, RAMGB: 1, StorageGB: 10}); err != nil {
			t.Fatalf("CreateServer failed: %v", err)
		}
	}

	servers, err = svc.ListServers(ctx)
	if err != nil {
		t.Fatalf("ListServers failed: %v", err)
	}
	if len(servers) != 3 {
		t.Errorf("Expected 3 servers, got %d", len(servers))
	}
}

func TestAttachDisk(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	server, err := svc.CreateServer(ctx, CreateServerCommand{Name: "db-1", CPUCores: 2, RAMGB: 4, StorageGB: 50})
	if err != nil {
		t.Fatalf("CreateServer failed: %v", err)
	}

	updated, err := svc.AttachDisk(ctx, AttachDiskCommand{ServerID: server.ID, SizeGB: 250})
	if err != nil {
		t.Fatalf("AttachDisk failed: %v", err)
	}

	if len(updated.AdditionalDisks) != 1 {
		t.Fatalf("Expected 1 disk, got %d", len(updated.AdditionalDisks))
	}
	disk := updated.AdditionalDisks[0]
	if disk.ID == uuid.Nil {
		t.Error("Expected a generated disk id")
	}
	if disk.SizeGB != 250 {
		t.Errorf("Expected disk size 250, got %d", disk.SizeGB)
	}

	persisted, err := st.FindByID(ctx, server.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(persisted.AdditionalDisks) != 1 {
		t.Errorf("Attached disk was not persisted: %d disks", len(persisted.AdditionalDisks))
	}
}

func TestAttachDisk_UnknownServer(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.AttachDisk(context.Background(), AttachDiskCommand{ServerID: uuid.New(), SizeGB: 10})
	if !errors.Is(err, store.ErrServerNotFound) {
		t.Fatalf("Expected ErrServerNotFound, got %v", err)
	}

	// A failed attach must not create any record.
	if st.Len() != 0 {
		t.Errorf("Expected no writes after a failed attach, found %d records", st.Len())
	}
}

func TestAttachDisk_ConcurrentSameServer(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	server, err := svc.CreateServer(ctx, CreateServerCommand{Name: "vm", CPUCores: 1, RAMGB: 1, StorageGB: 10})
	if err != nil {
		t.Fatalf("CreateServer failed: %v", err)
	}

	// Every concurrent attach must land; lost updates would show up as a
	// shorter disk list.
	const attaches = 32
	var wg sync.WaitGroup
	for i := 0; i < attaches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AttachDisk(ctx, AttachDiskCommand{ServerID: server.ID, SizeGB: 1}); err != nil {
				t.Errorf("AttachDisk failed: %v", err)
			}
		}()
	}
	wg.Wait()

	persisted, err := st.FindByID(ctx, server.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(persisted.AdditionalDisks) != attaches {
		t.Errorf("Expected %d disks, got %d (lost updates)", attaches, len(persisted.AdditionalDisks))
	}
}

func TestProvisioningScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	web, err := svc.CreateServer(ctx, CreateServerCommand{Name: "web", CPUCores: 2, RAMGB: 4, StorageGB: 40})
	if err != nil {
		t.Fatalf("CreateServer failed: %v", err)
	}
	db, err := svc.CreateServer(ctx, CreateServerCommand{Name: "db", CPUCores: 8, RAMGB: 32, StorageGB: 200})
	if err != nil {
		t.Fatalf("CreateServer failed: %v", err)
	}

	if _, err := svc.AttachDisk(ctx, AttachDiskCommand{ServerID: db.ID, SizeGB: 500}); err != nil {
		t.Fatalf("AttachDisk failed: %v", err)
	}
	if _, err := svc.AttachDisk(ctx, AttachDiskCommand{ServerID: db.ID, SizeGB: 500}); err != nil {
		t.Fatalf("AttachDisk failed: %v", err)
	}

	servers, err := svc.ListServers(ctx)
	if err != nil {
		t.Fatalf("ListServers failed: %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("Expected 2 servers, got %d", len(servers))
	}

	byID := make(map[uuid.UUID]*compute.Server, len(servers))
	for _, s := range servers {
		byID[s.ID] = s
	}
	if got := len(byID[web.ID].AdditionalDisks); got != 0 {
		t.Errorf("Expected web server to have 0 disks, got %d", got)
	}
	if got := len(byID[db.ID].AdditionalDisks); got != 2 {
		t.Errorf("Expected db server to have 2 disks, got %d", got)
	}
}

// stubStore lets tests inject failures at the persistence boundary.
type stubStore struct {
	saveErr error
	findErr error
	server  *compute.Server
}

func (s *stubStore) Save(ctx context.Context, server *compute.Server) error {
	return s.saveErr
}

func (s *stubStore) ListAll(ctx context.Context) ([]*compute.Server, error) {
	return nil, nil
}

func (s *stubStore) FindByID(ctx context.Context, id uuid.UUID) (*compute.Server, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.server, nil
}

func TestAttachDisk_SaveFailure(t *testing.T) {
	server := compute.NewServer("vm", 1, 1, 10)
	saveErr := errors.New("write refused")
	svc := New(&stubStore{server: server, saveErr: saveErr}, nil)

	_, err := svc.AttachDisk(context.Background(), AttachDiskCommand{ServerID: server.ID, SizeGB: 10})
	if !errors.Is(err, saveErr) {
		t.Fatalf("Expected save error to propagate, got %v", err)
	}
}
