// Package testing provides a conformance test suite for ServerStore
// implementations.
//
// Every backend (file, memory, badger, s3) runs the same suite so the
// orchestration layer can treat them as interchangeable. Backend-specific
// behavior (corruption handling, persistence across reopen) is tested in
// the backend's own package.
//
// Usage:
//
//	func TestFileStore_Conformance(t *testing.T) {
//	    suite := &storetesting.StoreTestSuite{
//	        NewStore: func(t *testing.T) store.ServerStore {
//	            st, err := file.New(context.Background(), t.TempDir())
//	            if err != nil {
//	                t.Fatalf("failed to create store: %v", err)
//	            }
//	            return st
//	        },
//	    }
//	    suite.Run(t)
//	}
package testing

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaporstack/vapor/pkg/compute"
	"github.com/vaporstack/vapor/pkg/store"
)

// StoreTestSuite verifies that a ServerStore implementation satisfies the
// port contract.
type StoreTestSuite struct {
	// NewStore returns a fresh, empty store for each subtest. The suite
	// never shares a store between subtests.
	NewStore func(t *testing.T) store.ServerStore
}

// Run executes the complete conformance suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("SaveAndFindByID", suite.testSaveAndFindByID)
	t.Run("SaveIsUpsert", suite.testSaveIsUpsert)
	t.Run("FindByIDNotFound", suite.testFindByIDNotFound)
	t.Run("ListAllEmpty", suite.testListAllEmpty)
	t.Run("ListAllComplete", suite.testListAllComplete)
	t.Run("RoundTripPreservesDisks", suite.testRoundTripPreservesDisks)
	t.Run("SavesForDifferentIDsDoNotInterfere", suite.testIndependentSaves)
}

func (suite *StoreTestSuite) testSaveAndFindByID(t *testing.T) {
	st := suite.NewStore(t)
	ctx := context.Background()

	server := compute.NewServer("prod-db-01", 8, 32, 500)
	require.NoError(t, st.Save(ctx, server))

	found, err := st.FindByID(ctx, server.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(server, found); diff != "" {
		t.Errorf("round-trip changed the server (-saved +found):\n%s", diff)
	}
}

func (suite *StoreTestSuite) testSaveIsUpsert(t *testing.T) {
	st := suite.NewStore(t)
	ctx := context.Background()

	server := compute.NewServer("vm-1", 2, 4, 40)
	require.NoError(t, st.Save(ctx, server))

	// Overwrite with a mutated copy under the same id.
	server.AdditionalDisks = append(server.AdditionalDisks, compute.NewDisk(100))
	require.NoError(t, st.Save(ctx, server))

	found, err := st.FindByID(ctx, server.ID)
	require.NoError(t, err)
	assert.Len(t, found.AdditionalDisks, 1)

	// The overwrite must not have produced a second record.
	all, err := st.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func (suite *StoreTestSuite) testFindByIDNotFound(t *testing.T) {
	st := suite.NewStore(t)
	ctx := context.Background()

	_, err := st.FindByID(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrServerNotFound),
		"expected ErrServerNotFound, got %v", err)

	var storeErr *store.StoreError
	assert.False(t, errors.As(err, &storeErr),
		"absence must not be reported as a StoreError, got %v", err)
}

func (suite *StoreTestSuite) testListAllEmpty(t *testing.T) {
	st := suite.NewStore(t)

	all, err := st.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func (suite *StoreTestSuite) testListAllComplete(t *testing.T) {
	st := suite.NewStore(t)
	ctx := context.Background()

	saved := make(map[uuid.UUID]*compute.Server)
	for i := 0; i < 5; i++ {
		server := compute.NewServer("vm", 1, 1, 10)
		require.NoError(t, st.Save(ctx, server))
		saved[server.ID] = server
	}

	all, err := st.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(saved))

	// Order is not part of the contract; compare as sets.
	for _, got := range all {
		want, ok := saved[got.ID]
		require.True(t, ok, "ListAll returned unknown server %s", got.ID)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("server %s differs (-saved +listed):\n%s", got.ID, diff)
		}
		delete(saved, got.ID)
	}
	assert.Empty(t, saved, "ListAll missed servers")
}

func (suite *StoreTestSuite) testRoundTripPreservesDisks(t *testing.T) {
	st := suite.NewStore(t)
	ctx := context.Background()

	server := compute.NewServer("disk-heavy", 4, 16, 250)
	server.AdditionalDisks = append(server.AdditionalDisks,
		compute.NewDisk(100),
		compute.NewDisk(250),
		compute.NewDisk(500),
	)
	require.NoError(t, st.Save(ctx, server))

	found, err := st.FindByID(ctx, server.ID)
	require.NoError(t, err)
	require.Len(t, found.AdditionalDisks, 3)

	// Attach order must be preserved.
	sizes := make([]int, 0, 3)
	for _, disk := range found.AdditionalDisks {
		sizes = append(sizes, int(disk.SizeGB))
	}
	assert.True(t, sort.IntsAreSorted(sizes), "disk order not preserved: %v", sizes)

	if diff := cmp.Diff(server.AdditionalDisks, found.AdditionalDisks); diff != "" {
		t.Errorf("disks differ (-saved +found):\n%s", diff)
	}
}

func (suite *StoreTestSuite) testIndependentSaves(t *testing.T) {
	st := suite.NewStore(t)
	ctx := context.Background()

	first := compute.NewServer("first", 1, 2, 20)
	second := compute.NewServer("second", 2, 4, 40)

	require.NoError(t, st.Save(ctx, first))
	require.NoError(t, st.Save(ctx, second))

	// Rewriting one record must not disturb the other.
	first.AdditionalDisks = append(first.AdditionalDisks, compute.NewDisk(10))
	require.NoError(t, st.Save(ctx, first))

	foundSecond, err := st.FindByID(ctx, second.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(second, foundSecond); diff != "" {
		t.Errorf("unrelated server changed (-saved +found):\n%s", diff)
	}
}
