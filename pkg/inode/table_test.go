package inode_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginot/kriptofs/pkg/inode"
)

func TestNewTable_RootSeeded(t *testing.T) {
	table := inode.NewTable("/srv/data")

	path, ok := table.Resolve(inode.RootID)
	require.True(t, ok, "root must be resolvable from construction")
	assert.Equal(t, "/srv/data", path)
	assert.Equal(t, 1, table.Len())
	assert.EqualValues(t, 2, table.NextID(), "allocation starts at 2")
}

func TestGetOrAllocate_RootPathIsInodeOne(t *testing.T) {
	table := inode.NewTable("/srv/data")

	assert.Equal(t, inode.RootID, table.GetOrAllocate("/srv/data"),
		"the root path must keep inode 1")
}

func TestGetOrAllocate_Stable(t *testing.T) {
	table := inode.NewTable("/srv/data")

	first := table.GetOrAllocate("/srv/data/a.txt")
	second := table.GetOrAllocate("/srv/data/a.txt")

	assert.Equal(t, first, second, "repeated calls must return the same inode")
	assert.EqualValues(t, 2, first)
}

func TestGetOrAllocate_MonotonicAndInjective(t *testing.T) {
	table := inode.NewTable("/srv/data")

	seen := map[uint64]string{inode.RootID: "/srv/data"}
	var last uint64 = inode.RootID
	for i := 0; i < 100; i++ {
		path := fmt.Sprintf("/srv/data/file-%03d", i)
		ino := table.GetOrAllocate(path)

		require.Greater(t, ino, last, "inode numbers must increase")
		prev, dup := seen[ino]
		require.False(t, dup, "inode %d already assigned to %s", ino, prev)
		seen[ino] = path
		last = ino
	}

	assert.Equal(t, 101, table.Len())
}

func TestResolve_UnknownInode(t *testing.T) {
	table := inode.NewTable("/srv/data")

	_, ok := table.Resolve(42)
	assert.False(t, ok)
}

// TestGetOrAllocate_ConcurrentSamePath verifies that racing callers
// referencing the same previously-unseen path all observe a single
// allocation.
func TestGetOrAllocate_ConcurrentSamePath(t *testing.T) {
	table := inode.NewTable("/srv/data")

	const goroutines = 32
	results := make([]uint64, goroutines)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		i := i
		go func() {
			defer done.Done()
			start.Wait()
			results[i] = table.GetOrAllocate("/srv/data/shared.bin")
		}()
	}
	start.Done()
	done.Wait()

	for i := 1; i < goroutines; i++ {
		require.Equal(t, results[0], results[i],
			"goroutine %d got a different inode", i)
	}
	assert.Equal(t, 2, table.Len(), "exactly one allocation must have happened")
}

// TestGetOrAllocate_ConcurrentDistinctPaths verifies injectivity under
// concurrent allocation of different paths.
func TestGetOrAllocate_ConcurrentDistinctPaths(t *testing.T) {
	table := inode.NewTable("/srv/data")

	const goroutines = 32
	results := make([]uint64, goroutines)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i] = table.GetOrAllocate(fmt.Sprintf("/srv/data/f%d", i))
		}()
	}
	wg.Wait()

	seen := make(map[uint64]bool, goroutines)
	for _, ino := range results {
		require.False(t, seen[ino], "inode %d handed out twice", ino)
		require.Greater(t, ino, inode.RootID)
		seen[ino] = true
	}
}

func TestResolve_SurvivesUnderlyingDeletion(t *testing.T) {
	table := inode.NewTable("/srv/data")

	ino := table.GetOrAllocate("/srv/data/doomed.txt")

	// The table has no eviction: the mapping stays even when the real
	// path goes away, and the number is never reassigned.
	path, ok := table.Resolve(ino)
	require.True(t, ok)
	assert.Equal(t, "/srv/data/doomed.txt", path)

	other := table.GetOrAllocate("/srv/data/other.txt")
	assert.NotEqual(t, ino, other)
}
