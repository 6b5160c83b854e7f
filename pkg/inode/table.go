// Package inode maintains the mapping between kernel-visible inode numbers
// and real filesystem paths for the lifetime of a mount session.
package inode

import (
	"sync"
)

// RootID is the inode number of the mount root. The kernel addresses the
// root of a FUSE mount as node 1; every other number is allocated by the
// table starting at 2.
const RootID uint64 = 1

// Table owns the bidirectional inode-number <-> path mapping and the
// allocation counter.
//
// Two complementary maps (forward ino->path, reverse path->ino) are kept
// consistent under a single mutex, so resolution and allocation are both
// constant-time and atomic with respect to each other. The reverse map is
// what guarantees that two concurrent callers referencing the same
// previously-unseen path receive the same inode number.
//
// Entries are never evicted: an inode number stays valid for the whole
// mount session even if the underlying path is deleted, and numbers are
// never reused. Unbounded growth is accepted behavior, not a leak to fix.
type Table struct {
	mu    sync.RWMutex
	paths map[uint64]string // forward: inode number -> absolute real path
	nums  map[string]uint64 // reverse: absolute real path -> inode number
	next  uint64
}

// NewTable creates a table seeded with the root path at inode 1.
// Allocation for all other paths starts at 2.
func NewTable(root string) *Table {
	return &Table{
		paths: map[uint64]string{RootID: root},
		nums:  map[string]uint64{root: RootID},
		next:  RootID + 1,
	}
}

// Resolve returns the real path for an inode number. The second return
// value is false when the number was never allocated in this session.
func (t *Table) Resolve(ino uint64) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	path, ok := t.paths[ino]
	return path, ok
}

// GetOrAllocate returns the inode number for path, allocating the next
// counter value if the path has not been seen before. The check and the
// allocation happen under one critical section, so no duplicate numbers
// can be handed out for the same path.
func (t *Table) GetOrAllocate(path string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ino, ok := t.nums[path]; ok {
		return ino
	}

	ino := t.next
	t.next++
	t.paths[ino] = path
	t.nums[path] = ino
	return ino
}

// Len returns the number of live mappings, including the root entry.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.paths)
}

// NextID returns the inode number the next allocation will receive.
func (t *Table) NextID() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.next
}
