package passthrough_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginot/kriptofs/pkg/inode"
	"github.com/ginot/kriptofs/pkg/passthrough"
	"github.com/ginot/kriptofs/pkg/passthrough/fserrors"
)

// collect drains a listing from resumeOffset, accepting up to limit
// entries (limit <= 0 means unlimited).
func collect(t *testing.T, svc *passthrough.Service, ino, resumeOffset uint64, limit int) []passthrough.DirEntry {
	t.Helper()
	var entries []passthrough.DirEntry
	err := svc.ReadDirectory(ino, resumeOffset, func(e passthrough.DirEntry) bool {
		if limit > 0 && len(entries) == limit {
			return false
		}
		entries = append(entries, e)
		return true
	})
	require.NoError(t, err)
	return entries
}

func names(entries []passthrough.DirEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestReadDirectory_DotEntriesFirst(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "a.txt", []byte("hello"))

	entries := collect(t, svc, inode.RootID, 0, 0)

	require.GreaterOrEqual(t, len(entries), 3)
	assert.Equal(t, []string{".", "..", "a.txt"}, names(entries))

	// "." sits at offset 0 and ".." at offset 1; each entry carries the
	// cursor for the entry after it.
	assert.EqualValues(t, 1, entries[0].NextOffset)
	assert.EqualValues(t, 2, entries[1].NextOffset)
	assert.EqualValues(t, 3, entries[2].NextOffset)

	// Synthetic rows carry the directory's own inode and directory kind.
	assert.Equal(t, inode.RootID, entries[0].Ino)
	assert.Equal(t, inode.RootID, entries[1].Ino)
	assert.Equal(t, passthrough.KindDirectory, entries[0].Kind)
	assert.Equal(t, passthrough.KindDirectory, entries[1].Kind)
}

func TestReadDirectory_EmptyDirectory(t *testing.T) {
	svc, _ := newServiceFixture(t)

	entries := collect(t, svc, inode.RootID, 0, 0)

	assert.Equal(t, []string{".", ".."}, names(entries),
		"a directory with zero children still yields the synthetic rows")
}

func TestReadDirectory_ChildKinds(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "file.txt", []byte("x"))
	require.NoError(t, os.Mkdir(filepath.Join(source, "sub"), 0o755))
	require.NoError(t, os.Symlink(
		filepath.Join(source, "file.txt"),
		filepath.Join(source, "zlink")))

	entries := collect(t, svc, inode.RootID, 0, 0)
	byName := map[string]passthrough.DirEntry{}
	for _, e := range entries {
		byName[e.Name] = e
	}

	assert.Equal(t, passthrough.KindRegular, byName["file.txt"].Kind)
	assert.Equal(t, passthrough.KindDirectory, byName["sub"].Kind)
	// Listings do not distinguish symlinks.
	assert.Equal(t, passthrough.KindRegular, byName["zlink"].Kind)
}

func TestReadDirectory_ResumeFromOffset(t *testing.T) {
	svc, source := newServiceFixture(t)
	for _, name := range []string{"a", "b", "c", "d"} {
		writeFile(t, source, name, []byte("x"))
	}

	// Take the first three entries (".", "..", "a"), then resume from
	// the cursor of the last accepted entry.
	page1 := collect(t, svc, inode.RootID, 0, 3)
	require.Equal(t, []string{".", "..", "a"}, names(page1))

	page2 := collect(t, svc, inode.RootID, page1[len(page1)-1].NextOffset, 0)
	assert.Equal(t, []string{"b", "c", "d"}, names(page2))
}

func TestReadDirectory_ResumePastEnd(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "a", []byte("x"))

	entries := collect(t, svc, inode.RootID, 100, 0)
	assert.Empty(t, entries, "resuming past the end yields no entries and no error")
}

func TestReadDirectory_FullBufferStopsWithoutError(t *testing.T) {
	svc, source := newServiceFixture(t)
	for _, name := range []string{"a", "b", "c"} {
		writeFile(t, source, name, []byte("x"))
	}

	var count int
	err := svc.ReadDirectory(inode.RootID, 0, func(passthrough.DirEntry) bool {
		count++
		return false // reply buffer reports itself full immediately
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "enumeration must stop after the rejected entry")
}

func TestReadDirectory_StableChildInodes(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "a.txt", []byte("x"))

	first := collect(t, svc, inode.RootID, 0, 0)
	second := collect(t, svc, inode.RootID, 0, 0)

	require.Equal(t, names(first), names(second))
	for i := range first {
		assert.Equal(t, first[i].Ino, second[i].Ino,
			"entry %q must keep its inode across listings", first[i].Name)
	}

	// A listing and a lookup must agree on the child's inode.
	attr, err := svc.Lookup(inode.RootID, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, first[2].Ino, attr.Ino)
}

func TestReadDirectory_UnknownInode(t *testing.T) {
	svc, _ := newServiceFixture(t)

	err := svc.ReadDirectory(777, 0, func(passthrough.DirEntry) bool { return true })
	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func TestReadDirectory_NotADirectory(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "plain.txt", []byte("x"))

	attr, err := svc.Lookup(inode.RootID, "plain.txt")
	require.NoError(t, err)

	err = svc.ReadDirectory(attr.Ino, 0, func(passthrough.DirEntry) bool { return true })
	require.Error(t, err)
	assert.Equal(t, fserrors.ErrNotFound, fserrors.CodeOf(err))
}
