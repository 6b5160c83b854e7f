package passthrough_test

import (
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginot/kriptofs/pkg/inode"
	"github.com/ginot/kriptofs/pkg/passthrough/fserrors"
)

func TestRead_WholeFile(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "a.txt", []byte("hello"))
	attr, err := svc.Lookup(inode.RootID, "a.txt")
	require.NoError(t, err)

	data, err := svc.Read(attr.Ino, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data,
		"a window past end-of-file returns exactly the bytes that exist")
}

func TestRead_FromOffset(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "a.txt", []byte("hello"))
	attr, err := svc.Lookup(inode.RootID, "a.txt")
	require.NoError(t, err)

	data, err := svc.Read(attr.Ino, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("lo"), data)
}

func TestRead_ExactWindow(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "a.txt", []byte("hello world"))
	attr, err := svc.Lookup(inode.RootID, "a.txt")
	require.NoError(t, err)

	data, err := svc.Read(attr.Ino, 6, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), data)
}

func TestRead_OffsetAtEOF(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "a.txt", []byte("hello"))
	attr, err := svc.Lookup(inode.RootID, "a.txt")
	require.NoError(t, err)

	data, err := svc.Read(attr.Ino, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, data, "offset at end-of-file returns zero bytes, no error")
}

func TestRead_OffsetPastEOF(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "a.txt", []byte("hello"))
	attr, err := svc.Lookup(inode.RootID, "a.txt")
	require.NoError(t, err)

	data, err := svc.Read(attr.Ino, 100, 10)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRead_UnknownInode(t *testing.T) {
	svc, _ := newServiceFixture(t)

	_, err := svc.Read(555, 0, 10)
	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func TestRead_VanishedFile(t *testing.T) {
	svc, source := newServiceFixture(t)
	path := writeFile(t, source, "a.txt", []byte("hello"))
	attr, err := svc.Lookup(inode.RootID, "a.txt")
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	// Every read reopens by path, so a deleted file fails the open.
	_, err = svc.Read(attr.Ino, 0, 10)
	require.Error(t, err)
	assert.Equal(t, fserrors.ErrNotFound, fserrors.CodeOf(err))
}

func TestOpen_ReadOnlyAllowed(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "a.txt", []byte("hello"))
	attr, err := svc.Lookup(inode.RootID, "a.txt")
	require.NoError(t, err)

	assert.NoError(t, svc.Open(attr.Ino, uint32(os.O_RDONLY)))
}

func TestOpen_WriteModesRefused(t *testing.T) {
	svc, source := newServiceFixture(t)
	writeFile(t, source, "a.txt", []byte("hello"))
	attr, err := svc.Lookup(inode.RootID, "a.txt")
	require.NoError(t, err)

	for _, flags := range []int{os.O_WRONLY, os.O_RDWR, os.O_RDWR | syscall.O_APPEND} {
		err := svc.Open(attr.Ino, uint32(flags))
		require.Error(t, err, "flags %#o must be refused", flags)
		assert.Equal(t, fserrors.ErrPermissionDenied, fserrors.CodeOf(err))
	}
}

func TestOpen_UnknownInode(t *testing.T) {
	svc, _ := newServiceFixture(t)

	err := svc.Open(321, uint32(os.O_RDONLY))
	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}
