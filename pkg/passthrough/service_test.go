package passthrough_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ginot/kriptofs/pkg/inode"
	"github.com/ginot/kriptofs/pkg/passthrough"
)

// newServiceFixture creates a service over a fresh temp directory and
// returns both.
func newServiceFixture(t *testing.T) (*passthrough.Service, string) {
	t.Helper()
	source := t.TempDir()
	svc, err := passthrough.NewService(source)
	require.NoError(t, err)
	return svc, source
}

// writeFile creates a file with content under dir and returns its path.
func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestNewService_MissingSource(t *testing.T) {
	_, err := passthrough.NewService(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")
}

func TestNewService_SourceNotADirectory(t *testing.T) {
	source := t.TempDir()
	path := writeFile(t, source, "plain.txt", []byte("x"))

	_, err := passthrough.NewService(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a directory")
}

func TestNewService_RootIsInodeOne(t *testing.T) {
	svc, _ := newServiceFixture(t)

	attr, err := svc.GetAttr(inode.RootID)
	require.NoError(t, err)
	require.Equal(t, inode.RootID, attr.Ino)
	require.Equal(t, passthrough.KindDirectory, attr.Kind)
	require.Equal(t, 1, svc.InodeCount())
}
