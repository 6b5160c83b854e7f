// Package passthrough implements the metadata and read service for a
// filesystem that re-exposes an existing directory tree unmodified.
//
// The service owns the inode table and performs every operation directly
// against the real filesystem: attributes are stat'ed fresh on each
// request, directories are re-read on each listing call, and file reads
// open the backing file by path for the duration of a single request.
// Nothing is cached at this layer; client-side caching is governed solely
// by the validity durations the protocol adapter communicates.
package passthrough

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ginot/kriptofs/pkg/inode"
	"github.com/ginot/kriptofs/pkg/passthrough/fserrors"
)

// Service resolves protocol inode numbers to real paths and serves
// attribute, directory, and read requests against the source tree.
//
// The inode table is the only shared mutable state; all Service methods
// are safe for concurrent use.
type Service struct {
	source string
	inodes *inode.Table
}

// NewService creates a passthrough service rooted at source.
//
// The source path is made absolute and must exist and be a directory;
// a mount over a missing source is refused before any request is served.
func NewService(source string) (*Service, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("resolving source path %q: %w", source, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("source directory does not exist: %s", abs)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path is not a directory: %s", abs)
	}

	return &Service{
		source: abs,
		inodes: inode.NewTable(abs),
	}, nil
}

// Source returns the absolute path of the backing directory tree.
func (s *Service) Source() string {
	return s.source
}

// InodeCount returns the number of live inode mappings.
func (s *Service) InodeCount() int {
	return s.inodes.Len()
}

// NextInode returns the inode number the next allocation will receive.
func (s *Service) NextInode() uint64 {
	return s.inodes.NextID()
}

// resolvePath translates an inode number into the real path it was
// allocated for. Unknown numbers surface as stale handles.
func (s *Service) resolvePath(ino uint64) (string, error) {
	path, ok := s.inodes.Resolve(ino)
	if !ok {
		return "", fserrors.NewStaleHandleError(ino)
	}
	return path, nil
}
