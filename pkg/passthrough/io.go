package passthrough

import (
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/ginot/kriptofs/pkg/passthrough/fserrors"
)

// Read returns up to size bytes starting at offset from the file an inode
// refers to.
//
// No file-handle table exists: every read is a fresh open-seek-read-close
// cycle against the resolved path. A failed open is NotFound; a failed
// seek or read after a successful open is an I/O error. A read at or past
// end-of-file returns zero bytes and no error, and a window extending past
// end-of-file returns exactly the bytes that exist.
func (s *Service) Read(ino uint64, offset int64, size uint32) ([]byte, error) {
	path, err := s.resolvePath(ino)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fserrors.NewNotFoundError(path)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fserrors.NewIOError(path, err)
	}

	buf := make([]byte, size)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fserrors.NewIOError(path, err)
	}
	return buf[:n], nil
}

// Open validates an open request against an inode.
//
// Read-only access always succeeds; any request for write or read-write
// access is refused with PermissionDenied. No file-handle object is
// created or tracked; the handle identifier returned to the kernel is
// always zero and subsequent reads address the file by inode.
func (s *Service) Open(ino uint64, flags uint32) error {
	path, err := s.resolvePath(ino)
	if err != nil {
		return err
	}

	switch int(flags) & syscall.O_ACCMODE {
	case syscall.O_RDONLY:
		return nil
	default:
		return fserrors.NewPermissionDeniedError(path)
	}
}
