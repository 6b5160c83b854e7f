package passthrough

import (
	"os"
	"path/filepath"

	"github.com/ginot/kriptofs/pkg/passthrough/fserrors"
)

// DirEntry is one element of a paginated directory listing.
type DirEntry struct {
	// Ino is the entry's inode number. The synthetic "." and ".." rows
	// carry the listed directory's own number.
	Ino uint64

	// NextOffset is the resume cursor for the entry after this one. The
	// caller hands the last accepted entry's NextOffset back to resume a
	// listing that stopped at a full buffer.
	NextOffset uint64

	// Kind is directory or regular file. Listings do not distinguish
	// symlinks; only attribute translation does.
	Kind FileKind

	// Name is the entry name within the directory.
	Name string
}

// ReadDirectory produces an offset-addressable listing of the directory an
// inode refers to, calling emit for each entry at or past resumeOffset.
//
// Offsets are logical positions: 0 is ".", 1 is "..", and 2 onward are the
// real children in the order the underlying filesystem's enumeration
// yields them. emit returning false means the caller's reply buffer is
// full; enumeration then stops without error and the caller resumes later
// from the last accepted entry's NextOffset.
//
// The real directory is re-read from the beginning on every call, with no
// snapshot held between calls. A listing resumed across concurrent
// mutation of the directory can therefore observe duplicate or missing
// entries; that is an accepted limitation of the design, not a bug to
// paper over.
func (s *Service) ReadDirectory(ino uint64, resumeOffset uint64, emit func(DirEntry) bool) error {
	path, err := s.resolvePath(ino)
	if err != nil {
		return err
	}

	// An unreadable or non-directory path fails NotFound, the same as a
	// path that vanished.
	children, err := os.ReadDir(path)
	if err != nil {
		return fserrors.NewNotFoundError(path)
	}

	var offset uint64

	// Synthetic "." and ".." come first, even for a directory with zero
	// real children.
	for _, name := range []string{".", ".."} {
		if offset >= resumeOffset {
			if !emit(DirEntry{
				Ino:        ino,
				NextOffset: offset + 1,
				Kind:       KindDirectory,
				Name:       name,
			}) {
				return nil
			}
		}
		offset++
	}

	for _, child := range children {
		if offset < resumeOffset {
			offset++
			continue
		}

		kind := KindRegular
		if child.IsDir() {
			kind = KindDirectory
		}

		entry := DirEntry{
			Ino:        s.inodes.GetOrAllocate(filepath.Join(path, child.Name())),
			NextOffset: offset + 1,
			Kind:       kind,
			Name:       child.Name(),
		}
		if !emit(entry) {
			return nil
		}
		offset++
	}

	return nil
}
