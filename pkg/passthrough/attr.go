package passthrough

import (
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ginot/kriptofs/pkg/passthrough/fserrors"
)

// FileKind classifies a filesystem object for the protocol layer.
type FileKind int

const (
	// KindRegular is a regular file. Object kinds the protocol does not
	// model (sockets, devices, FIFOs) are normalized to KindRegular.
	KindRegular FileKind = iota

	// KindDirectory is a directory.
	KindDirectory

	// KindSymlink is a symbolic link. Symlinks are only distinguished
	// here, in attribute translation; directory listings report them as
	// regular files.
	KindSymlink
)

// String returns the kind name used in logs.
func (k FileKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// permMask keeps only the permission portion of a mode value: rwx bits
// plus setuid/setgid/sticky. Letting file-type bits leak into the
// permission field would corrupt the protocol's interpretation of the
// attribute, so the mask is a correctness requirement, not cosmetics.
const permMask = 0o7777

// FileAttr is the attribute record the protocol requires for every
// filesystem object. It is derived fresh from the real filesystem on
// every request; nothing here is cached.
type FileAttr struct {
	// Ino is the stable inode number assigned by the inode table.
	Ino uint64

	// Size is the byte size reported by the real filesystem.
	Size uint64

	// Blocks is the allocated 512-byte block count.
	Blocks uint64

	// Atime and Mtime come from the real filesystem.
	Atime time.Time
	Mtime time.Time

	// Ctime is synthetic: it is the time of the translating call, not a
	// value sourced from the real filesystem.
	Ctime time.Time

	// Kind is the normalized object kind.
	Kind FileKind

	// Perm holds only permission bits; type bits never survive
	// translation.
	Perm uint32

	// Nlink is the hard-link count the underlying filesystem reports.
	Nlink uint32

	// UID and GID identify the owner.
	UID uint32
	GID uint32

	// Rdev is the device identifier.
	Rdev uint32

	// Blksize is the preferred I/O block size.
	Blksize uint32
}

// GetAttr stats the object an inode refers to and translates its metadata
// into an attribute record.
//
// Any stat failure (path vanished, permission denied, I/O error) is
// reported uniformly as NotFound; the dispatcher does not distinguish
// causes.
func (s *Service) GetAttr(ino uint64) (*FileAttr, error) {
	path, err := s.resolvePath(ino)
	if err != nil {
		return nil, err
	}
	return s.statAttr(path)
}

// Lookup resolves a child name against a parent directory inode and
// returns the child's attribute record, allocating an inode for the child
// path on first sight.
//
// Generation numbers are not tracked; callers always report generation 0
// alongside the returned attribute.
func (s *Service) Lookup(parent uint64, name string) (*FileAttr, error) {
	parentPath, err := s.resolvePath(parent)
	if err != nil {
		return nil, err
	}
	return s.statAttr(filepath.Join(parentPath, name))
}

// statAttr performs the attribute translation for an already-resolved
// real path.
func (s *Service) statAttr(path string) (*FileAttr, error) {
	// Lstat, not Stat: symlinks must surface with their own kind rather
	// than the kind of their target.
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fserrors.NewNotFoundError(path)
	}

	attr := &FileAttr{
		Ino:   s.inodes.GetOrAllocate(path),
		Size:  uint64(info.Size()),
		Ctime: time.Now(),
		Perm:  uint32(info.Mode().Perm()),
		Nlink: 1,
	}

	switch {
	case info.IsDir():
		attr.Kind = KindDirectory
	case info.Mode()&os.ModeSymlink != 0:
		attr.Kind = KindSymlink
	default:
		attr.Kind = KindRegular
	}

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		attr.Blocks = uint64(st.Blocks)
		attr.Atime = time.Unix(st.Atim.Sec, st.Atim.Nsec)
		attr.Mtime = time.Unix(st.Mtim.Sec, st.Mtim.Nsec)
		attr.Perm = uint32(st.Mode) & permMask
		attr.Nlink = uint32(st.Nlink)
		attr.UID = st.Uid
		attr.GID = st.Gid
		attr.Rdev = uint32(st.Rdev)
		attr.Blksize = uint32(st.Blksize)
	} else {
		// Filesystems that cannot report timestamps fall back to the
		// epoch rather than failing the request.
		attr.Atime = time.Unix(0, 0)
		attr.Mtime = info.ModTime()
	}

	return attr, nil
}
