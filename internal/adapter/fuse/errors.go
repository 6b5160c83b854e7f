package fuse

import (
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/ginot/kriptofs/pkg/passthrough/fserrors"
)

// toFUSEStatus maps a passthrough error to the status returned to the
// kernel. Unknown errors map to EIO so the caller sees a generic I/O
// failure rather than a protocol error.
//
// Mapping:
//   - ErrNotFound, ErrStaleHandle → ENOENT
//   - ErrNotDirectory → ENOTDIR
//   - ErrPermissionDenied, ErrReadOnly → EACCES
//   - ErrIO and anything else → EIO
func toFUSEStatus(err error) fuse.Status {
	if err == nil {
		return fuse.OK
	}

	switch fserrors.CodeOf(err) {
	case fserrors.ErrNotFound, fserrors.ErrStaleHandle:
		return fuse.ENOENT
	case fserrors.ErrNotDirectory:
		return fuse.ENOTDIR
	case fserrors.ErrPermissionDenied, fserrors.ErrReadOnly:
		return fuse.EACCES
	default:
		return fuse.EIO
	}
}

// statusName returns the errno name used in logs and metrics labels.
// fuse.OK maps to the empty string so metrics can treat it as success.
func statusName(status fuse.Status) string {
	switch status {
	case fuse.OK:
		return ""
	case fuse.ENOENT:
		return "ENOENT"
	case fuse.ENOTDIR:
		return "ENOTDIR"
	case fuse.EACCES:
		return "EACCES"
	case fuse.EINVAL:
		return "EINVAL"
	case fuse.EIO:
		return "EIO"
	default:
		return status.String()
	}
}
