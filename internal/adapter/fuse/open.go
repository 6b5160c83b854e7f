package fuse

import (
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/ginot/kriptofs/internal/logger"
	"github.com/ginot/kriptofs/internal/telemetry"
)

// ============================================================================
// OPEN / OPENDIR
// ============================================================================

// Open admits or rejects an open request for a regular file.
//
// The filesystem is read-only: any access mode other than O_RDONLY is
// refused with EACCES before the real filesystem is touched. A granted
// open carries no state - the reply always names handle 0, and READ
// re-opens the real file on every call - so there is nothing to track
// and nothing to release.
func (fs *rawFileSystem) Open(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	ctx, finish := fs.beginOp("OPEN", input.NodeId, &input.Caller)

	if err := fs.svc.Open(input.NodeId, input.Flags); err != nil {
		status := toFUSEStatus(err)
		logger.InfoCtx(ctx, "OPEN refused",
			logger.KeyFlags, input.Flags,
			logger.KeyStatus, statusName(status))
		telemetry.RecordError(ctx, err)
		finish(status)
		return status
	}

	out.Fh = 0
	out.OpenFlags = 0

	logger.DebugCtx(ctx, "OPEN ok",
		logger.KeyFlags, input.Flags)
	finish(fuse.OK)
	return fuse.OK
}

// OpenDir admits a directory open. Directory handles are as stateless
// as file handles: READDIR re-reads the directory on every call, so the
// reply is always handle 0 with nothing to track.
func (fs *rawFileSystem) OpenDir(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	_, finish := fs.beginOp("OPENDIR", input.NodeId, &input.Caller)

	out.Fh = 0
	out.OpenFlags = 0

	finish(fuse.OK)
	return fuse.OK
}
