package fuse

import (
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/ginot/kriptofs/internal/logger"
	"github.com/ginot/kriptofs/internal/telemetry"
)

// ============================================================================
// GETATTR
// ============================================================================

// GetAttr returns the attributes of the object an inode refers to.
//
// Attributes are translated fresh from the real filesystem on every
// call; the only caching is the one second validity window the kernel
// is told to honor. A file handle in the request is irrelevant here
// because handles carry no state (OPEN always returns handle 0).
//
// An unknown inode or a path that has vanished from the source both
// answer ENOENT.
func (fs *rawFileSystem) GetAttr(cancel <-chan struct{}, input *fuse.GetAttrIn, out *fuse.AttrOut) fuse.Status {
	ctx, finish := fs.beginOp("GETATTR", input.NodeId, &input.Caller)

	attr, err := fs.svc.GetAttr(input.NodeId)
	if err != nil {
		status := toFUSEStatus(err)
		logger.DebugCtx(ctx, "GETATTR failed",
			logger.KeyStatus, statusName(status),
			logger.KeyError, err)
		telemetry.RecordError(ctx, err)
		finish(status)
		return status
	}

	populateAttr(attr, &out.Attr)
	out.SetTimeout(attrTimeout)

	logger.DebugCtx(ctx, "GETATTR ok",
		logger.KeyKind, attr.Kind,
		logger.KeySize, attr.Size)
	finish(fuse.OK)
	return fuse.OK
}
