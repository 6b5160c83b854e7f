package fuse

import (
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/ginot/kriptofs/internal/logger"
	"github.com/ginot/kriptofs/internal/telemetry"
)

// ============================================================================
// READ
// ============================================================================

// Read returns up to Size bytes of a file starting at Offset.
//
// Every READ is self-contained: the service opens the real file, seeks,
// reads, and closes it again. No descriptor survives between requests,
// so the Fh field in the request is ignored and reads issued against a
// long-forgotten open still work as long as the path still resolves.
//
// A read that starts at or beyond end-of-file returns zero bytes with
// OK status; that is how the kernel learns it has reached the end.
//
// **Error handling:**
//
//   - Unknown inode or vanished path → ENOENT
//   - Seek or read failure on the real file → EIO
func (fs *rawFileSystem) Read(cancel <-chan struct{}, input *fuse.ReadIn, buf []byte) (fuse.ReadResult, fuse.Status) {
	ctx, finish := fs.beginOp("READ", input.NodeId, &input.Caller)

	size := input.Size
	if uint32(len(buf)) < size {
		size = uint32(len(buf))
	}

	data, err := fs.svc.Read(input.NodeId, int64(input.Offset), size)
	if err != nil {
		status := toFUSEStatus(err)
		logger.WarnCtx(ctx, "READ failed",
			logger.KeyOffset, input.Offset,
			logger.KeyCount, size,
			logger.KeyStatus, statusName(status),
			logger.KeyError, err)
		telemetry.RecordError(ctx, err)
		finish(status)
		return nil, status
	}

	if fs.metrics != nil {
		fs.metrics.RecordBytesRead(uint64(len(data)))
	}

	logger.DebugCtx(ctx, "READ ok",
		logger.KeyOffset, input.Offset,
		logger.KeyCount, size,
		logger.KeyBytesRead, len(data))
	finish(fuse.OK)
	return fuse.ReadResultData(data), fuse.OK
}
