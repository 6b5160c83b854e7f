package fuse

import (
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/ginot/kriptofs/internal/logger"
	"github.com/ginot/kriptofs/internal/telemetry"
	"github.com/ginot/kriptofs/pkg/passthrough"
)

// ============================================================================
// READDIR / READDIRPLUS
// ============================================================================

// ReadDir streams directory entries into the kernel's reply buffer,
// resuming at the offset the kernel passes back from the previous call.
//
// The enumeration protocol:
//
//   - "." sits at offset 0 and ".." at offset 1, both naming the
//     directory's own inode
//   - real children follow from offset 2 in the order the real
//     filesystem returns them
//   - each entry carries the offset of its successor, which the kernel
//     echoes back as the resume point for the next READDIR
//
// The directory is re-read from the real filesystem on every call, so a
// listing paginated across several requests may observe entries created
// or removed between them; each page is only consistent with the moment
// it was produced.
//
// A full reply buffer ends the page with OK status - the kernel simply
// issues another READDIR at the echoed offset. An unknown inode or a
// directory that cannot be read answers ENOENT.
func (fs *rawFileSystem) ReadDir(cancel <-chan struct{}, input *fuse.ReadIn, out *fuse.DirEntryList) fuse.Status {
	ctx, finish := fs.beginOp("READDIR", input.NodeId, &input.Caller)

	count := 0
	err := fs.svc.ReadDirectory(input.NodeId, input.Offset, func(e passthrough.DirEntry) bool {
		ok := out.AddDirEntry(fuse.DirEntry{
			Mode: kindToMode(e.Kind),
			Name: e.Name,
			Ino:  e.Ino,
			Off:  e.NextOffset,
		})
		if ok {
			count++
		}
		return ok
	})
	if err != nil {
		status := toFUSEStatus(err)
		logger.DebugCtx(ctx, "READDIR failed",
			logger.KeyOffset, input.Offset,
			logger.KeyStatus, statusName(status),
			logger.KeyError, err)
		telemetry.RecordError(ctx, err)
		finish(status)
		return status
	}

	if fs.metrics != nil {
		fs.metrics.RecordDirectoryEntries(count)
	}

	logger.DebugCtx(ctx, "READDIR ok",
		logger.KeyOffset, input.Offset,
		logger.KeyEntries, count)
	finish(fuse.OK)
	return fuse.OK
}

// ReadDirPlus is READDIR with attributes: each child entry additionally
// carries the reply a LOOKUP on it would have produced, saving the
// kernel one round trip per entry.
//
// The "." and ".." entries are emitted without attributes - the kernel
// tracks both itself and never needs them looked up. A child whose
// attributes cannot be translated (it vanished between the directory
// scan and the stat) is still listed, just without attributes; the
// kernel falls back to an explicit LOOKUP if it cares.
func (fs *rawFileSystem) ReadDirPlus(cancel <-chan struct{}, input *fuse.ReadIn, out *fuse.DirEntryList) fuse.Status {
	ctx, finish := fs.beginOp("READDIRPLUS", input.NodeId, &input.Caller)

	count := 0
	err := fs.svc.ReadDirectory(input.NodeId, input.Offset, func(e passthrough.DirEntry) bool {
		entryOut := out.AddDirLookupEntry(fuse.DirEntry{
			Mode: kindToMode(e.Kind),
			Name: e.Name,
			Ino:  e.Ino,
			Off:  e.NextOffset,
		})
		if entryOut == nil {
			return false
		}
		count++

		if e.Name != "." && e.Name != ".." {
			if attr, attrErr := fs.svc.GetAttr(e.Ino); attrErr == nil {
				populateEntryOut(attr, entryOut)
			}
		}
		return true
	})
	if err != nil {
		status := toFUSEStatus(err)
		logger.DebugCtx(ctx, "READDIRPLUS failed",
			logger.KeyOffset, input.Offset,
			logger.KeyStatus, statusName(status),
			logger.KeyError, err)
		telemetry.RecordError(ctx, err)
		finish(status)
		return status
	}

	if fs.metrics != nil {
		fs.metrics.RecordDirectoryEntries(count)
	}

	logger.DebugCtx(ctx, "READDIRPLUS ok",
		logger.KeyOffset, input.Offset,
		logger.KeyEntries, count)
	finish(fuse.OK)
	return fuse.OK
}
