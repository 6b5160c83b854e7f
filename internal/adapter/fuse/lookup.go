package fuse

import (
	"fmt"
	"strings"

	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/ginot/kriptofs/internal/logger"
	"github.com/ginot/kriptofs/internal/telemetry"
)

// ============================================================================
// LOOKUP
// ============================================================================

// Lookup resolves a name within a parent directory and returns the
// child's node ID and attributes.
//
// LOOKUP is the building block of kernel path resolution: the kernel
// walks a path one component at a time, issuing one LOOKUP per
// component against the parent's node ID. This adapter never sees a
// full path.
//
// **Process:**
//
//  1. Validate the name (non-empty, no NUL bytes, no path separators,
//     at most 255 bytes)
//  2. Delegate to the passthrough service, which resolves the parent
//     inode, stats the child on the real filesystem, and allocates an
//     inode for the child path on first sight
//  3. Fill the entry reply: node ID = inode, generation 0, translated
//     attributes, one second entry and attribute validity
//
// **Error handling:**
//
//   - Invalid name → EINVAL
//   - Unknown parent inode or missing child → ENOENT
//   - Anything else from the real filesystem → ENOENT (the service
//     reports all stat failures uniformly as not-found)
//
// The service allocates the child's inode even though the kernel may
// never reference it again; inodes are cheap and never reclaimed, so a
// failed open after a successful lookup still resolves consistently.
func (fs *rawFileSystem) Lookup(cancel <-chan struct{}, header *fuse.InHeader, name string, out *fuse.EntryOut) fuse.Status {
	ctx, finish := fs.beginOp("LOOKUP", header.NodeId, &header.Caller)

	logger.DebugCtx(ctx, "LOOKUP",
		logger.KeyName, name)

	// ========================================================================
	// Step 1: Validate the requested name
	// ========================================================================

	if err := validateName(name); err != nil {
		logger.WarnCtx(ctx, "LOOKUP validation failed",
			logger.KeyName, name,
			logger.KeyError, err)
		finish(fuse.EINVAL)
		return fuse.EINVAL
	}

	// ========================================================================
	// Step 2: Resolve the child via the passthrough service
	// ========================================================================

	attr, err := fs.svc.Lookup(header.NodeId, name)
	if err != nil {
		status := toFUSEStatus(err)
		logger.DebugCtx(ctx, "LOOKUP failed",
			logger.KeyName, name,
			logger.KeyStatus, statusName(status),
			logger.KeyError, err)
		telemetry.RecordError(ctx, err)
		finish(status)
		return status
	}

	// ========================================================================
	// Step 3: Fill the entry reply
	// ========================================================================

	populateEntryOut(attr, out)

	logger.DebugCtx(ctx, "LOOKUP ok",
		logger.KeyName, name,
		logger.KeyTarget, attr.Ino,
		logger.KeyKind, attr.Kind)
	finish(fuse.OK)
	return fuse.OK
}

// validateName checks a directory entry name received from the kernel.
//
// The kernel normally never sends malformed names, but this adapter
// sits on an untrusted boundary: a name containing a separator would
// let a single LOOKUP escape its parent directory.
//
// Checks performed:
//   - Name is not empty
//   - Name length does not exceed 255 bytes
//   - Name does not contain NUL bytes
//   - Name does not contain path separators
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name")
	}
	if len(name) > 255 {
		return fmt.Errorf("name too long: %d bytes (max 255)", len(name))
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("name contains NUL byte")
	}
	if strings.ContainsRune(name, '/') {
		return fmt.Errorf("name contains path separator")
	}
	return nil
}
