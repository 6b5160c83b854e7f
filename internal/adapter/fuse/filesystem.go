// Package fuse adapts the passthrough service to the kernel FUSE
// protocol using the go-fuse raw API.
//
// The adapter is a thin dispatch layer: it validates kernel requests,
// delegates to the passthrough service, and translates results and
// errors back into kernel replies. All filesystem semantics (inode
// allocation, attribute translation, directory enumeration, read
// access) live in pkg/passthrough; nothing here touches the real
// filesystem directly.
//
// Only the read-path opcodes are implemented: LOOKUP, GETATTR, OPEN,
// READ, OPENDIR, READDIR and READDIRPLUS, plus STATFS for basic
// usability. Every other opcode falls through to the embedded default
// raw filesystem, which answers ENOSYS; the kernel then stops sending
// that opcode for the lifetime of the mount.
package fuse

import (
	"context"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"
	"go.opentelemetry.io/otel/trace"

	"github.com/ginot/kriptofs/internal/logger"
	"github.com/ginot/kriptofs/internal/telemetry"
	"github.com/ginot/kriptofs/pkg/metrics"
	"github.com/ginot/kriptofs/pkg/passthrough"
)

// rawFileSystem dispatches kernel FUSE requests to the passthrough
// service.
//
// Requests are never cancelled once dispatched: each operation is a
// short, bounded sequence of syscalls against the real filesystem, so
// the interrupt channel the kernel provides is deliberately ignored.
// The embedded default raw filesystem supplies ENOSYS for every opcode
// this type does not override.
type rawFileSystem struct {
	fuse.RawFileSystem

	svc     *passthrough.Service
	metrics metrics.FUSEMetrics
}

// newRawFileSystem creates the dispatch layer over a passthrough
// service. metrics may be nil to disable collection.
func newRawFileSystem(svc *passthrough.Service, m metrics.FUSEMetrics) *rawFileSystem {
	return &rawFileSystem{
		RawFileSystem: fuse.NewDefaultRawFileSystem(),
		svc:           svc,
		metrics:       m,
	}
}

// String identifies the filesystem in go-fuse debug output.
func (fs *rawFileSystem) String() string {
	return "kriptofs"
}

// beginOp starts bookkeeping for one kernel request: a logging context
// carrying the opcode, inode and caller identity, a trace span, and the
// in-flight metrics counter. The returned finish function takes the
// final status and completes all three.
func (fs *rawFileSystem) beginOp(op string, ino uint64, caller *fuse.Caller) (context.Context, func(fuse.Status)) {
	start := time.Now()

	lc := logger.NewLogContext(op, ino)
	if caller != nil {
		lc = lc.WithCaller(caller.Pid, caller.Uid, caller.Gid)
	}

	ctx, span := telemetry.StartSpan(context.Background(), "fuse."+op,
		trace.WithAttributes(
			telemetry.Operation(op),
			telemetry.Inode(ino),
		),
	)
	if telemetry.IsEnabled() {
		lc = lc.WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
	}
	ctx = logger.WithContext(ctx, lc)

	if fs.metrics != nil {
		fs.metrics.RecordRequestStart(op)
	}

	finish := func(status fuse.Status) {
		span.SetAttributes(telemetry.Status(statusName(status)))
		span.End()

		if fs.metrics != nil {
			fs.metrics.RecordRequestEnd(op)
			fs.metrics.RecordRequest(op, time.Since(start), statusName(status))
			fs.metrics.SetInodeCount(fs.svc.InodeCount())
		}
	}

	return ctx, finish
}

// StatFs reports static filesystem limits. The passthrough layer has no
// capacity of its own, so only the block size and the common 255-byte
// name limit are announced; the latter makes pathconf(_PC_NAME_MAX)
// work on the mount.
func (fs *rawFileSystem) StatFs(cancel <-chan struct{}, input *fuse.InHeader, out *fuse.StatfsOut) fuse.Status {
	out.Bsize = 4096
	out.NameLen = 255
	return fuse.OK
}
