package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context.
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context for a single FUSE
// request.
type LogContext struct {
	TraceID   string    // OpenTelemetry trace ID
	SpanID    string    // OpenTelemetry span ID
	Op        string    // FUSE opcode name (LOOKUP, READ, ...)
	Inode     uint64    // Inode number the request addresses
	CallerPID uint32    // PID of the requesting process
	CallerUID uint32    // Effective user ID of the requesting process
	CallerGID uint32    // Effective group ID of the requesting process
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for an operation on an inode.
func NewLogContext(op string, inode uint64) *LogContext {
	return &LogContext{
		Op:        op,
		Inode:     inode,
		StartTime: time.Now(),
	}
}

// WithCaller returns a copy with the requesting process identity set.
func (lc *LogContext) WithCaller(pid, uid, gid uint32) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.CallerPID = pid
		clone.CallerUID = uid
		clone.CallerGID = gid
	}
	return clone
}

// WithTrace returns a copy with trace info set.
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// Clone creates a copy of the LogContext.
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// DurationMs returns the duration since StartTime in milliseconds.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
