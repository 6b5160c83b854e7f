package logger

// Standard field keys for structured logging. Use these keys consistently
// across all log statements so mount sessions can be queried and
// aggregated by field.
const (
	// Distributed tracing
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// Protocol operation
	KeyOp     = "op"     // FUSE opcode name: LOOKUP, GETATTR, READ, READDIR, OPEN
	KeyInode  = "inode"  // Kernel-visible inode number
	KeyStatus = "status" // Protocol status code returned to the kernel

	// Filesystem objects
	KeyPath    = "path"    // Resolved real-filesystem path
	KeyName    = "name"    // Entry name within a directory
	KeyKind    = "kind"    // Object kind: file, directory, symlink
	KeySize    = "size"    // Byte size
	KeyMode    = "mode"    // Permission bits (octal)
	KeySource  = "source"  // Source directory of the mount
	KeyTarget  = "target"  // Mount target path
	KeyEntries = "entries" // Directory entries emitted

	// I/O
	KeyOffset    = "offset"     // Byte or directory offset
	KeyCount     = "count"      // Bytes requested
	KeyBytesRead = "bytes_read" // Bytes actually returned
	KeyFlags     = "flags"      // Open flags (octal)

	// Requesting process, as reported by the kernel
	KeyCallerPID = "caller_pid"
	KeyCallerUID = "caller_uid"
	KeyCallerGID = "caller_gid"

	// Operation metadata
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
)
