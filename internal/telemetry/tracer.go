package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys for FUSE operation spans. Generic filesystem keys use
// the "fs." prefix; FUSE-specific keys use "fuse.".
const (
	AttrOperation = "fs.operation"  // LOOKUP, GETATTR, READ, READDIR, OPEN
	AttrPath      = "fs.path"       // Resolved real path
	AttrFilename  = "fs.filename"   // Entry name within a directory
	AttrOffset    = "fs.offset"     // I/O or directory offset
	AttrCount     = "fs.count"      // Bytes requested
	AttrBytesRead = "fs.bytes_read" // Bytes actually returned
	AttrSize      = "fs.size"       // File size
	AttrKind      = "fs.kind"       // Object kind
	AttrStatus    = "fs.status"     // Status returned to the kernel

	AttrInode     = "fuse.inode"      // Kernel-visible inode number
	AttrCallerPID = "fuse.caller_pid" // PID of the requesting process
	AttrCallerUID = "fuse.caller_uid" // UID of the requesting process
)

// Inode returns an attribute for a kernel-visible inode number.
func Inode(ino uint64) attribute.KeyValue {
	return attribute.Int64(AttrInode, int64(ino))
}

// Operation returns an attribute for a FUSE opcode name.
func Operation(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// Status returns an attribute for the status returned to the kernel.
func Status(status string) attribute.KeyValue {
	return attribute.String(AttrStatus, status)
}
