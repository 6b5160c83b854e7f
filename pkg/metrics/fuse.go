package metrics

import (
	"time"
)

// FUSEMetrics provides observability for FUSE adapter operations.
//
// Implementations can collect metrics about kernel requests, throughput,
// and the inode table. This interface is optional - pass nil to disable
// metrics collection with zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	metrics.InitRegistry()
//	m := prometheus.NewFUSEMetrics()
//	adapter := fuse.New(config, svc, m)
//
//	// Without metrics (pass nil for zero overhead)
//	adapter := fuse.New(config, svc, nil)
type FUSEMetrics interface {
	// RecordRequest records a completed FUSE request with its opcode name,
	// duration, and outcome.
	//
	// Parameters:
	//   - operation: FUSE opcode name (e.g., "LOOKUP", "READ", "READDIR")
	//   - duration: Time taken to process the request
	//   - errorCode: Status name if the request failed (e.g., "ENOENT"), empty if successful
	RecordRequest(operation string, duration time.Duration, errorCode string)

	// RecordRequestStart increments the in-flight request counter.
	// Should be called when starting to process a request.
	RecordRequestStart(operation string)

	// RecordRequestEnd decrements the in-flight request counter.
	// Should be called when request processing completes.
	RecordRequestEnd(operation string)

	// RecordBytesRead records bytes returned by a READ request.
	RecordBytesRead(bytes uint64)

	// RecordDirectoryEntries records the number of entries emitted by a
	// READDIR request.
	RecordDirectoryEntries(count int)

	// SetInodeCount updates the current size of the inode table.
	SetInodeCount(count int)
}
