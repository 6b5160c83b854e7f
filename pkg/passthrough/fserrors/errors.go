// Package fserrors provides error types and error codes for the passthrough
// filesystem service. This is a leaf package with no internal dependencies,
// designed to be imported by both the service and the protocol adapter
// without causing circular imports.
package fserrors

import (
	"errors"
	"fmt"
)

// ErrorCode represents the type of error that occurred.
type ErrorCode int

const (
	// ErrNotFound indicates the requested path does not exist or cannot
	// be stat'ed. The service does not distinguish stat-failure causes.
	ErrNotFound ErrorCode = iota + 1

	// ErrStaleHandle indicates an inode number that was never allocated
	// by the inode table for this mount session.
	ErrStaleHandle

	// ErrNotDirectory indicates a directory operation was attempted on a
	// non-directory.
	ErrNotDirectory

	// ErrIO indicates a seek or read failed after the file was already
	// opened successfully.
	ErrIO

	// ErrPermissionDenied indicates an open request asked for a
	// disallowed access mode.
	ErrPermissionDenied

	// ErrReadOnly indicates a mutating operation on the read-only mount.
	ErrReadOnly
)

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrNotFound:
		return "NOT_FOUND"
	case ErrStaleHandle:
		return "STALE_HANDLE"
	case ErrNotDirectory:
		return "NOT_DIRECTORY"
	case ErrIO:
		return "IO_ERROR"
	case ErrPermissionDenied:
		return "PERMISSION_DENIED"
	case ErrReadOnly:
		return "READ_ONLY"
	default:
		return "UNKNOWN"
	}
}

// FSError is the error type returned by the passthrough service.
// It carries a machine-readable code for protocol status mapping and the
// path (when known) for logging.
type FSError struct {
	Code    ErrorCode
	Message string
	Path    string
}

// Error implements the error interface.
func (e *FSError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path: %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from an error, unwrapping as needed.
// Returns ErrIO for errors that did not originate from this package, since
// an unclassified failure surfaces to the protocol as an I/O error.
func CodeOf(err error) ErrorCode {
	var fsErr *FSError
	if errors.As(err, &fsErr) {
		return fsErr.Code
	}
	return ErrIO
}

// IsNotFound reports whether err carries ErrNotFound or ErrStaleHandle,
// the two codes the protocol layer surfaces as "no such entry".
func IsNotFound(err error) bool {
	c := CodeOf(err)
	return c == ErrNotFound || c == ErrStaleHandle
}

// NewNotFoundError creates an FSError for a path that does not exist or
// cannot be stat'ed.
func NewNotFoundError(path string) *FSError {
	return &FSError{
		Code:    ErrNotFound,
		Message: "no such file or directory",
		Path:    path,
	}
}

// NewStaleHandleError creates an FSError for an inode number unknown to
// the inode table.
func NewStaleHandleError(ino uint64) *FSError {
	return &FSError{
		Code:    ErrStaleHandle,
		Message: fmt.Sprintf("inode %d was never allocated", ino),
	}
}

// NewNotDirectoryError creates an FSError for a directory operation on a
// non-directory.
func NewNotDirectoryError(path string) *FSError {
	return &FSError{
		Code:    ErrNotDirectory,
		Message: "not a directory",
		Path:    path,
	}
}

// NewIOError creates an FSError wrapping a low-level I/O failure.
func NewIOError(path string, cause error) *FSError {
	return &FSError{
		Code:    ErrIO,
		Message: cause.Error(),
		Path:    path,
	}
}

// NewPermissionDeniedError creates an FSError for a disallowed access mode.
func NewPermissionDeniedError(path string) *FSError {
	return &FSError{
		Code:    ErrPermissionDenied,
		Message: "write access is not permitted",
		Path:    path,
	}
}

// NewReadOnlyError creates an FSError for mutating operations.
func NewReadOnlyError(path string) *FSError {
	return &FSError{
		Code:    ErrReadOnly,
		Message: "filesystem is read-only",
		Path:    path,
	}
}
