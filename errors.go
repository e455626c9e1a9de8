package logkeep

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes errors returned by a Logger.
type ErrorKind string

const (
	// KindState: the operation is not valid in the Logger's lifecycle state.
	KindState ErrorKind = "STATE"

	// KindFilesystem: the storage location could not be resolved, or the
	// database file there could not be opened.
	KindFilesystem ErrorKind = "FILESYSTEM"

	// KindWriteFailure: the datastore rejected a write or clear.
	KindWriteFailure ErrorKind = "WRITE_FAILURE"
)

// Sentinel errors. State errors wrap ErrNotInitialized or ErrTerminated.
var (
	ErrNotInitialized  = errors.New("logger is not initialized")
	ErrTerminated      = errors.New("logger has been terminated")
	ErrInvalidCapacity = errors.New("capacity must be 0 or greater")
)

// Error is returned by Logger operations and passed to completion
// handlers for failed writes.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("logkeep: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func stateError(op string, err error) *Error {
	return &Error{Kind: KindState, Op: op, Err: err}
}

func filesystemError(op string, err error) *Error {
	return &Error{Kind: KindFilesystem, Op: op, Err: err}
}

func writeFailure(op string, err error) *Error {
	return &Error{Kind: KindWriteFailure, Op: op, Err: err}
}

func isKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsStateError reports whether err was caused by calling an operation
// before Initialize or after termination.
func IsStateError(err error) bool {
	return isKind(err, KindState)
}

// IsFilesystemError reports whether err comes from resolving the storage
// path or opening the database file.
func IsFilesystemError(err error) bool {
	return isKind(err, KindFilesystem)
}

// IsWriteFailure reports whether err is a datastore write failure.
func IsWriteFailure(err error) bool {
	return isKind(err, KindWriteFailure)
}
