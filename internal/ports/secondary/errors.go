package secondary

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by deletes and restores of unknown ids.
// Lookups report absence as a nil record instead.
var ErrNotFound = errors.New("not found")

// ErrorKind classifies storage failures so callers can give distinct recovery guidance.
type ErrorKind int

const (
	// KindFailed is a generic operation failure (constraint, disk full, I/O).
	KindFailed ErrorKind = iota
	// KindUnsupported means local storage cannot be used at all.
	KindUnsupported
	// KindBlocked means another session holds the database or it has a newer schema.
	KindBlocked
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindBlocked:
		return "blocked"
	default:
		return "failed"
	}
}

// StorageError wraps a storage-layer failure with the collection and operation.
type StorageError struct {
	Kind       ErrorKind
	Collection string
	Op         string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Collection, e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Hint returns recovery guidance for the failure kind.
func (e *StorageError) Hint() string {
	switch e.Kind {
	case KindUnsupported:
		return "Local storage is unavailable. Check that the data directory exists and is writable, then retry."
	case KindBlocked:
		return "The database is held by another storyforge session or was written by a newer version. Close other sessions and retry."
	default:
		return "Run 'storyforge doctor' for diagnostics."
	}
}

// IsUnsupported reports whether err is a KindUnsupported storage error.
func IsUnsupported(err error) bool { return kindOf(err) == KindUnsupported }

// IsBlocked reports whether err is a KindBlocked storage error.
func IsBlocked(err error) bool { return kindOf(err) == KindBlocked }

// IsFailed reports whether err is a KindFailed storage error.
func IsFailed(err error) bool { return kindOf(err) == KindFailed }

func kindOf(err error) ErrorKind {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return -1
}
