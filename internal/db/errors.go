package db

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/example/storyforge/internal/ports/secondary"
)

// ErrSchemaTooNew means the database was migrated by a newer storyforge.
var ErrSchemaTooNew = errors.New("database schema is newer than this binary supports")

// WrapError classifies err and wraps it with the collection and operation.
// Nil stays nil; errors that are already classified are returned unchanged.
func WrapError(collection, op string, err error) error {
	if err == nil {
		return nil
	}
	var se *secondary.StorageError
	if errors.As(err, &se) {
		return err
	}
	return &secondary.StorageError{
		Kind:       classify(err),
		Collection: collection,
		Op:         op,
		Err:        err,
	}
}

func unsupported(collection, op string, err error) error {
	return &secondary.StorageError{Kind: secondary.KindUnsupported, Collection: collection, Op: op, Err: err}
}

func classify(err error) secondary.ErrorKind {
	if errors.Is(err, ErrSchemaTooNew) {
		return secondary.KindBlocked
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return secondary.KindBlocked
		case sqlite3.ErrCantOpen, sqlite3.ErrPerm, sqlite3.ErrReadonly, sqlite3.ErrNotADB, sqlite3.ErrAuth:
			return secondary.KindUnsupported
		}
		return secondary.KindFailed
	}

	if errors.Is(err, fs.ErrPermission) {
		return secondary.KindUnsupported
	}
	// go-sqlite3 built without cgo is a stub that fails every open.
	if strings.Contains(err.Error(), "CGO_ENABLED=0") {
		return secondary.KindUnsupported
	}

	return secondary.KindFailed
}

func versionError(found int) error {
	return fmt.Errorf("%w (database at version %d, binary supports %d)", ErrSchemaTooNew, found, SchemaVersion)
}
