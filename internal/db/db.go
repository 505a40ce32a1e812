package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var db *sql.DB

var (
	configuredPath string
	logger         = zap.NewNop()
)

// Configure sets the database file and logger used by GetDB.
// Call before the first GetDB.
func Configure(path string, log *zap.Logger) {
	configuredPath = path
	if log != nil {
		logger = log
	}
}

// GetDB returns the shared database connection, opening it if needed.
func GetDB() (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	path, err := GetDBPath()
	if err != nil {
		return nil, WrapError("database", "open", err)
	}

	opened, err := Open(path, logger)
	if err != nil {
		return nil, err
	}
	db = opened
	return db, nil
}

// Open opens the database at path, applies connection pragmas and brings the
// schema up to date. Failures are returned as *secondary.StorageError.
func Open(path string, log *zap.Logger) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, unsupported("database", "open", fmt.Errorf("failed to create data directory: %w", err))
		}
	}

	// _txlock=immediate takes the write lock at BEGIN so a competing writer
	// fails fast with SQLITE_BUSY instead of deadlocking mid-transaction.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL", path)
	if path == ":memory:" {
		dsn = "file::memory:?_txlock=immediate"
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, unsupported("database", "open", err)
	}
	if path == ":memory:" {
		// Every pooled connection to :memory: would be a separate database.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, WrapError("database", "open", err)
	}

	if err := InitSchema(conn, log); err != nil {
		conn.Close()
		return nil, WrapError("database", "migrate", err)
	}

	return conn, nil
}

// Close closes the shared database connection.
func Close() error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// GetDBPath returns the path to the database file.
func GetDBPath() (string, error) {
	if configuredPath != "" {
		return configuredPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".storyforge", "storyforge.db"), nil
}
