package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/storyforge/internal/db"
	"github.com/example/storyforge/internal/ports/secondary"
)

// HealthChecker implements secondary.HealthChecker with SQLite.
type HealthChecker struct {
	db *sql.DB
}

// NewHealthChecker creates a new SQLite health checker.
func NewHealthChecker(db *sql.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// Ping verifies the database connection.
func (h *HealthChecker) Ping(ctx context.Context) error {
	return db.WrapError("database", "ping", h.db.PingContext(ctx))
}

// SchemaVersion returns the highest applied migration.
func (h *HealthChecker) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := h.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, db.WrapError("schema_version", "get", err)
	}
	return version, nil
}

// QuickCheck runs PRAGMA quick_check and fails unless SQLite reports "ok".
func (h *HealthChecker) QuickCheck(ctx context.Context) error {
	var result string
	if err := h.db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result); err != nil {
		return db.WrapError("database", "check", err)
	}
	if result != "ok" {
		return db.WrapError("database", "check", fmt.Errorf("integrity check reported: %s", result))
	}
	return nil
}

var _ secondary.HealthChecker = (*HealthChecker)(nil)
