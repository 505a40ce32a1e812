package db

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// SchemaSQL is the complete schema for fresh storyforge installs.
// It reflects the state after all migrations.
//
// # Schema Drift Protection
//
// This is the single source of truth for the database schema. Tests open
// an in-memory database through GetSchemaSQL() instead of declaring their
// own tables, so a repository that references a missing column fails with
// "no such column" at test time.
//
// When adding columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment
//
// Documents are stored whole in the data column as JSON. The other columns
// are index copies of document fields. There are no foreign keys: a
// campaign may name an episode that does not exist yet, and snapshots are
// cleaned up by the application after an episode is deleted.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS episodes (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL DEFAULT '',
	last_modified INTEGER NOT NULL,
	data TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_episodes_title ON episodes(title);
CREATE INDEX IF NOT EXISTS idx_episodes_author ON episodes(author);
CREATE INDEX IF NOT EXISTS idx_episodes_last_modified ON episodes(last_modified);

CREATE TABLE IF NOT EXISTS campaigns (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	last_modified INTEGER NOT NULL,
	data TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_campaigns_title ON campaigns(title);

CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	episode_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('auto-save', 'manual-save')),
	timestamp INTEGER NOT NULL,
	seq INTEGER NOT NULL DEFAULT 0,
	data TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_episode_id ON snapshots(episode_id);
CREATE INDEX IF NOT EXISTS idx_snapshots_timestamp ON snapshots(timestamp);
CREATE INDEX IF NOT EXISTS idx_snapshots_seq ON snapshots(seq);

CREATE TABLE IF NOT EXISTS settings (
	id TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

const schemaVersionSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// InitSchema brings the database up to SchemaVersion. It is safe to call on
// every open. A database written by a newer binary is refused with
// ErrSchemaTooNew and left untouched.
func InitSchema(db *sql.DB, log *zap.Logger) error {
	if _, err := db.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := CurrentVersion(db)
	if err != nil {
		return err
	}

	if current > SchemaVersion {
		return versionError(current)
	}

	if current == 0 {
		// Fresh install: create the modern schema directly and mark every
		// migration as applied.
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(SchemaSQL); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		for _, m := range migrations {
			if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		log.Debug("created schema", zap.Int("version", SchemaVersion))
		return nil
	}

	return RunMigrations(db, log)
}

// CurrentVersion returns the highest applied migration, or 0 for a new database.
func CurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
