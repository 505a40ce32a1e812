package db

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_episode_campaign_snapshot_collections",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_lookup_indexes",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_settings_collection",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_snapshot_sequence",
		Up:      migrationV4,
	},
}

// SchemaVersion is the schema version this binary writes.
var SchemaVersion = len(migrations)

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(db *sql.DB, log *zap.Logger) error {
	if _, err := db.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	currentVersion, err := CurrentVersion(db)
	if err != nil {
		return err
	}
	if currentVersion > SchemaVersion {
		return versionError(currentVersion)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		log.Info("running migration", zap.Int("version", migration.Version), zap.String("name", migration.Name))

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the document collections.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			last_modified INTEGER NOT NULL,
			data TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS campaigns (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			last_modified INTEGER NOT NULL,
			data TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			episode_id TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('auto-save', 'manual-save')),
			timestamp INTEGER NOT NULL,
			data TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_snapshots_episode_id ON snapshots(episode_id);
	`)
	return err
}

// migrationV2 adds the list and retention indexes.
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_episodes_title ON episodes(title);
		CREATE INDEX IF NOT EXISTS idx_episodes_author ON episodes(author);
		CREATE INDEX IF NOT EXISTS idx_episodes_last_modified ON episodes(last_modified);
		CREATE INDEX IF NOT EXISTS idx_campaigns_title ON campaigns(title);
		CREATE INDEX IF NOT EXISTS idx_snapshots_timestamp ON snapshots(timestamp);
	`)
	return err
}

// migrationV3 adds the settings collection.
func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	return err
}

// migrationV4 adds an insertion sequence to snapshots so saves within the
// same millisecond keep their write order. Existing rows take their rowid.
func migrationV4(tx *sql.Tx) error {
	_, err := tx.Exec(`
		ALTER TABLE snapshots ADD COLUMN seq INTEGER NOT NULL DEFAULT 0;
		UPDATE snapshots SET seq = rowid;
		CREATE INDEX IF NOT EXISTS idx_snapshots_seq ON snapshots(seq);
	`)
	return err
}
