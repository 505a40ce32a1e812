package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/storyforge/internal/db"
	"github.com/example/storyforge/internal/ports/secondary"
)

// SettingsRepository implements secondary.SettingsRepository with SQLite.
type SettingsRepository struct {
	db dbtx
}

// NewSettingsRepository creates a new SQLite settings repository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves a settings record.
func (r *SettingsRepository) Get(ctx context.Context, id string) (*secondary.SettingsRecord, error) {
	var (
		updatedAt int64
		data      string
	)

	record := &secondary.SettingsRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, data, updated_at FROM settings WHERE id = ?",
		id,
	).Scan(&record.ID, &data, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.WrapError("settings", "get", err)
	}

	record.Data = []byte(data)
	record.UpdatedAt = fromMillis(updatedAt)

	return record, nil
}

// Put inserts or replaces a settings record.
func (r *SettingsRepository) Put(ctx context.Context, record *secondary.SettingsRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		record.ID, string(record.Data), toMillis(record.UpdatedAt),
	)
	return db.WrapError("settings", "put", err)
}

// Delete removes a settings record.
func (r *SettingsRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM settings WHERE id = ?", id)
	return db.WrapError("settings", "delete", err)
}

var _ secondary.SettingsRepository = (*SettingsRepository)(nil)
