package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/example/storyforge/internal/db"
	"github.com/example/storyforge/internal/ports/secondary"
)

// EpisodeRepository implements secondary.EpisodeRepository with SQLite.
type EpisodeRepository struct {
	db dbtx
}

// NewEpisodeRepository creates a new SQLite episode repository.
func NewEpisodeRepository(db *sql.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// Upsert inserts the episode or replaces the stored copy.
func (r *EpisodeRepository) Upsert(ctx context.Context, episode *secondary.EpisodeRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO episodes (id, title, author, last_modified, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			last_modified = excluded.last_modified,
			data = excluded.data`,
		episode.ID, episode.Title, episode.Author, toMillis(episode.LastModified), string(episode.Data),
	)
	return db.WrapError("episodes", "put", err)
}

// GetByID retrieves an episode by its ID.
func (r *EpisodeRepository) GetByID(ctx context.Context, id string) (*secondary.EpisodeRecord, error) {
	var (
		lastModified int64
		data         string
	)

	record := &secondary.EpisodeRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, author, last_modified, data FROM episodes WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Title, &record.Author, &lastModified, &data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.WrapError("episodes", "get", err)
	}

	record.LastModified = fromMillis(lastModified)
	record.Data = []byte(data)

	return record, nil
}

// List retrieves episodes, most recently modified first. Title matches as a
// case-insensitive substring; author must match exactly.
func (r *EpisodeRepository) List(ctx context.Context, filters secondary.EpisodeFilters) ([]*secondary.EpisodeRecord, error) {
	query := "SELECT id, title, author, last_modified, data FROM episodes"
	var (
		where []string
		args  []any
	)
	if filters.Title != "" {
		where = append(where, "title LIKE '%' || ? || '%'")
		args = append(args, filters.Title)
	}
	if filters.Author != "" {
		where = append(where, "author = ?")
		args = append(args, filters.Author)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY last_modified DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, db.WrapError("episodes", "list", err)
	}
	defer rows.Close()

	var episodes []*secondary.EpisodeRecord
	for rows.Next() {
		var (
			lastModified int64
			data         string
		)

		record := &secondary.EpisodeRecord{}
		if err := rows.Scan(&record.ID, &record.Title, &record.Author, &lastModified, &data); err != nil {
			return nil, db.WrapError("episodes", "list", err)
		}

		record.LastModified = fromMillis(lastModified)
		record.Data = []byte(data)

		episodes = append(episodes, record)
	}

	return episodes, db.WrapError("episodes", "list", rows.Err())
}

// ListIDs returns every episode ID in ascending order.
func (r *EpisodeRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM episodes ORDER BY id")
	if err != nil {
		return nil, db.WrapError("episodes", "list", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, db.WrapError("episodes", "list", err)
		}
		ids = append(ids, id)
	}

	return ids, db.WrapError("episodes", "list", rows.Err())
}

// Delete removes an episode. Its snapshots are left for the caller.
func (r *EpisodeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM episodes WHERE id = ?", id)
	if err != nil {
		return db.WrapError("episodes", "delete", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("episode", id)
	}

	return nil
}

var _ secondary.EpisodeRepository = (*EpisodeRepository)(nil)
