package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/example/storyforge/internal/db"
	"github.com/example/storyforge/internal/ports/secondary"
)

// SnapshotRepository implements secondary.SnapshotRepository with SQLite.
type SnapshotRepository struct {
	db dbtx
}

// NewSnapshotRepository creates a new SQLite snapshot repository.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create persists a new snapshot and assigns its Seq. Reusing an ID is a
// constraint failure.
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *secondary.SnapshotRecord) error {
	var seq int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO snapshots (id, episode_id, type, timestamp, seq, data)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots), ?)
		RETURNING seq`,
		snapshot.ID, snapshot.EpisodeID, snapshot.Type, toMillis(snapshot.Timestamp), string(snapshot.Data),
	).Scan(&seq)
	if err != nil {
		return db.WrapError("snapshots", "add", err)
	}
	snapshot.Seq = seq
	return nil
}

// GetByID retrieves a snapshot with its payload.
func (r *SnapshotRepository) GetByID(ctx context.Context, id string) (*secondary.SnapshotRecord, error) {
	var (
		timestamp int64
		data      string
	)

	record := &secondary.SnapshotRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, episode_id, type, timestamp, seq, data FROM snapshots WHERE id = ?",
		id,
	).Scan(&record.ID, &record.EpisodeID, &record.Type, &timestamp, &record.Seq, &data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.WrapError("snapshots", "get", err)
	}

	record.Timestamp = fromMillis(timestamp)
	record.Data = []byte(data)

	return record, nil
}

// ListByEpisode retrieves snapshot metadata for an episode, newest first.
// Equal timestamps fall back to descending insertion sequence.
func (r *SnapshotRepository) ListByEpisode(ctx context.Context, episodeID string) ([]*secondary.SnapshotRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, episode_id, type, timestamp, seq FROM snapshots WHERE episode_id = ? ORDER BY timestamp DESC, seq DESC, id DESC",
		episodeID,
	)
	if err != nil {
		return nil, db.WrapError("snapshots", "list", err)
	}
	defer rows.Close()

	var snapshots []*secondary.SnapshotRecord
	for rows.Next() {
		var timestamp int64

		record := &secondary.SnapshotRecord{}
		if err := rows.Scan(&record.ID, &record.EpisodeID, &record.Type, &timestamp, &record.Seq); err != nil {
			return nil, db.WrapError("snapshots", "list", err)
		}
		record.Timestamp = fromMillis(timestamp)

		snapshots = append(snapshots, record)
	}

	return snapshots, db.WrapError("snapshots", "list", rows.Err())
}

// DeleteByIDs removes the given snapshots. Unknown IDs are ignored.
func (r *SnapshotRepository) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, db.WrapError("snapshots", "delete", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return int(rowsAffected), nil
}

// DeleteByEpisode removes every snapshot of an episode.
func (r *SnapshotRepository) DeleteByEpisode(ctx context.Context, episodeID string) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM snapshots WHERE episode_id = ?", episodeID)
	if err != nil {
		return 0, db.WrapError("snapshots", "delete", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return int(rowsAffected), nil
}

var _ secondary.SnapshotRepository = (*SnapshotRepository)(nil)
