package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/storyforge/internal/db"
	"github.com/example/storyforge/internal/ports/secondary"
)

// CampaignRepository implements secondary.CampaignRepository with SQLite.
type CampaignRepository struct {
	db dbtx
}

// NewCampaignRepository creates a new SQLite campaign repository.
func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Upsert inserts the campaign or replaces the stored copy.
func (r *CampaignRepository) Upsert(ctx context.Context, campaign *secondary.CampaignRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (id, title, last_modified, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			last_modified = excluded.last_modified,
			data = excluded.data`,
		campaign.ID, campaign.Title, toMillis(campaign.LastModified), string(campaign.Data),
	)
	return db.WrapError("campaigns", "put", err)
}

// GetByID retrieves a campaign by its ID.
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*secondary.CampaignRecord, error) {
	var (
		lastModified int64
		data         string
	)

	record := &secondary.CampaignRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, last_modified, data FROM campaigns WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Title, &lastModified, &data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.WrapError("campaigns", "get", err)
	}

	record.LastModified = fromMillis(lastModified)
	record.Data = []byte(data)

	return record, nil
}

// List retrieves campaigns, most recently modified first.
func (r *CampaignRepository) List(ctx context.Context, filters secondary.CampaignFilters) ([]*secondary.CampaignRecord, error) {
	query := "SELECT id, title, last_modified, data FROM campaigns"
	var args []any
	if filters.Title != "" {
		query += " WHERE title LIKE '%' || ? || '%'"
		args = append(args, filters.Title)
	}
	query += " ORDER BY last_modified DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, db.WrapError("campaigns", "list", err)
	}
	defer rows.Close()

	var campaigns []*secondary.CampaignRecord
	for rows.Next() {
		var (
			lastModified int64
			data         string
		)

		record := &secondary.CampaignRecord{}
		if err := rows.Scan(&record.ID, &record.Title, &lastModified, &data); err != nil {
			return nil, db.WrapError("campaigns", "list", err)
		}

		record.LastModified = fromMillis(lastModified)
		record.Data = []byte(data)

		campaigns = append(campaigns, record)
	}

	return campaigns, db.WrapError("campaigns", "list", rows.Err())
}

// Delete removes a campaign.
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM campaigns WHERE id = ?", id)
	if err != nil {
		return db.WrapError("campaigns", "delete", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("campaign", id)
	}

	return nil
}

var _ secondary.CampaignRepository = (*CampaignRepository)(nil)
