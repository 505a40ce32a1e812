// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// EpisodeRepository defines the secondary port for episode persistence.
type EpisodeRepository interface {
	// Upsert inserts the episode or replaces the record with the same ID.
	Upsert(ctx context.Context, episode *EpisodeRecord) error

	// GetByID retrieves an episode by its ID. Returns nil, nil when absent.
	GetByID(ctx context.Context, id string) (*EpisodeRecord, error)

	// List retrieves episodes matching the given filters.
	List(ctx context.Context, filters EpisodeFilters) ([]*EpisodeRecord, error)

	// ListIDs returns every stored episode ID without loading documents.
	ListIDs(ctx context.Context) ([]string, error)

	// Delete removes an episode. Returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}

// EpisodeRecord represents an episode as stored in persistence.
// Title, Author and LastModified are denormalised from Data for indexed lookup.
type EpisodeRecord struct {
	ID           string
	Title        string
	Author       string
	LastModified time.Time
	Data         []byte // full episode JSON
}

// EpisodeFilters contains filter options for querying episodes.
type EpisodeFilters struct {
	Title  string
	Author string
}

// CampaignRepository defines the secondary port for campaign persistence.
type CampaignRepository interface {
	// Upsert inserts the campaign or replaces the record with the same ID.
	Upsert(ctx context.Context, campaign *CampaignRecord) error

	// GetByID retrieves a campaign by its ID. Returns nil, nil when absent.
	GetByID(ctx context.Context, id string) (*CampaignRecord, error)

	// List retrieves campaigns matching the given filters.
	List(ctx context.Context, filters CampaignFilters) ([]*CampaignRecord, error)

	// Delete removes a campaign. Returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}

// CampaignRecord represents a campaign as stored in persistence.
type CampaignRecord struct {
	ID           string
	Title        string
	LastModified time.Time
	Data         []byte // full campaign JSON
}

// CampaignFilters contains filter options for querying campaigns.
type CampaignFilters struct {
	Title string
}

// SnapshotRepository defines the secondary port for snapshot persistence.
// Snapshots are immutable: there is no update.
type SnapshotRepository interface {
	// Create persists a new snapshot.
	Create(ctx context.Context, snapshot *SnapshotRecord) error

	// GetByID retrieves a snapshot with its payload. Returns nil, nil when absent.
	GetByID(ctx context.Context, id string) (*SnapshotRecord, error)

	// ListByEpisode retrieves snapshot metadata (no payload) for an episode,
	// newest first. Equal timestamps are ordered by descending Seq.
	ListByEpisode(ctx context.Context, episodeID string) ([]*SnapshotRecord, error)

	// DeleteByIDs removes the given snapshots and returns how many were deleted.
	DeleteByIDs(ctx context.Context, ids []string) (int, error)

	// DeleteByEpisode removes every snapshot of an episode and returns how many were deleted.
	DeleteByEpisode(ctx context.Context, episodeID string) (int, error)
}

// SnapshotRecord represents a snapshot as stored in persistence.
type SnapshotRecord struct {
	ID        string
	EpisodeID string
	Type      string // "auto-save" or "manual-save"
	Timestamp time.Time
	Seq       int64  // insertion order, assigned by the store on Create
	Data      []byte // serialized episode; empty in list results
}

// SettingsRepository defines the secondary port for the settings collection.
type SettingsRepository interface {
	// Get retrieves a settings record. Returns nil, nil when absent.
	Get(ctx context.Context, id string) (*SettingsRecord, error)

	// Put inserts or replaces a settings record.
	Put(ctx context.Context, record *SettingsRecord) error

	// Delete removes a settings record. Absent records are not an error.
	Delete(ctx context.Context, id string) error
}

// SettingsRecord is one JSON document in the settings collection.
type SettingsRecord struct {
	ID        string
	Data      []byte
	UpdatedAt time.Time
}

// Stores bundles the repositories that share one transaction.
type Stores struct {
	Episodes  EpisodeRepository
	Campaigns CampaignRepository
	Snapshots SnapshotRepository
	Settings  SettingsRepository
}

// UnitOfWork runs a function against repositories bound to a single transaction.
// If fn returns an error nothing it wrote is committed.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// HealthChecker defines the secondary port for storage diagnostics.
type HealthChecker interface {
	// Ping verifies the database connection.
	Ping(ctx context.Context) error

	// SchemaVersion returns the applied schema version.
	SchemaVersion(ctx context.Context) (int, error)

	// QuickCheck runs the storage engine's integrity check.
	QuickCheck(ctx context.Context) error
}
