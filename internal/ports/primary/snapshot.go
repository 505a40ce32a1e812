package primary

import (
	"context"

	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/snapshot"
)

// SnapshotService defines the primary port for snapshot and recovery operations.
type SnapshotService interface {
	// CreateManualSnapshot snapshots the stored copy of an episode.
	// Manual snapshots are never pruned. Returns the snapshot ID.
	CreateManualSnapshot(ctx context.Context, episodeID string) (string, error)

	// ListEpisodeSnapshots returns snapshot metadata, newest first.
	ListEpisodeSnapshots(ctx context.Context, episodeID string) ([]snapshot.Summary, error)

	// RestoreEpisodeFromSnapshot overwrites the episode with the snapshot's
	// payload. The state being replaced is not snapshotted first.
	RestoreEpisodeFromSnapshot(ctx context.Context, snapshotID string) (*narrative.Episode, error)
}
