package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/storyforge/internal/core/codec"
	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/snapshot"
	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/ports/secondary"
)

// SnapshotServiceImpl implements the SnapshotService interface.
type SnapshotServiceImpl struct {
	episodes  secondary.EpisodeRepository
	snapshots secondary.SnapshotRepository
	log       *zap.Logger
	now       func() time.Time
}

// NewSnapshotService creates a new SnapshotService with injected dependencies.
func NewSnapshotService(stores secondary.Stores, log *zap.Logger) *SnapshotServiceImpl {
	return &SnapshotServiceImpl{
		episodes:  stores.Episodes,
		snapshots: stores.Snapshots,
		log:       log,
		now:       time.Now,
	}
}

// CreateManualSnapshot snapshots the stored copy of an episode.
func (s *SnapshotServiceImpl) CreateManualSnapshot(ctx context.Context, episodeID string) (string, error) {
	record, err := s.episodes.GetByID(ctx, episodeID)
	if err != nil {
		return "", fmt.Errorf("failed to load episode %s: %w", episodeID, err)
	}
	if record == nil {
		return "", fmt.Errorf("episode %s: %w", episodeID, secondary.ErrNotFound)
	}

	id := narrative.GenerateID("snapshot")
	err = s.snapshots.Create(ctx, &secondary.SnapshotRecord{
		ID:        id,
		EpisodeID: episodeID,
		Type:      string(snapshot.ManualSave),
		Timestamp: s.now().UTC(),
		Data:      record.Data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot: %w", err)
	}

	return id, nil
}

// ListEpisodeSnapshots returns snapshot metadata, newest first.
func (s *SnapshotServiceImpl) ListEpisodeSnapshots(ctx context.Context, episodeID string) ([]snapshot.Summary, error) {
	records, err := s.snapshots.ListByEpisode(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	summaries := recordsToSummaries(records)
	snapshot.SortNewestFirst(summaries)
	return summaries, nil
}

// RestoreEpisodeFromSnapshot overwrites the episode with the snapshot's
// payload and stamps a new lastModified. The payload is not validated, and
// the replaced state is not snapshotted.
func (s *SnapshotServiceImpl) RestoreEpisodeFromSnapshot(ctx context.Context, snapshotID string) (*narrative.Episode, error) {
	record, err := s.snapshots.GetByID(ctx, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", snapshotID, err)
	}
	if record == nil {
		return nil, fmt.Errorf("snapshot %s: %w", snapshotID, secondary.ErrNotFound)
	}

	ep, err := codec.DecodeEpisode(record.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot %s payload: %w", secondary.ErrNotFound, snapshotID, err)
	}

	ep.Touch(s.now())
	data, err := codec.MarshalEpisode(ep)
	if err != nil {
		return nil, fmt.Errorf("failed to encode episode %s: %w", ep.ID, err)
	}

	if err := s.episodes.Upsert(ctx, episodeToRecord(ep, data)); err != nil {
		return nil, fmt.Errorf("failed to restore episode %s: %w", ep.ID, err)
	}

	s.log.Info("restored episode from snapshot",
		zap.String("episode_id", ep.ID),
		zap.String("snapshot_id", snapshotID))

	return ep, nil
}

// Ensure SnapshotServiceImpl implements the interface.
var _ primary.SnapshotService = (*SnapshotServiceImpl)(nil)
