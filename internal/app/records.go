package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/storyforge/internal/core/codec"
	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/snapshot"
	"github.com/example/storyforge/internal/core/validation"
	"github.com/example/storyforge/internal/ports/secondary"
)

// RetentionPolicy supplies how many auto-save snapshots to keep per episode.
type RetentionPolicy interface {
	KeepAutoSaves(ctx context.Context) int
}

// FixedRetention is a RetentionPolicy with a constant limit.
type FixedRetention int

// KeepAutoSaves implements RetentionPolicy.
func (f FixedRetention) KeepAutoSaves(context.Context) int { return int(f) }

// writeEpisode stamps ep, upserts it and inserts its auto-save snapshot
// through stores. Callers run it inside a UnitOfWork so both writes commit
// together.
func writeEpisode(ctx context.Context, stores secondary.Stores, ep *narrative.Episode, now time.Time) error {
	ep.Touch(now)

	data, err := codec.MarshalEpisode(ep)
	if err != nil {
		return fmt.Errorf("failed to encode episode %s: %w", ep.ID, err)
	}

	if err := stores.Episodes.Upsert(ctx, episodeToRecord(ep, data)); err != nil {
		return err
	}

	return stores.Snapshots.Create(ctx, &secondary.SnapshotRecord{
		ID:        narrative.GenerateID("snapshot"),
		EpisodeID: ep.ID,
		Type:      string(snapshot.AutoSave),
		Timestamp: *ep.LastModified,
		Data:      data,
	})
}

// writeCampaign stamps c and upserts it.
func writeCampaign(ctx context.Context, repo secondary.CampaignRepository, c *narrative.Campaign, now time.Time) error {
	c.Touch(now)

	data, err := codec.MarshalCampaign(c)
	if err != nil {
		return fmt.Errorf("failed to encode campaign %s: %w", c.ID, err)
	}

	return repo.Upsert(ctx, &secondary.CampaignRecord{
		ID:           c.ID,
		Title:        c.Title,
		LastModified: *c.LastModified,
		Data:         data,
	})
}

// pruneAutoSaves deletes auto-saves beyond keep. It is best-effort: failures
// are logged and never reach the caller.
func pruneAutoSaves(ctx context.Context, repo secondary.SnapshotRepository, episodeID string, keep int, log *zap.Logger) {
	records, err := repo.ListByEpisode(ctx, episodeID)
	if err != nil {
		log.Warn("snapshot retention skipped", zap.String("episode_id", episodeID), zap.Error(err))
		return
	}

	doomed := snapshot.PlanRetention(recordsToSummaries(records), keep)
	if len(doomed) == 0 {
		return
	}

	deleted, err := repo.DeleteByIDs(ctx, doomed)
	if err != nil {
		log.Warn("snapshot retention failed",
			zap.String("episode_id", episodeID),
			zap.Strings("snapshot_ids", doomed),
			zap.Error(err))
		return
	}
	log.Debug("pruned auto-saves", zap.String("episode_id", episodeID), zap.Int("deleted", deleted))
}

func episodeToRecord(ep *narrative.Episode, data []byte) *secondary.EpisodeRecord {
	return &secondary.EpisodeRecord{
		ID:           ep.ID,
		Title:        ep.Title,
		Author:       ep.Author,
		LastModified: *ep.LastModified,
		Data:         data,
	}
}

func recordsToSummaries(records []*secondary.SnapshotRecord) []snapshot.Summary {
	summaries := make([]snapshot.Summary, len(records))
	for i, r := range records {
		summaries[i] = snapshot.Summary{
			ID:        r.ID,
			EpisodeID: r.EpisodeID,
			Timestamp: r.Timestamp,
			Type:      snapshot.Type(r.Type),
			Seq:       r.Seq,
		}
	}
	return summaries
}

// findingsOf extracts validation findings from err, or nil.
func findingsOf(err error) []validation.Finding {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.Findings
	}
	return nil
}
