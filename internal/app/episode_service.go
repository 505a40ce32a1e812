package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/storyforge/internal/core/analyzer"
	"github.com/example/storyforge/internal/core/codec"
	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/validation"
	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/ports/secondary"
)

// EpisodeServiceImpl implements the EpisodeService interface.
type EpisodeServiceImpl struct {
	uow       secondary.UnitOfWork
	episodes  secondary.EpisodeRepository
	snapshots secondary.SnapshotRepository
	validator *validation.Validator
	retention RetentionPolicy
	log       *zap.Logger
	now       func() time.Time
}

// NewEpisodeService creates a new EpisodeService with injected dependencies.
func NewEpisodeService(
	uow secondary.UnitOfWork,
	stores secondary.Stores,
	validator *validation.Validator,
	retention RetentionPolicy,
	log *zap.Logger,
) *EpisodeServiceImpl {
	return &EpisodeServiceImpl{
		uow:       uow,
		episodes:  stores.Episodes,
		snapshots: stores.Snapshots,
		validator: validator,
		retention: retention,
		log:       log,
		now:       time.Now,
	}
}

// NewEpisode returns an unsaved episode built from the two-scene template.
func (s *EpisodeServiceImpl) NewEpisode(ctx context.Context) *narrative.Episode {
	return narrative.NewEpisodeTemplate()
}

// SaveEpisode validates the episode, then commits it with an auto-save
// snapshot in one transaction. Retention runs afterwards and cannot fail
// the save. On success episode.LastModified carries the new stamp.
func (s *EpisodeServiceImpl) SaveEpisode(ctx context.Context, episode *narrative.Episode) (string, error) {
	if err := s.validator.ValidateEpisode(episode); err != nil {
		return "", err
	}

	ep := episode.Clone()
	err := s.uow.Do(ctx, func(ctx context.Context, stores secondary.Stores) error {
		return writeEpisode(ctx, stores, ep, s.now())
	})
	if err != nil {
		return "", fmt.Errorf("failed to save episode %s: %w", ep.ID, err)
	}
	episode.LastModified = ep.LastModified

	pruneAutoSaves(ctx, s.snapshots, ep.ID, s.retention.KeepAutoSaves(ctx), s.log)

	return ep.ID, nil
}

// GetEpisode retrieves an episode by ID.
func (s *EpisodeServiceImpl) GetEpisode(ctx context.Context, episodeID string) (*narrative.Episode, error) {
	record, err := s.episodes.GetByID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get episode %s: %w", episodeID, err)
	}
	if record == nil {
		return nil, nil
	}

	ep, err := codec.DecodeEpisode(record.Data)
	if err != nil {
		return nil, fmt.Errorf("stored episode %s is unreadable: %w", episodeID, err)
	}
	return ep, nil
}

// ListEpisodes retrieves stored episodes.
func (s *EpisodeServiceImpl) ListEpisodes(ctx context.Context, filters primary.EpisodeFilters) ([]*narrative.Episode, error) {
	records, err := s.episodes.List(ctx, secondary.EpisodeFilters{
		Title:  filters.Title,
		Author: filters.Author,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}

	episodes := make([]*narrative.Episode, 0, len(records))
	for _, r := range records {
		ep, err := codec.DecodeEpisode(r.Data)
		if err != nil {
			return nil, fmt.Errorf("stored episode %s is unreadable: %w", r.ID, err)
		}
		episodes = append(episodes, ep)
	}
	return episodes, nil
}

// DeleteEpisode deletes an episode, then its snapshots. Snapshot cleanup is
// best-effort: the episode stays deleted even if it fails.
func (s *EpisodeServiceImpl) DeleteEpisode(ctx context.Context, episodeID string) error {
	if err := s.episodes.Delete(ctx, episodeID); err != nil {
		return fmt.Errorf("failed to delete episode: %w", err)
	}

	deleted, err := s.snapshots.DeleteByEpisode(ctx, episodeID)
	if err != nil {
		s.log.Warn("snapshot cleanup failed after episode delete",
			zap.String("episode_id", episodeID),
			zap.Error(err))
		return nil
	}
	s.log.Debug("deleted episode snapshots", zap.String("episode_id", episodeID), zap.Int("deleted", deleted))

	return nil
}

// CheckEpisode validates and analyzes an episode without saving it.
func (s *EpisodeServiceImpl) CheckEpisode(ctx context.Context, episode *narrative.Episode) *primary.EpisodeCheck {
	check := &primary.EpisodeCheck{
		Findings: findingsOf(s.validator.ValidateEpisode(episode)),
	}
	if episode != nil {
		check.Report = analyzer.Analyze(episode.Scenes)
	}
	return check
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, secondary.ErrNotFound)
}

// Ensure EpisodeServiceImpl implements the interface.
var _ primary.EpisodeService = (*EpisodeServiceImpl)(nil)
