package primary

import (
	"context"

	"github.com/example/storyforge/internal/core/analyzer"
	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/validation"
)

// EpisodeService defines the primary port for episode operations.
type EpisodeService interface {
	// NewEpisode returns an unsaved episode built from the two-scene template.
	NewEpisode(ctx context.Context) *narrative.Episode

	// SaveEpisode validates and upserts the episode together with an
	// auto-save snapshot, then prunes old auto-saves. Returns the episode ID.
	SaveEpisode(ctx context.Context, episode *narrative.Episode) (string, error)

	// GetEpisode retrieves an episode. Returns nil, nil when absent.
	GetEpisode(ctx context.Context, episodeID string) (*narrative.Episode, error)

	// ListEpisodes retrieves stored episodes, most recently modified first.
	ListEpisodes(ctx context.Context, filters EpisodeFilters) ([]*narrative.Episode, error)

	// DeleteEpisode deletes an episode and then, best-effort, its snapshots.
	DeleteEpisode(ctx context.Context, episodeID string) error

	// CheckEpisode validates and analyzes an episode without saving it.
	CheckEpisode(ctx context.Context, episode *narrative.Episode) *EpisodeCheck
}

// EpisodeFilters contains filter options for listing episodes.
type EpisodeFilters struct {
	Title  string
	Author string
}

// EpisodeCheck is the combined result of hard validation and graph analysis.
type EpisodeCheck struct {
	Findings []validation.Finding // hard errors; saving fails while non-empty
	Report   analyzer.Report      // advisories; never block saving
}

// Clean reports whether the episode has neither findings nor advisories.
func (c *EpisodeCheck) Clean() bool {
	return len(c.Findings) == 0 && c.Report.Clean()
}
