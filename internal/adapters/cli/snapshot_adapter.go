package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/snapshot"
	"github.com/example/storyforge/internal/ports/primary"
)

// SnapshotAdapter is a thin adapter that translates CLI operations to SnapshotService calls.
type SnapshotAdapter struct {
	service primary.SnapshotService
	out     io.Writer
}

// NewSnapshotAdapter creates a new SnapshotAdapter.
func NewSnapshotAdapter(service primary.SnapshotService, out io.Writer) *SnapshotAdapter {
	return &SnapshotAdapter{service: service, out: out}
}

// Create takes a manual snapshot of a stored episode.
func (a *SnapshotAdapter) Create(ctx context.Context, episodeID string) (string, error) {
	id, err := a.service.CreateManualSnapshot(ctx, episodeID)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot: %w", err)
	}
	fmt.Fprintf(a.out, "%s Created snapshot %s for %s\n", okMark, id, episodeID)
	return id, nil
}

// List lists an episode's snapshots, newest first.
func (a *SnapshotAdapter) List(ctx context.Context, episodeID string) ([]snapshot.Summary, error) {
	list, err := a.service.ListEpisodeSnapshots(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(list) == 0 {
		fmt.Fprintf(a.out, "No snapshots for %s.\n", episodeID)
		return list, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTAKEN")
	fmt.Fprintln(w, "--\t----\t-----")
	for _, s := range list {
		ts := s.Timestamp
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Type, formatTime(&ts))
	}
	w.Flush()
	return list, nil
}

// Restore overwrites an episode with a snapshot's content.
func (a *SnapshotAdapter) Restore(ctx context.Context, snapshotID string) (*narrative.Episode, error) {
	ep, err := a.service.RestoreEpisodeFromSnapshot(ctx, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to restore snapshot: %w", err)
	}
	fmt.Fprintf(a.out, "%s Restored episode %s from %s\n", okMark, ep.ID, snapshotID)
	return ep, nil
}
