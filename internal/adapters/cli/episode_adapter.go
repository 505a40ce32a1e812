package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/storyforge/internal/core/codec"
	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/ports/primary"
)

// EpisodeAdapter is a thin adapter that translates CLI operations to
// EpisodeService and TransferService calls.
type EpisodeAdapter struct {
	episodes primary.EpisodeService
	transfer primary.TransferService
	out      io.Writer
}

// NewEpisodeAdapter creates a new EpisodeAdapter.
func NewEpisodeAdapter(episodes primary.EpisodeService, transfer primary.TransferService, out io.Writer) *EpisodeAdapter {
	return &EpisodeAdapter{
		episodes: episodes,
		transfer: transfer,
		out:      out,
	}
}

// New creates an episode from the template and saves it. When outPath is
// set the episode document is also written there.
func (a *EpisodeAdapter) New(ctx context.Context, title, outPath string) (*narrative.Episode, error) {
	ep := a.episodes.NewEpisode(ctx)
	if title != "" {
		ep.Title = title
	}

	id, err := a.episodes.SaveEpisode(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("failed to save episode: %w", err)
	}

	if outPath != "" {
		data, err := codec.ExportEpisode(ep)
		if err != nil {
			return nil, err
		}
		if err := a.transfer.WriteDocument(ctx, outPath, data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
		}
	}

	fmt.Fprintf(a.out, "%s Created episode %s: %s\n", okMark, id, ep.Title)
	if outPath != "" {
		fmt.Fprintf(a.out, "  Written to %s\n", outPath)
	}
	return ep, nil
}

// List lists stored episodes.
func (a *EpisodeAdapter) List(ctx context.Context, filters primary.EpisodeFilters) ([]*narrative.Episode, error) {
	episodes, err := a.episodes.ListEpisodes(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}

	if len(episodes) == 0 {
		fmt.Fprintln(a.out, "No episodes found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first episode:")
		fmt.Fprintln(a.out, "  storyforge episode new --title \"The Lost Signal\"")
		return episodes, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tSCENES\tMODIFIED")
	fmt.Fprintln(w, "--\t-----\t------\t------\t--------")
	for _, ep := range episodes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			ep.ID,
			ep.Title,
			ep.Author,
			ep.Scenes.Len(),
			formatTime(ep.LastModified),
		)
	}
	w.Flush()
	return episodes, nil
}

// Show displays an episode and its analysis.
func (a *EpisodeAdapter) Show(ctx context.Context, episodeID string) (*narrative.Episode, error) {
	ep, err := a.get(ctx, episodeID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nEpisode: %s\n", ep.ID)
	fmt.Fprintf(a.out, "Title:    %s\n", ep.Title)
	fmt.Fprintf(a.out, "Author:   %s\n", ep.Author)
	if ep.Stardate != "" {
		fmt.Fprintf(a.out, "Stardate: %s\n", ep.Stardate)
	}
	if ep.ShipName != "" {
		fmt.Fprintf(a.out, "Ship:     %s\n", ep.ShipName)
	}
	fmt.Fprintf(a.out, "Modified: %s\n", formatTime(ep.LastModified))
	fmt.Fprintf(a.out, "\nScenes (%d):\n", ep.Scenes.Len())
	ep.Scenes.Each(func(id string, scene narrative.Scene) bool {
		fmt.Fprintf(a.out, "  %s  %s\n", id, scene.Title)
		for _, c := range scene.Choices {
			fmt.Fprintf(a.out, "    → %s (%s)\n", c.NextScene, c.Text)
		}
		return true
	})
	fmt.Fprintln(a.out)

	printEpisodeCheck(a.out, ep.ID, a.episodes.CheckEpisode(ctx, ep))
	return ep, nil
}

// Check validates and analyzes an episode without saving it.
func (a *EpisodeAdapter) Check(ctx context.Context, ep *narrative.Episode) *primary.EpisodeCheck {
	check := a.episodes.CheckEpisode(ctx, ep)
	printEpisodeCheck(a.out, ep.ID, check)
	return check
}

// CheckStored checks an episode already in the store.
func (a *EpisodeAdapter) CheckStored(ctx context.Context, episodeID string) (*primary.EpisodeCheck, error) {
	ep, err := a.get(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	return a.Check(ctx, ep), nil
}

// CheckFile checks an episode document on disk.
func (a *EpisodeAdapter) CheckFile(ctx context.Context, path string) (*primary.EpisodeCheck, error) {
	ep, err := a.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return a.Check(ctx, ep), nil
}

// ReadFile reads and decodes an episode document.
func (a *EpisodeAdapter) ReadFile(ctx context.Context, path string) (*narrative.Episode, error) {
	data, err := a.transfer.ReadDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	ep, err := codec.DecodeEpisode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ep, nil
}

// Import reads an episode document and saves it.
func (a *EpisodeAdapter) Import(ctx context.Context, path string, allowDefects bool) (*primary.ImportEpisodeResult, error) {
	data, err := a.transfer.ReadDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	res, err := a.transfer.ImportEpisode(ctx, data, primary.TransferOptions{RequireClean: !allowDefects})
	if err != nil {
		if res != nil {
			printEpisodeCheck(a.out, res.Episode.ID, res.Check)
		}
		if errors.Is(err, primary.ErrHasDefects) {
			fmt.Fprintln(a.out, "Use --allow-defects to import anyway.")
		}
		return res, fmt.Errorf("failed to import %s: %w", path, err)
	}

	fmt.Fprintf(a.out, "%s Imported episode %s: %s\n", okMark, res.Episode.ID, res.Episode.Title)
	if !res.Check.Clean() {
		printEpisodeCheck(a.out, res.Episode.ID, res.Check)
	}
	return res, nil
}

// Export encodes a stored episode to outPath, or to the adapter's output
// when outPath is empty.
func (a *EpisodeAdapter) Export(ctx context.Context, episodeID, outPath string, allowDefects bool) error {
	data, err := a.transfer.ExportEpisode(ctx, episodeID, primary.TransferOptions{RequireClean: !allowDefects})
	if errors.Is(err, primary.ErrHasDefects) {
		if ep, getErr := a.episodes.GetEpisode(ctx, episodeID); getErr == nil && ep != nil {
			printEpisodeCheck(a.out, episodeID, a.episodes.CheckEpisode(ctx, ep))
		}
		fmt.Fprintln(a.out, "Use --allow-defects to export anyway.")
	}
	if err != nil {
		return fmt.Errorf("failed to export episode: %w", err)
	}
	return writeOrPrint(ctx, a.transfer, a.out, outPath, data, "episode "+episodeID)
}

// Delete deletes an episode and its snapshots.
func (a *EpisodeAdapter) Delete(ctx context.Context, episodeID string) error {
	if err := a.episodes.DeleteEpisode(ctx, episodeID); err != nil {
		return fmt.Errorf("failed to delete episode: %w", err)
	}
	fmt.Fprintf(a.out, "%s Deleted episode %s\n", okMark, episodeID)
	return nil
}

func (a *EpisodeAdapter) get(ctx context.Context, episodeID string) (*narrative.Episode, error) {
	ep, err := a.episodes.GetEpisode(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}
	if ep == nil {
		return nil, fmt.Errorf("episode %s not found", episodeID)
	}
	return ep, nil
}

func writeOrPrint(ctx context.Context, transfer primary.TransferService, out io.Writer, path string, data []byte, what string) error {
	if path == "" {
		if !bytes.HasSuffix(data, []byte("\n")) {
			data = append(data, '\n')
		}
		_, err := out.Write(data)
		return err
	}
	if err := transfer.WriteDocument(ctx, path, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(out, "%s Exported %s to %s\n", okMark, what, path)
	return nil
}
