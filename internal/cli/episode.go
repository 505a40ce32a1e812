package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/session"
	"github.com/example/storyforge/internal/wire"
)

// EpisodeCmd returns the episode command
func EpisodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "episode",
		Short: "Manage episodes (scene graphs)",
		Long:  `Create, check, import, export and delete episodes.`,
	}

	cmd.AddCommand(episodeNewCmd())
	cmd.AddCommand(episodeListCmd())
	cmd.AddCommand(episodeShowCmd())
	cmd.AddCommand(episodeCheckCmd())
	cmd.AddCommand(episodeImportCmd())
	cmd.AddCommand(episodeExportCmd())
	cmd.AddCommand(episodeDeleteCmd())
	cmd.AddCommand(episodeWatchCmd())

	return cmd
}

func episodeNewCmd() *cobra.Command {
	var title string
	var outPath string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an episode from the two-scene template",
		Long: `Create and save a new episode. The template has a start scene and one
follow-up scene that loop back to each other, so it starts out clean.

Examples:
  storyforge episode new --title "The Lost Signal"
  storyforge episode new --title "Pilot" --out pilot.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.EpisodeAdapter(cmd.OutOrStdout()).New(cmd.Context(), title, outPath)
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Episode title")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Also write the episode document to this file")
	return cmd
}

func episodeListCmd() *cobra.Command {
	var filters primary.EpisodeFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored episodes, most recently modified first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.EpisodeAdapter(cmd.OutOrStdout()).List(cmd.Context(), filters)
			return err
		},
	}

	cmd.Flags().StringVar(&filters.Title, "title", "", "Filter by title substring")
	cmd.Flags().StringVar(&filters.Author, "author", "", "Filter by exact author")
	return cmd
}

func episodeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [episode-id]",
		Short: "Show an episode's scenes and advisories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.EpisodeAdapter(cmd.OutOrStdout()).Show(cmd.Context(), args[0])
			return err
		},
	}
}

func episodeCheckCmd() *cobra.Command {
	var episodeID string

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate and analyze an episode",
		Long: `Report validation errors, broken links and unreachable scenes.
Exits non-zero when any problem is found.

Examples:
  storyforge episode check pilot.json
  storyforge episode check --id episode-1734...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.EpisodeAdapter(cmd.OutOrStdout())

			var check *primary.EpisodeCheck
			var err error
			switch {
			case episodeID != "" && len(args) == 0:
				check, err = adapter.CheckStored(cmd.Context(), episodeID)
			case episodeID == "" && len(args) == 1:
				check, err = adapter.CheckFile(cmd.Context(), args[0])
			default:
				return fmt.Errorf("specify either a file or --id")
			}
			if err != nil {
				return err
			}
			if !check.Clean() {
				cmd.SilenceUsage = true
				return fmt.Errorf("episode has problems")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&episodeID, "id", "", "Check a stored episode instead of a file")
	return cmd
}

func episodeImportCmd() *cobra.Command {
	var allowDefects bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import an episode document",
		Long: `Import an episode document. An existing episode with the same id is
overwritten. Documents with broken links or unreachable scenes are refused
unless --allow-defects is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.EpisodeAdapter(cmd.OutOrStdout()).Import(cmd.Context(), args[0], allowDefects)
			return err
		},
	}

	cmd.Flags().BoolVar(&allowDefects, "allow-defects", false, "Import even if the episode has advisories")
	return cmd
}

func episodeExportCmd() *cobra.Command {
	var outPath string
	var allowDefects bool

	cmd := &cobra.Command{
		Use:   "export [episode-id]",
		Short: "Export an episode document for sharing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.EpisodeAdapter(cmd.OutOrStdout()).Export(cmd.Context(), args[0], outPath, allowDefects)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&allowDefects, "allow-defects", false, "Export even if the episode has advisories")
	return cmd
}

func episodeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [episode-id]",
		Short: "Delete an episode and its snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.EpisodeAdapter(cmd.OutOrStdout()).Delete(cmd.Context(), args[0])
		},
	}
}

func episodeWatchCmd() *cobra.Command {
	var allowDefects bool

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Auto-save an episode document whenever it changes",
		Long: `Watch an episode document and save it after edits go quiet for the
configured auto-save delay. Each save also records an auto-save snapshot.
Versions with broken links or unreachable scenes are skipped unless
--allow-defects is given. Stop with Ctrl-C; pending edits are saved first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watchEpisode(ctx, cmd.OutOrStdout(), args[0], allowDefects)
		},
	}

	cmd.Flags().BoolVar(&allowDefects, "allow-defects", false, "Save versions that have advisories")
	return cmd
}

func watchEpisode(ctx context.Context, out io.Writer, path string, allowDefects bool) error {
	adapter := wire.EpisodeAdapter(out)
	logger := wire.Logger()

	ep, err := adapter.ReadFile(ctx, path)
	if err != nil {
		return err
	}

	settings, err := wire.SettingsService().GetSettings(ctx)
	if err != nil {
		return err
	}

	// Saves outlive the watch so Close can flush after Ctrl-C.
	s := session.NewEditingSession(context.WithoutCancel(ctx), session.Config{
		Episodes: wire.EpisodeService(),
		Episode:  ep,
		Delay:    settings.AutoSaveDelay,
		Logger:   logger,
		OnSave: func(saved *narrative.Episode, err error) {
			if err != nil {
				fmt.Fprintf(out, "✗ Save failed: %v\n", err)
				return
			}
			fmt.Fprintf(out, "✓ Saved %s at %s\n", saved.ID, time.Now().Format("15:04:05"))
		},
	})

	accept := func(ep *narrative.Episode) {
		check := adapter.Check(ctx, ep)
		if len(check.Findings) > 0 {
			return
		}
		if !allowDefects && !check.Report.Clean() {
			fmt.Fprintln(out, "  Not saved: fix the problems above or use --allow-defects.")
			return
		}
		if _, err := s.Replace(ep); err != nil {
			logger.Warn("edit dropped", zap.String("episode_id", ep.ID), zap.Error(err))
		}
	}

	fmt.Fprintf(out, "Watching %s (auto-save after %s)\n", path, settings.AutoSaveDelay)
	accept(ep)

	err = wire.FileWatcher().Watch(ctx, path, func() {
		next, err := adapter.ReadFile(ctx, path)
		if err != nil {
			// Editors often truncate before writing; the next event carries the full file.
			logger.Debug("skipping unreadable document", zap.String("file", path), zap.Error(err))
			return
		}
		accept(next)
	})

	if closeErr := s.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
