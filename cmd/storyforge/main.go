package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/storyforge/internal/cli"
	"github.com/example/storyforge/internal/version"
	"github.com/example/storyforge/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "storyforge",
		Short:   "Storyforge - local-first narrative graph editor backend",
		Version: version.String(),
		Long: `Storyforge stores branching episodes and campaigns in a local SQLite
database, checks them for broken links and unreachable scenes, and keeps
auto-save snapshots for recovery.`,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.EpisodeCmd())
	rootCmd.AddCommand(cli.SnapshotCmd())
	rootCmd.AddCommand(cli.CampaignCmd())
	rootCmd.AddCommand(cli.BackupCmd())
	rootCmd.AddCommand(cli.SettingsCmd())

	err := rootCmd.Execute()
	wire.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
