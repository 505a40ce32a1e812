package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/storyforge/internal/wire"
)

// SnapshotCmd returns the snapshot command
func SnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage episode snapshots",
		Long: `Snapshots are point-in-time copies of an episode. Every save records an
auto-save snapshot (only the newest are kept); manual snapshots are never pruned.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create [episode-id]",
		Short: "Take a manual snapshot of a stored episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.SnapshotAdapter(cmd.OutOrStdout()).Create(cmd.Context(), args[0])
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list [episode-id]",
		Short: "List an episode's snapshots, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.SnapshotAdapter(cmd.OutOrStdout()).List(cmd.Context(), args[0])
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore [snapshot-id]",
		Short: "Overwrite an episode with a snapshot's content",
		Long: `Overwrite the episode with the snapshot's content. The current state is
not snapshotted first; take a manual snapshot beforehand to keep it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.SnapshotAdapter(cmd.OutOrStdout()).Restore(cmd.Context(), args[0])
			return err
		},
	})

	return cmd
}
