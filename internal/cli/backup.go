package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/wire"
)

// BackupCmd returns the backup command
func BackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up or restore every episode and campaign",
	}

	cmd.AddCommand(backupCreateCmd())
	cmd.AddCommand(backupRestoreCmd())

	return cmd
}

func backupCreateCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a backup document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.BackupAdapter(cmd.OutOrStdout()).Create(cmd.Context(), outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func backupRestoreCmd() *cobra.Command {
	var atomic bool

	cmd := &cobra.Command{
		Use:   "restore [file]",
		Short: "Restore a backup document",
		Long: `Restore every record in a backup document.

By default records are restored one by one and failures are reported at the
end. With --atomic (or restore_mode "atomic" in config) every record is
validated first and nothing is written unless all of them succeed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := primary.ModeBestEffort
			if atomic || wire.Config().AtomicRestore() {
				mode = primary.ModeAtomic
			}

			report, err := wire.BackupAdapter(cmd.OutOrStdout()).Restore(cmd.Context(), args[0], mode)
			if err != nil {
				return err
			}
			if len(report.Failures) > 0 {
				cmd.SilenceUsage = true
				return fmt.Errorf("%d record(s) could not be restored", len(report.Failures))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&atomic, "atomic", false, "Restore all records or none")
	return cmd
}
