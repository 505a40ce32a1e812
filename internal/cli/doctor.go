package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/wire"
)

// errUnhealthy signals a failed doctor run through the exit code.
var errUnhealthy = errors.New("storage checks failed")

// DoctorCmd returns the doctor command for storage validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that local storage is usable",
		Long: `Health check for the storyforge database.

Validates:
- The database can be opened
- The schema version matches this build
- A record can be written, read and deleted (rolled back afterwards)
- SQLite integrity (PRAGMA quick_check)

Examples:
  storyforge doctor              # Run full health check
  storyforge doctor --quiet      # Print failures only (exit 1 on issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.DiagnosticsAdapter(cmd.OutOrStdout())

			var report *primary.DiagnosticsReport
			if err := wire.InitError(); err != nil {
				report = adapter.OpenFailure(wire.DBPath(), err, quiet)
			} else {
				var err error
				report, err = adapter.Doctor(cmd.Context(), quiet)
				if err != nil {
					return err
				}
			}

			if !report.OK() {
				cmd.SilenceUsage = true
				return errUnhealthy
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print failing checks")
	return cmd
}
