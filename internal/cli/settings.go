package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/wire"
)

// SettingsCmd returns the settings command
func SettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change editor preferences",
		Long: `Editor preferences are stored in the database and override config.json.

Keys:
  ` + primary.SettingAutoSaveDelay + `   quiet period before an auto-save (e.g. 2s)
  ` + primary.SettingKeepAutoSaves + `   auto-save snapshots kept per episode`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.SettingsAdapter(cmd.OutOrStdout()).Show(cmd.Context())
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [key=value]",
		Short: "Change one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.SettingsAdapter(cmd.OutOrStdout()).Set(cmd.Context(), args[0])
			return err
		},
	})

	return cmd
}
