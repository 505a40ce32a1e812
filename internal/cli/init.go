package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/storyforge/internal/config"
	"github.com/example/storyforge/internal/db"
	"github.com/example/storyforge/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the storyforge database",
		Long: `Initialize the storyforge database with the current schema and write a
default config.json if none exists.

Examples:
  storyforge init
  storyforge init --seed     # also add a sample episode and campaign`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			home, err := config.HomeDir()
			if err != nil {
				return err
			}
			if _, err := os.Stat(config.Path(home)); errors.Is(err, fs.ErrNotExist) {
				if err := config.SaveConfig(home, config.Default()); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Config written to %s\n", config.Path(home))
			}

			if err := wire.InitError(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Fprintf(out, "✓ Database ready at %s (schema v%d)\n", wire.DBPath(), db.SchemaVersion)

			if seed {
				conn, err := db.GetDB()
				if err != nil {
					return err
				}
				if err := db.SeedFixtures(conn); err != nil {
					return fmt.Errorf("failed to seed sample data: %w", err)
				}
				fmt.Fprintln(out, "✓ Sample episode and campaign added")
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  storyforge episode new --title \"My First Episode\"")
			fmt.Fprintln(out, "  storyforge doctor")
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Insert a sample episode and campaign")
	return cmd
}
