package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/wire"
)

// CampaignCmd returns the campaign command
func CampaignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Manage campaigns (ordered episode sequences)",
		Long:  `Create, check, reorder, import and export campaigns.`,
	}

	cmd.AddCommand(campaignNewCmd())
	cmd.AddCommand(campaignListCmd())
	cmd.AddCommand(campaignShowCmd())
	cmd.AddCommand(campaignCheckCmd())
	cmd.AddCommand(campaignImportCmd())
	cmd.AddCommand(campaignExportCmd())
	cmd.AddCommand(campaignDeleteCmd())
	cmd.AddCommand(campaignMoveCmd())

	return cmd
}

func campaignNewCmd() *cobra.Command {
	var title, episodeID, outPath string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a campaign from the template",
		Long: `Create a campaign with one entry. With --episode the entry points at that
episode and the campaign is saved; otherwise the template is printed (or
written with --out) for editing and later import.

Examples:
  storyforge campaign new --title "Frontier Patrol" --episode episode-sample-signal
  storyforge campaign new --out patrol.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.CampaignAdapter(cmd.OutOrStdout()).New(cmd.Context(), title, episodeID, outPath)
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Campaign title")
	cmd.Flags().StringVar(&episodeID, "episode", "", "Episode for the first entry")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the campaign document to this file")
	return cmd
}

func campaignListCmd() *cobra.Command {
	var filters primary.CampaignFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored campaigns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.CampaignAdapter(cmd.OutOrStdout()).List(cmd.Context(), filters)
			return err
		},
	}

	cmd.Flags().StringVar(&filters.Title, "title", "", "Filter by title substring")
	return cmd
}

func campaignShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [campaign-id]",
		Short: "Show a campaign's entries and advisories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.CampaignAdapter(cmd.OutOrStdout()).Show(cmd.Context(), args[0])
			return err
		},
	}
}

func campaignCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [campaign-id]",
		Short: "Report missing episodes and impossible conditions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			check, err := wire.CampaignAdapter(cmd.OutOrStdout()).CheckStored(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !check.Clean() {
				cmd.SilenceUsage = true
				return fmt.Errorf("campaign has problems")
			}
			return nil
		},
	}
}

func campaignImportCmd() *cobra.Command {
	var allowDefects bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a campaign document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.CampaignAdapter(cmd.OutOrStdout()).Import(cmd.Context(), args[0], allowDefects)
			return err
		},
	}

	cmd.Flags().BoolVar(&allowDefects, "allow-defects", false, "Import even if the campaign has advisories")
	return cmd
}

func campaignExportCmd() *cobra.Command {
	var outPath string
	var allowDefects bool

	cmd := &cobra.Command{
		Use:   "export [campaign-id]",
		Short: "Export a campaign document for sharing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CampaignAdapter(cmd.OutOrStdout()).Export(cmd.Context(), args[0], outPath, allowDefects)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&allowDefects, "allow-defects", false, "Export even if the campaign has advisories")
	return cmd
}

func campaignDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [campaign-id]",
		Short: "Delete a campaign (its episodes are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CampaignAdapter(cmd.OutOrStdout()).Delete(cmd.Context(), args[0])
		},
	}
}

func campaignMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move [campaign-id] [from] [to]",
		Short: "Move a campaign entry to a new position (0-based)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := parsePositions(args[1], args[2])
			if err != nil {
				return err
			}
			_, err = wire.CampaignAdapter(cmd.OutOrStdout()).Move(cmd.Context(), args[0], from, to)
			return err
		},
	}
}

func parsePositions(fromArg, toArg string) (int, int, error) {
	from, err := strconv.Atoi(fromArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid position %q", fromArg)
	}
	to, err := strconv.Atoi(toArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid position %q", toArg)
	}
	return from, to, nil
}
