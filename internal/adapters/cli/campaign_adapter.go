package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/example/storyforge/internal/core/codec"
	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/ports/primary"
)

// CampaignAdapter is a thin adapter that translates CLI operations to
// CampaignService and TransferService calls.
type CampaignAdapter struct {
	campaigns primary.CampaignService
	transfer  primary.TransferService
	out       io.Writer
}

// NewCampaignAdapter creates a new CampaignAdapter.
func NewCampaignAdapter(campaigns primary.CampaignService, transfer primary.TransferService, out io.Writer) *CampaignAdapter {
	return &CampaignAdapter{
		campaigns: campaigns,
		transfer:  transfer,
		out:       out,
	}
}

// New creates a campaign from the template. The first entry must point at
// an episode before it can be saved, so the campaign is only written to
// outPath.
func (a *CampaignAdapter) New(ctx context.Context, title, firstEpisodeID, outPath string) (*narrative.Campaign, error) {
	c := a.campaigns.NewCampaign(ctx)
	if title != "" {
		c.Title = title
	}
	if firstEpisodeID != "" && len(c.Episodes) > 0 {
		c.Episodes[0].EpisodeID = firstEpisodeID
	}

	if firstEpisodeID != "" {
		if _, err := a.campaigns.SaveCampaign(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to save campaign: %w", err)
		}
		fmt.Fprintf(a.out, "%s Created campaign %s: %s\n", okMark, c.ID, c.Title)
	}

	if outPath != "" {
		data, err := codec.ExportCampaign(c)
		if err != nil {
			return nil, err
		}
		if err := a.transfer.WriteDocument(ctx, outPath, data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		fmt.Fprintf(a.out, "%s Campaign template written to %s\n", okMark, outPath)
	}

	if firstEpisodeID == "" && outPath == "" {
		data, err := codec.ExportCampaign(c)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(a.out, string(data))
	}
	return c, nil
}

// List lists stored campaigns.
func (a *CampaignAdapter) List(ctx context.Context, filters primary.CampaignFilters) ([]*narrative.Campaign, error) {
	campaigns, err := a.campaigns.ListCampaigns(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	if len(campaigns) == 0 {
		fmt.Fprintln(a.out, "No campaigns found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first campaign:")
		fmt.Fprintln(a.out, "  storyforge campaign new --title \"Frontier Patrol\" --episode EPISODE_ID")
		return campaigns, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tVERSION\tEPISODES\tMODIFIED")
	fmt.Fprintln(w, "--\t-----\t-------\t--------\t--------")
	for _, c := range campaigns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			c.ID,
			c.Title,
			c.Version,
			len(c.Episodes),
			formatTime(c.LastModified),
		)
	}
	w.Flush()
	return campaigns, nil
}

// Show displays a campaign, its entries in play order and its advisories.
func (a *CampaignAdapter) Show(ctx context.Context, campaignID string) (*narrative.Campaign, error) {
	c, err := a.get(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nCampaign: %s\n", c.ID)
	fmt.Fprintf(a.out, "Title:    %s\n", c.Title)
	fmt.Fprintf(a.out, "Author:   %s\n", c.Author)
	fmt.Fprintf(a.out, "Version:  %s\n", c.Version)
	fmt.Fprintf(a.out, "Modified: %s\n", formatTime(c.LastModified))
	fmt.Fprintf(a.out, "\nEpisodes (%d):\n", len(c.Episodes))

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "  #\tEPISODE\tTITLE\tREQUIRES")
	for i, entry := range c.Episodes {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", i, entry.EpisodeID, entry.Title, describeCondition(entry.Condition))
	}
	w.Flush()
	fmt.Fprintln(a.out)

	if _, err := a.Check(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Check validates a campaign and reports its advisories.
func (a *CampaignAdapter) Check(ctx context.Context, c *narrative.Campaign) (*primary.CampaignCheck, error) {
	check, err := a.campaigns.CheckCampaign(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to check campaign: %w", err)
	}
	printCampaignCheck(a.out, c.ID, check)
	return check, nil
}

// CheckStored checks a campaign already in the store.
func (a *CampaignAdapter) CheckStored(ctx context.Context, campaignID string) (*primary.CampaignCheck, error) {
	c, err := a.get(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return a.Check(ctx, c)
}

// Import reads a campaign document and saves it.
func (a *CampaignAdapter) Import(ctx context.Context, path string, allowDefects bool) (*primary.ImportCampaignResult, error) {
	data, err := a.transfer.ReadDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	res, err := a.transfer.ImportCampaign(ctx, data, primary.TransferOptions{RequireClean: !allowDefects})
	if err != nil {
		if res != nil {
			printCampaignCheck(a.out, res.Campaign.ID, res.Check)
		}
		if errors.Is(err, primary.ErrHasDefects) {
			fmt.Fprintln(a.out, "Use --allow-defects to import anyway.")
		}
		return res, fmt.Errorf("failed to import %s: %w", path, err)
	}

	fmt.Fprintf(a.out, "%s Imported campaign %s: %s\n", okMark, res.Campaign.ID, res.Campaign.Title)
	if !res.Check.Clean() {
		printCampaignCheck(a.out, res.Campaign.ID, res.Check)
	}
	return res, nil
}

// Export encodes a stored campaign to outPath, or to the adapter's output.
func (a *CampaignAdapter) Export(ctx context.Context, campaignID, outPath string, allowDefects bool) error {
	data, err := a.transfer.ExportCampaign(ctx, campaignID, primary.TransferOptions{RequireClean: !allowDefects})
	if errors.Is(err, primary.ErrHasDefects) {
		if _, checkErr := a.CheckStored(ctx, campaignID); checkErr == nil {
			fmt.Fprintln(a.out, "Use --allow-defects to export anyway.")
		}
	}
	if err != nil {
		return fmt.Errorf("failed to export campaign: %w", err)
	}
	return writeOrPrint(ctx, a.transfer, a.out, outPath, data, "campaign "+campaignID)
}

// Delete deletes a campaign. Its episodes are untouched.
func (a *CampaignAdapter) Delete(ctx context.Context, campaignID string) error {
	if err := a.campaigns.DeleteCampaign(ctx, campaignID); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	fmt.Fprintf(a.out, "%s Deleted campaign %s\n", okMark, campaignID)
	return nil
}

// Move reorders one campaign entry.
func (a *CampaignAdapter) Move(ctx context.Context, campaignID string, from, to int) (*narrative.Campaign, error) {
	c, err := a.campaigns.MoveEpisode(ctx, campaignID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to move episode: %w", err)
	}
	fmt.Fprintf(a.out, "%s Moved entry %d → %d in %s\n", okMark, from, to, campaignID)
	for i, entry := range c.Episodes {
		fmt.Fprintf(a.out, "  %d  %s\n", i, entry.EpisodeID)
	}
	return c, nil
}

func (a *CampaignAdapter) get(ctx context.Context, campaignID string) (*narrative.Campaign, error) {
	c, err := a.campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("campaign %s not found", campaignID)
	}
	return c, nil
}

func describeCondition(cond *narrative.Condition) string {
	if cond.IsEmpty() {
		return "-"
	}
	var parts []string
	if cond.PreviousEpisodeID != "" {
		parts = append(parts, "after "+cond.PreviousEpisodeID)
	}
	flags := make([]string, 0, len(cond.Flags))
	for name, want := range cond.Flags {
		flags = append(flags, fmt.Sprintf("%s=%t", name, want))
	}
	sort.Strings(flags)
	parts = append(parts, flags...)
	return strings.Join(parts, ", ")
}
