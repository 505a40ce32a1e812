package primary

import (
	"context"

	"github.com/example/storyforge/internal/core/campaign"
	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/validation"
)

// CampaignService defines the primary port for campaign operations.
type CampaignService interface {
	// NewCampaign returns an unsaved campaign with one placeholder entry.
	NewCampaign(ctx context.Context) *narrative.Campaign

	// SaveCampaign validates and upserts the campaign. Returns the campaign ID.
	SaveCampaign(ctx context.Context, c *narrative.Campaign) (string, error)

	// GetCampaign retrieves a campaign. Returns nil, nil when absent.
	GetCampaign(ctx context.Context, campaignID string) (*narrative.Campaign, error)

	// ListCampaigns retrieves stored campaigns, most recently modified first.
	ListCampaigns(ctx context.Context, filters CampaignFilters) ([]*narrative.Campaign, error)

	// DeleteCampaign deletes a campaign. Referenced episodes are untouched.
	DeleteCampaign(ctx context.Context, campaignID string) error

	// CheckCampaign validates a campaign and reports advisories against the
	// episodes currently in the store.
	CheckCampaign(ctx context.Context, c *narrative.Campaign) (*CampaignCheck, error)

	// MoveEpisode moves the entry at position from to position to (0-based),
	// renumbers every entry and saves the campaign.
	MoveEpisode(ctx context.Context, campaignID string, from, to int) (*narrative.Campaign, error)
}

// CampaignFilters contains filter options for listing campaigns.
type CampaignFilters struct {
	Title string
}

// CampaignCheck is the combined result of validation and advisory analysis.
type CampaignCheck struct {
	Findings   []validation.Finding
	Advisories []campaign.Advisory
}

// Clean reports whether the campaign has neither findings nor advisories.
func (c *CampaignCheck) Clean() bool {
	return len(c.Findings) == 0 && len(c.Advisories) == 0
}
