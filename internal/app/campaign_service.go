package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/storyforge/internal/core/campaign"
	"github.com/example/storyforge/internal/core/codec"
	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/validation"
	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/ports/secondary"
)

// CampaignServiceImpl implements the CampaignService interface.
type CampaignServiceImpl struct {
	campaigns secondary.CampaignRepository
	episodes  secondary.EpisodeRepository
	validator *validation.Validator
	log       *zap.Logger
	now       func() time.Time
}

// NewCampaignService creates a new CampaignService with injected dependencies.
func NewCampaignService(stores secondary.Stores, validator *validation.Validator, log *zap.Logger) *CampaignServiceImpl {
	return &CampaignServiceImpl{
		campaigns: stores.Campaigns,
		episodes:  stores.Episodes,
		validator: validator,
		log:       log,
		now:       time.Now,
	}
}

// NewCampaign returns an unsaved campaign with one placeholder entry.
func (s *CampaignServiceImpl) NewCampaign(ctx context.Context) *narrative.Campaign {
	return narrative.NewCampaignTemplate()
}

// SaveCampaign validates and upserts a campaign. Campaigns have no snapshots.
func (s *CampaignServiceImpl) SaveCampaign(ctx context.Context, c *narrative.Campaign) (string, error) {
	if err := s.validator.ValidateCampaign(c); err != nil {
		return "", err
	}

	cp := c.Clone()
	if err := writeCampaign(ctx, s.campaigns, cp, s.now()); err != nil {
		return "", fmt.Errorf("failed to save campaign %s: %w", cp.ID, err)
	}
	c.LastModified = cp.LastModified

	return cp.ID, nil
}

// GetCampaign retrieves a campaign by ID.
func (s *CampaignServiceImpl) GetCampaign(ctx context.Context, campaignID string) (*narrative.Campaign, error) {
	record, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign %s: %w", campaignID, err)
	}
	if record == nil {
		return nil, nil
	}

	c, err := codec.DecodeCampaign(record.Data)
	if err != nil {
		return nil, fmt.Errorf("stored campaign %s is unreadable: %w", campaignID, err)
	}
	return c, nil
}

// ListCampaigns retrieves stored campaigns.
func (s *CampaignServiceImpl) ListCampaigns(ctx context.Context, filters primary.CampaignFilters) ([]*narrative.Campaign, error) {
	records, err := s.campaigns.List(ctx, secondary.CampaignFilters{Title: filters.Title})
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	campaigns := make([]*narrative.Campaign, 0, len(records))
	for _, r := range records {
		c, err := codec.DecodeCampaign(r.Data)
		if err != nil {
			return nil, fmt.Errorf("stored campaign %s is unreadable: %w", r.ID, err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

// DeleteCampaign deletes a campaign.
func (s *CampaignServiceImpl) DeleteCampaign(ctx context.Context, campaignID string) error {
	if err := s.campaigns.Delete(ctx, campaignID); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// CheckCampaign validates a campaign and reports advisories.
func (s *CampaignServiceImpl) CheckCampaign(ctx context.Context, c *narrative.Campaign) (*primary.CampaignCheck, error) {
	ids, err := s.episodes.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load episode ids: %w", err)
	}

	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	return &primary.CampaignCheck{
		Findings:   findingsOf(s.validator.ValidateCampaign(c)),
		Advisories: campaign.Analyze(c, known),
	}, nil
}

// MoveEpisode reorders a stored campaign and saves it.
func (s *CampaignServiceImpl) MoveEpisode(ctx context.Context, campaignID string, from, to int) (*narrative.Campaign, error) {
	c, err := s.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, secondary.ErrNotFound)
	}

	moved, err := campaign.Move(campaign.SortByOrder(c.Episodes), from, to)
	if err != nil {
		return nil, err
	}
	c.Episodes = moved

	if _, err := s.SaveCampaign(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Ensure CampaignServiceImpl implements the interface.
var _ primary.CampaignService = (*CampaignServiceImpl)(nil)
