package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/storyforge/internal/core/codec"
	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/validation"
	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/ports/secondary"
)

// ErrRestoreAborted is returned by atomic restores that wrote nothing.
var ErrRestoreAborted = errors.New("backup restore aborted")

// TransferServiceImpl implements the TransferService interface.
type TransferServiceImpl struct {
	episodeService  primary.EpisodeService
	campaignService primary.CampaignService
	uow             secondary.UnitOfWork
	snapshots       secondary.SnapshotRepository
	documents       secondary.DocumentStore
	validator       *validation.Validator
	retention       RetentionPolicy
	schemaVersion   int
	log             *zap.Logger
	now             func() time.Time
}

// TransferServiceDeps bundles the dependencies of TransferServiceImpl.
type TransferServiceDeps struct {
	EpisodeService  primary.EpisodeService
	CampaignService primary.CampaignService
	UnitOfWork      secondary.UnitOfWork
	Stores          secondary.Stores
	Documents       secondary.DocumentStore
	Validator       *validation.Validator
	Retention       RetentionPolicy
	SchemaVersion   int
	Logger          *zap.Logger
}

// NewTransferService creates a new TransferService with injected dependencies.
func NewTransferService(deps TransferServiceDeps) *TransferServiceImpl {
	return &TransferServiceImpl{
		episodeService:  deps.EpisodeService,
		campaignService: deps.CampaignService,
		uow:             deps.UnitOfWork,
		snapshots:       deps.Stores.Snapshots,
		documents:       deps.Documents,
		validator:       deps.Validator,
		retention:       deps.Retention,
		schemaVersion:   deps.SchemaVersion,
		log:             deps.Logger,
		now:             time.Now,
	}
}

// ImportEpisode decodes and saves an episode. Validation findings fail the
// import; advisories only fail it when opts.RequireClean is set.
func (s *TransferServiceImpl) ImportEpisode(ctx context.Context, data []byte, opts primary.TransferOptions) (*primary.ImportEpisodeResult, error) {
	ep, err := codec.DecodeEpisode(data)
	if err != nil {
		return nil, err
	}

	result := &primary.ImportEpisodeResult{
		Episode: ep,
		Check:   s.episodeService.CheckEpisode(ctx, ep),
	}
	if opts.RequireClean && !result.Check.Report.Clean() {
		return result, fmt.Errorf("episode %s: %w", ep.ID, primary.ErrHasDefects)
	}

	if _, err := s.episodeService.SaveEpisode(ctx, ep); err != nil {
		return result, err
	}
	return result, nil
}

// ExportEpisode encodes a stored episode for sharing.
func (s *TransferServiceImpl) ExportEpisode(ctx context.Context, episodeID string, opts primary.TransferOptions) ([]byte, error) {
	ep, err := s.episodeService.GetEpisode(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	if ep == nil {
		return nil, fmt.Errorf("episode %s: %w", episodeID, secondary.ErrNotFound)
	}

	if opts.RequireClean && !s.episodeService.CheckEpisode(ctx, ep).Clean() {
		return nil, fmt.Errorf("episode %s: %w", episodeID, primary.ErrHasDefects)
	}

	return codec.ExportEpisode(ep)
}

// ImportCampaign decodes and saves a campaign.
func (s *TransferServiceImpl) ImportCampaign(ctx context.Context, data []byte, opts primary.TransferOptions) (*primary.ImportCampaignResult, error) {
	c, err := codec.DecodeCampaign(data)
	if err != nil {
		return nil, err
	}

	check, err := s.campaignService.CheckCampaign(ctx, c)
	if err != nil {
		return nil, err
	}
	result := &primary.ImportCampaignResult{Campaign: c, Check: check}
	if opts.RequireClean && len(check.Advisories) > 0 {
		return result, fmt.Errorf("campaign %s: %w", c.ID, primary.ErrHasDefects)
	}

	if _, err := s.campaignService.SaveCampaign(ctx, c); err != nil {
		return result, err
	}
	return result, nil
}

// ExportCampaign encodes a stored campaign for sharing.
func (s *TransferServiceImpl) ExportCampaign(ctx context.Context, campaignID string, opts primary.TransferOptions) ([]byte, error) {
	c, err := s.campaignService.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, secondary.ErrNotFound)
	}

	if opts.RequireClean {
		check, err := s.campaignService.CheckCampaign(ctx, c)
		if err != nil {
			return nil, err
		}
		if !check.Clean() {
			return nil, fmt.Errorf("campaign %s: %w", campaignID, primary.ErrHasDefects)
		}
	}

	return codec.ExportCampaign(c)
}

// CreateBackup encodes every stored episode and campaign.
func (s *TransferServiceImpl) CreateBackup(ctx context.Context) ([]byte, error) {
	episodes, err := s.episodeService.ListEpisodes(ctx, primary.EpisodeFilters{})
	if err != nil {
		return nil, err
	}
	campaigns, err := s.campaignService.ListCampaigns(ctx, primary.CampaignFilters{})
	if err != nil {
		return nil, err
	}

	return codec.EncodeBackup(&codec.Backup{
		Version:   s.schemaVersion,
		Timestamp: s.now().UTC().Truncate(time.Second),
		Episodes:  episodes,
		Campaigns: campaigns,
	})
}

// RestoreBackup writes a backup document back into the store.
//
// Best-effort mode saves records one at a time through the normal save path
// and reports each failure. Atomic mode validates every record first and
// then writes everything, snapshots included, in one transaction.
func (s *TransferServiceImpl) RestoreBackup(ctx context.Context, data []byte, opts primary.RestoreOptions) (*primary.RestoreReport, error) {
	backup, err := codec.DecodeBackup(data)
	if err != nil {
		return nil, err
	}

	if opts.Mode == primary.ModeAtomic {
		return s.restoreAtomic(ctx, backup)
	}
	return s.restoreBestEffort(ctx, backup), nil
}

func (s *TransferServiceImpl) restoreBestEffort(ctx context.Context, backup *codec.Backup) *primary.RestoreReport {
	report := &primary.RestoreReport{Mode: primary.ModeBestEffort}

	for i, ep := range backup.Episodes {
		if _, err := s.episodeService.SaveEpisode(ctx, ep); err != nil {
			report.Failures = append(report.Failures, s.failure("episode", episodeID(ep, i), err))
			continue
		}
		report.EpisodesRestored++
	}

	for i, c := range backup.Campaigns {
		if _, err := s.campaignService.SaveCampaign(ctx, c); err != nil {
			report.Failures = append(report.Failures, s.failure("campaign", campaignID(c, i), err))
			continue
		}
		report.CampaignsRestored++
	}

	return report
}

func (s *TransferServiceImpl) restoreAtomic(ctx context.Context, backup *codec.Backup) (*primary.RestoreReport, error) {
	report := &primary.RestoreReport{Mode: primary.ModeAtomic}

	for i, ep := range backup.Episodes {
		if err := s.validator.ValidateEpisode(ep); err != nil {
			report.Failures = append(report.Failures, s.failure("episode", episodeID(ep, i), err))
		}
	}
	for i, c := range backup.Campaigns {
		if err := s.validator.ValidateCampaign(c); err != nil {
			report.Failures = append(report.Failures, s.failure("campaign", campaignID(c, i), err))
		}
	}
	if len(report.Failures) > 0 {
		return report, fmt.Errorf("%w: %d invalid records", ErrRestoreAborted, len(report.Failures))
	}

	now := s.now()
	err := s.uow.Do(ctx, func(ctx context.Context, stores secondary.Stores) error {
		for _, ep := range backup.Episodes {
			if err := writeEpisode(ctx, stores, ep.Clone(), now); err != nil {
				return fmt.Errorf("episode %s: %w", ep.ID, err)
			}
		}
		for _, c := range backup.Campaigns {
			if err := writeCampaign(ctx, stores.Campaigns, c.Clone(), now); err != nil {
				return fmt.Errorf("campaign %s: %w", c.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrRestoreAborted, err)
	}

	report.EpisodesRestored = len(backup.Episodes)
	report.CampaignsRestored = len(backup.Campaigns)

	keep := s.retention.KeepAutoSaves(ctx)
	for _, ep := range backup.Episodes {
		pruneAutoSaves(ctx, s.snapshots, ep.ID, keep, s.log)
	}

	return report, nil
}

func (s *TransferServiceImpl) failure(kind, id string, err error) primary.RestoreFailure {
	s.log.Warn("backup record not restored", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
	return primary.RestoreFailure{Kind: kind, ID: id, Err: err}
}

// ReadDocument reads an interchange file.
func (s *TransferServiceImpl) ReadDocument(ctx context.Context, path string) ([]byte, error) {
	return s.documents.ReadDocument(ctx, path)
}

// WriteDocument writes an interchange file atomically.
func (s *TransferServiceImpl) WriteDocument(ctx context.Context, path string, data []byte) error {
	return s.documents.WriteDocument(ctx, path, data)
}

func episodeID(ep *narrative.Episode, index int) string {
	if ep == nil || ep.ID == "" {
		return fmt.Sprintf("episodes[%d]", index)
	}
	return ep.ID
}

func campaignID(c *narrative.Campaign, index int) string {
	if c == nil || c.ID == "" {
		return fmt.Sprintf("campaigns[%d]", index)
	}
	return c.ID
}

// Ensure TransferServiceImpl implements the interface.
var _ primary.TransferService = (*TransferServiceImpl)(nil)
