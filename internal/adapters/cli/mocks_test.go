package cli

import (
	"context"
	"errors"

	"github.com/example/storyforge/internal/core/analyzer"
	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/snapshot"
	"github.com/example/storyforge/internal/ports/primary"
)

// mockEpisodeService implements primary.EpisodeService for testing
type mockEpisodeService struct {
	saveEpisodeFn   func(ctx context.Context, ep *narrative.Episode) (string, error)
	getEpisodeFn    func(ctx context.Context, episodeID string) (*narrative.Episode, error)
	listEpisodesFn  func(ctx context.Context, filters primary.EpisodeFilters) ([]*narrative.Episode, error)
	deleteEpisodeFn func(ctx context.Context, episodeID string) error
	checkEpisodeFn  func(ctx context.Context, ep *narrative.Episode) *primary.EpisodeCheck

	// Track calls for verification
	saved       []*narrative.Episode
	lastFilters primary.EpisodeFilters
}

func (m *mockEpisodeService) NewEpisode(ctx context.Context) *narrative.Episode {
	ep := narrative.NewEpisodeTemplate()
	ep.ID = "episode-new"
	return ep
}

func (m *mockEpisodeService) SaveEpisode(ctx context.Context, ep *narrative.Episode) (string, error) {
	m.saved = append(m.saved, ep)
	if m.saveEpisodeFn != nil {
		return m.saveEpisodeFn(ctx, ep)
	}
	return ep.ID, nil
}

func (m *mockEpisodeService) GetEpisode(ctx context.Context, episodeID string) (*narrative.Episode, error) {
	if m.getEpisodeFn != nil {
		return m.getEpisodeFn(ctx, episodeID)
	}
	ep := narrative.NewEpisodeTemplate()
	ep.ID = episodeID
	ep.Title = "The Lost Signal"
	return ep, nil
}

func (m *mockEpisodeService) ListEpisodes(ctx context.Context, filters primary.EpisodeFilters) ([]*narrative.Episode, error) {
	m.lastFilters = filters
	if m.listEpisodesFn != nil {
		return m.listEpisodesFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockEpisodeService) DeleteEpisode(ctx context.Context, episodeID string) error {
	if m.deleteEpisodeFn != nil {
		return m.deleteEpisodeFn(ctx, episodeID)
	}
	return nil
}

func (m *mockEpisodeService) CheckEpisode(ctx context.Context, ep *narrative.Episode) *primary.EpisodeCheck {
	if m.checkEpisodeFn != nil {
		return m.checkEpisodeFn(ctx, ep)
	}
	return &primary.EpisodeCheck{Report: analyzer.Analyze(ep.Scenes)}
}

// mockTransferService implements primary.TransferService for testing
type mockTransferService struct {
	importEpisodeFn  func(ctx context.Context, data []byte, opts primary.TransferOptions) (*primary.ImportEpisodeResult, error)
	exportEpisodeFn  func(ctx context.Context, episodeID string, opts primary.TransferOptions) ([]byte, error)
	importCampaignFn func(ctx context.Context, data []byte, opts primary.TransferOptions) (*primary.ImportCampaignResult, error)
	exportCampaignFn func(ctx context.Context, campaignID string, opts primary.TransferOptions) ([]byte, error)
	createBackupFn   func(ctx context.Context) ([]byte, error)
	restoreBackupFn  func(ctx context.Context, data []byte, opts primary.RestoreOptions) (*primary.RestoreReport, error)

	files    map[string][]byte
	lastOpts primary.TransferOptions
}

func (m *mockTransferService) ImportEpisode(ctx context.Context, data []byte, opts primary.TransferOptions) (*primary.ImportEpisodeResult, error) {
	m.lastOpts = opts
	if m.importEpisodeFn != nil {
		return m.importEpisodeFn(ctx, data, opts)
	}
	return nil, errors.New("not implemented in mock")
}

func (m *mockTransferService) ExportEpisode(ctx context.Context, episodeID string, opts primary.TransferOptions) ([]byte, error) {
	m.lastOpts = opts
	if m.exportEpisodeFn != nil {
		return m.exportEpisodeFn(ctx, episodeID, opts)
	}
	return []byte(`{"id":"` + episodeID + `"}`), nil
}

func (m *mockTransferService) ImportCampaign(ctx context.Context, data []byte, opts primary.TransferOptions) (*primary.ImportCampaignResult, error) {
	m.lastOpts = opts
	if m.importCampaignFn != nil {
		return m.importCampaignFn(ctx, data, opts)
	}
	return nil, errors.New("not implemented in mock")
}

func (m *mockTransferService) ExportCampaign(ctx context.Context, campaignID string, opts primary.TransferOptions) ([]byte, error) {
	m.lastOpts = opts
	if m.exportCampaignFn != nil {
		return m.exportCampaignFn(ctx, campaignID, opts)
	}
	return []byte(`{"id":"` + campaignID + `"}`), nil
}

func (m *mockTransferService) CreateBackup(ctx context.Context) ([]byte, error) {
	if m.createBackupFn != nil {
		return m.createBackupFn(ctx)
	}
	return []byte(`{"version":3}`), nil
}

func (m *mockTransferService) RestoreBackup(ctx context.Context, data []byte, opts primary.RestoreOptions) (*primary.RestoreReport, error) {
	if m.restoreBackupFn != nil {
		return m.restoreBackupFn(ctx, data, opts)
	}
	return &primary.RestoreReport{Mode: opts.Mode}, nil
}

func (m *mockTransferService) ReadDocument(ctx context.Context, path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, errors.New("no such file: " + path)
	}
	return data, nil
}

func (m *mockTransferService) WriteDocument(ctx context.Context, path string, data []byte) error {
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[path] = data
	return nil
}

// mockCampaignService implements primary.CampaignService for testing
type mockCampaignService struct {
	getCampaignFn   func(ctx context.Context, campaignID string) (*narrative.Campaign, error)
	listCampaignsFn func(ctx context.Context, filters primary.CampaignFilters) ([]*narrative.Campaign, error)
	checkCampaignFn func(ctx context.Context, c *narrative.Campaign) (*primary.CampaignCheck, error)
	moveEpisodeFn   func(ctx context.Context, campaignID string, from, to int) (*narrative.Campaign, error)

	saved []*narrative.Campaign
}

func (m *mockCampaignService) NewCampaign(ctx context.Context) *narrative.Campaign {
	c := narrative.NewCampaignTemplate()
	c.ID = "campaign-new"
	return c
}

func (m *mockCampaignService) SaveCampaign(ctx context.Context, c *narrative.Campaign) (string, error) {
	m.saved = append(m.saved, c)
	return c.ID, nil
}

func (m *mockCampaignService) GetCampaign(ctx context.Context, campaignID string) (*narrative.Campaign, error) {
	if m.getCampaignFn != nil {
		return m.getCampaignFn(ctx, campaignID)
	}
	return nil, nil
}

func (m *mockCampaignService) ListCampaigns(ctx context.Context, filters primary.CampaignFilters) ([]*narrative.Campaign, error) {
	if m.listCampaignsFn != nil {
		return m.listCampaignsFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockCampaignService) DeleteCampaign(ctx context.Context, campaignID string) error {
	return nil
}

func (m *mockCampaignService) CheckCampaign(ctx context.Context, c *narrative.Campaign) (*primary.CampaignCheck, error) {
	if m.checkCampaignFn != nil {
		return m.checkCampaignFn(ctx, c)
	}
	return &primary.CampaignCheck{}, nil
}

func (m *mockCampaignService) MoveEpisode(ctx context.Context, campaignID string, from, to int) (*narrative.Campaign, error) {
	if m.moveEpisodeFn != nil {
		return m.moveEpisodeFn(ctx, campaignID, from, to)
	}
	return nil, errors.New("not implemented in mock")
}

// mockSnapshotService implements primary.SnapshotService for testing
type mockSnapshotService struct {
	listFn    func(ctx context.Context, episodeID string) ([]snapshot.Summary, error)
	restoreFn func(ctx context.Context, snapshotID string) (*narrative.Episode, error)
}

func (m *mockSnapshotService) CreateManualSnapshot(ctx context.Context, episodeID string) (string, error) {
	return "snapshot-manual-1", nil
}

func (m *mockSnapshotService) ListEpisodeSnapshots(ctx context.Context, episodeID string) ([]snapshot.Summary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, episodeID)
	}
	return nil, nil
}

func (m *mockSnapshotService) RestoreEpisodeFromSnapshot(ctx context.Context, snapshotID string) (*narrative.Episode, error) {
	if m.restoreFn != nil {
		return m.restoreFn(ctx, snapshotID)
	}
	return nil, errors.New("not implemented in mock")
}

// mockDiagnosticsService implements primary.DiagnosticsService for testing
type mockDiagnosticsService struct {
	report *primary.DiagnosticsReport
}

func (m *mockDiagnosticsService) CheckConnectivity(ctx context.Context) (*primary.DiagnosticsReport, error) {
	return m.report, nil
}

// mockSettingsService implements primary.SettingsService for testing
type mockSettingsService struct {
	settings primary.Settings
	lastKey  string
	lastVal  string
	setErr   error
}

func (m *mockSettingsService) GetSettings(ctx context.Context) (*primary.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) SetSetting(ctx context.Context, key, value string) (*primary.Settings, error) {
	m.lastKey, m.lastVal = key, value
	if m.setErr != nil {
		return nil, m.setErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) KeepAutoSaves(ctx context.Context) int {
	return m.settings.KeepAutoSaves
}
