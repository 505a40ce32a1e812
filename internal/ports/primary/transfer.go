package primary

import (
	"context"
	"errors"

	"github.com/example/storyforge/internal/core/narrative"
)

// ErrHasDefects is returned when RequireClean is set and the document has advisories.
var ErrHasDefects = errors.New("document has unresolved defects")

// TransferService defines the primary port for import, export and backup.
type TransferService interface {
	// ImportEpisode decodes an episode document and saves it through the
	// normal save path. An existing episode with the same ID is overwritten.
	ImportEpisode(ctx context.Context, data []byte, opts TransferOptions) (*ImportEpisodeResult, error)

	// ExportEpisode encodes a stored episode for sharing, without lastModified.
	ExportEpisode(ctx context.Context, episodeID string, opts TransferOptions) ([]byte, error)

	// ImportCampaign decodes a campaign document and saves it.
	ImportCampaign(ctx context.Context, data []byte, opts TransferOptions) (*ImportCampaignResult, error)

	// ExportCampaign encodes a stored campaign for sharing.
	ExportCampaign(ctx context.Context, campaignID string, opts TransferOptions) ([]byte, error)

	// CreateBackup encodes every episode and campaign into one document.
	CreateBackup(ctx context.Context) ([]byte, error)

	// RestoreBackup writes a backup document back into the store.
	RestoreBackup(ctx context.Context, data []byte, opts RestoreOptions) (*RestoreReport, error)

	// ReadDocument reads an interchange file.
	ReadDocument(ctx context.Context, path string) ([]byte, error)

	// WriteDocument writes an interchange file atomically.
	WriteDocument(ctx context.Context, path string, data []byte) error
}

// TransferOptions controls defect gating on import and export.
type TransferOptions struct {
	// RequireClean refuses documents with advisories (ErrHasDefects).
	RequireClean bool
}

// ImportEpisodeResult contains the saved episode and its check.
type ImportEpisodeResult struct {
	Episode *narrative.Episode
	Check   *EpisodeCheck
}

// ImportCampaignResult contains the saved campaign and its check.
type ImportCampaignResult struct {
	Campaign *narrative.Campaign
	Check    *CampaignCheck
}

// RestoreMode selects how RestoreBackup handles failing records.
type RestoreMode int

const (
	// ModeBestEffort saves records one by one and reports failures.
	ModeBestEffort RestoreMode = iota
	// ModeAtomic validates everything first and writes all or nothing.
	ModeAtomic
)

func (m RestoreMode) String() string {
	if m == ModeAtomic {
		return "atomic"
	}
	return "best-effort"
}

// RestoreOptions contains parameters for RestoreBackup.
type RestoreOptions struct {
	Mode RestoreMode
}

// RestoreReport summarises a backup restore.
type RestoreReport struct {
	Mode              RestoreMode
	EpisodesRestored  int
	CampaignsRestored int
	Failures          []RestoreFailure
}

// RestoreFailure records one record that could not be restored.
type RestoreFailure struct {
	Kind string // "episode" or "campaign"
	ID   string
	Err  error
}
