package primary

import (
	"context"
	"time"
)

// SettingsService defines the primary port for editor preferences.
type SettingsService interface {
	// GetSettings returns stored preferences merged over configured defaults.
	GetSettings(ctx context.Context) (*Settings, error)

	// SetSetting updates one preference by key and stores the result.
	SetSetting(ctx context.Context, key, value string) (*Settings, error)

	// KeepAutoSaves returns the effective auto-save retention count.
	KeepAutoSaves(ctx context.Context) int
}

// Settings keys accepted by SetSetting.
const (
	SettingAutoSaveDelay = "autosave_delay"
	SettingKeepAutoSaves = "keep_autosaves"
)

// Settings are the editor preferences.
type Settings struct {
	AutoSaveDelay time.Duration
	KeepAutoSaves int
	UpdatedAt     time.Time
}
