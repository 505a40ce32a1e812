package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/ports/secondary"
)

// AppSettingsID is the well-known record in the settings collection.
const AppSettingsID = "app-settings"

// maxAutoSaveDelay bounds the debounce window.
const maxAutoSaveDelay = 10 * time.Minute

// SettingsServiceImpl implements the SettingsService interface.
// Stored values override the configured defaults field by field.
type SettingsServiceImpl struct {
	repo     secondary.SettingsRepository
	defaults primary.Settings
	log      *zap.Logger
	now      func() time.Time
}

// NewSettingsService creates a new SettingsService with injected dependencies.
func NewSettingsService(repo secondary.SettingsRepository, defaults primary.Settings, log *zap.Logger) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		repo:     repo,
		defaults: defaults,
		log:      log,
		now:      time.Now,
	}
}

type settingsDocument struct {
	AutoSaveDelay string `json:"autoSaveDelay,omitempty"`
	KeepAutoSaves int    `json:"keepAutoSaves,omitempty"`
}

// GetSettings returns stored preferences merged over the defaults. A stored
// field that is malformed or out of range is ignored with a warning, so a
// damaged record never blocks reads or a repairing SetSetting.
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (*primary.Settings, error) {
	settings := s.defaults

	record, err := s.repo.Get(ctx, AppSettingsID)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if record == nil {
		return &settings, nil
	}
	settings.UpdatedAt = record.UpdatedAt

	if !gjson.ValidBytes(record.Data) {
		s.log.Warn("stored settings are not valid JSON, using defaults", zap.String("settings_id", record.ID))
		return &settings, nil
	}

	doc := gjson.ParseBytes(record.Data)
	if v := doc.Get("autoSaveDelay"); v.Exists() {
		if d, err := parseAutoSaveDelay(v.String()); err != nil || v.Type != gjson.String {
			s.ignoreField(primary.SettingAutoSaveDelay, v.Raw, err)
		} else {
			settings.AutoSaveDelay = d
		}
	}
	if v := doc.Get("keepAutoSaves"); v.Exists() {
		if n, err := parseKeepAutoSaves(v.Raw); err != nil || v.Type != gjson.Number {
			s.ignoreField(primary.SettingKeepAutoSaves, v.Raw, err)
		} else {
			settings.KeepAutoSaves = n
		}
	}

	return &settings, nil
}

func (s *SettingsServiceImpl) ignoreField(key, raw string, err error) {
	fields := []zap.Field{zap.String("key", key), zap.String("value", raw)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.log.Warn("ignoring stored setting", fields...)
}

func parseAutoSaveDelay(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 || d > maxAutoSaveDelay {
		return 0, fmt.Errorf("must be between 0s and %s", maxAutoSaveDelay)
	}
	return d, nil
}

func parseKeepAutoSaves(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("must be at least 1")
	}
	return n, nil
}

// SetSetting updates one preference. Keys are primary.SettingAutoSaveDelay
// and primary.SettingKeepAutoSaves.
func (s *SettingsServiceImpl) SetSetting(ctx context.Context, key, value string) (*primary.Settings, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		s.log.Warn("stored settings unreadable, starting from defaults", zap.Error(err))
		defaults := s.defaults
		current = &defaults
	}

	switch key {
	case primary.SettingAutoSaveDelay:
		d, err := parseAutoSaveDelay(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		current.AutoSaveDelay = d
	case primary.SettingKeepAutoSaves:
		n, err := parseKeepAutoSaves(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		current.KeepAutoSaves = n
	default:
		return nil, fmt.Errorf("unknown setting %q (known: %s, %s)", key, primary.SettingAutoSaveDelay, primary.SettingKeepAutoSaves)
	}

	data, err := json.Marshal(settingsDocument{
		AutoSaveDelay: current.AutoSaveDelay.String(),
		KeepAutoSaves: current.KeepAutoSaves,
	})
	if err != nil {
		return nil, err
	}

	current.UpdatedAt = s.now().UTC()
	if err := s.repo.Put(ctx, &secondary.SettingsRecord{ID: AppSettingsID, Data: data, UpdatedAt: current.UpdatedAt}); err != nil {
		return nil, fmt.Errorf("failed to store settings: %w", err)
	}

	return current, nil
}

// KeepAutoSaves returns the effective retention count, falling back to the
// default when settings cannot be read.
func (s *SettingsServiceImpl) KeepAutoSaves(ctx context.Context) int {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		s.log.Warn("using default auto-save retention", zap.Error(err))
		return s.defaults.KeepAutoSaves
	}
	return settings.KeepAutoSaves
}

// Ensure SettingsServiceImpl implements the interface.
var _ primary.SettingsService = (*SettingsServiceImpl)(nil)
