package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/storyforge/internal/ports/primary"
)

// SettingsAdapter translates settings commands to SettingsService calls.
type SettingsAdapter struct {
	service primary.SettingsService
	out     io.Writer
}

// NewSettingsAdapter creates a new SettingsAdapter.
func NewSettingsAdapter(service primary.SettingsService, out io.Writer) *SettingsAdapter {
	return &SettingsAdapter{service: service, out: out}
}

// Show prints the effective settings.
func (a *SettingsAdapter) Show(ctx context.Context) (*primary.Settings, error) {
	s, err := a.service.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	a.print(s)
	return s, nil
}

// Set parses a KEY=VALUE assignment and stores it.
func (a *SettingsAdapter) Set(ctx context.Context, assignment string) (*primary.Settings, error) {
	key, value, ok := strings.Cut(assignment, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return nil, fmt.Errorf("expected KEY=VALUE, got %q", assignment)
	}

	s, err := a.service.SetSetting(ctx, key, strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("failed to set %s: %w", key, err)
	}
	fmt.Fprintf(a.out, "%s Updated %s\n", okMark, key)
	a.print(s)
	return s, nil
}

func (a *SettingsAdapter) print(s *primary.Settings) {
	fmt.Fprintf(a.out, "%s = %s\n", primary.SettingAutoSaveDelay, s.AutoSaveDelay)
	fmt.Fprintf(a.out, "%s = %d\n", primary.SettingKeepAutoSaves, s.KeepAutoSaves)
}
