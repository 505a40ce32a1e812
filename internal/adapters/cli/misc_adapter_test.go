package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/snapshot"
	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/ports/secondary"
)

// ============================================================================
// Snapshot Tests
// ============================================================================

func TestSnapshotAdapter_List(t *testing.T) {
	service := &mockSnapshotService{
		listFn: func(ctx context.Context, episodeID string) ([]snapshot.Summary, error) {
			return []snapshot.Summary{
				{ID: "snapshot-2", EpisodeID: episodeID, Type: snapshot.ManualSave, Timestamp: time.Now()},
				{ID: "snapshot-1", EpisodeID: episodeID, Type: snapshot.AutoSave, Timestamp: time.Now().Add(-time.Minute)},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewSnapshotAdapter(service, &buf)

	list, err := adapter.List(context.Background(), "episode-a")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(list))
	}
	output := buf.String()
	if !strings.Contains(output, "manual-save") || !strings.Contains(output, "auto-save") {
		t.Errorf("expected both snapshot types in output, got '%s'", output)
	}
}

func TestSnapshotAdapter_Restore(t *testing.T) {
	service := &mockSnapshotService{
		restoreFn: func(ctx context.Context, snapshotID string) (*narrative.Episode, error) {
			ep := narrative.NewEpisodeTemplate()
			ep.ID = "episode-a"
			return ep, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewSnapshotAdapter(service, &buf)

	if _, err := adapter.Restore(context.Background(), "snapshot-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "Restored episode episode-a from snapshot-1") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

// ============================================================================
// Backup Tests
// ============================================================================

func TestBackupAdapter_RestoreReportsFailures(t *testing.T) {
	transfer := &mockTransferService{
		files: map[string][]byte{"backup.json": []byte(`{}`)},
		restoreBackupFn: func(ctx context.Context, data []byte, opts primary.RestoreOptions) (*primary.RestoreReport, error) {
			return &primary.RestoreReport{
				Mode:             opts.Mode,
				EpisodesRestored: 2,
				Failures: []primary.RestoreFailure{
					{Kind: "episode", ID: "episode-broken", Err: errors.New("title is required")},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewBackupAdapter(transfer, &buf)

	report, err := adapter.Restore(context.Background(), "backup.json", primary.ModeBestEffort)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(report.Failures) != 1 {
		t.Errorf("expected 1 failure, got %d", len(report.Failures))
	}
	output := buf.String()
	if !strings.Contains(output, "best-effort") || !strings.Contains(output, "episode-broken") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestBackupAdapter_CreateWritesFile(t *testing.T) {
	transfer := &mockTransferService{}
	adapter := NewBackupAdapter(transfer, &bytes.Buffer{})

	if err := adapter.Create(context.Background(), "backup.json"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(transfer.files["backup.json"]) != `{"version":3}` {
		t.Errorf("unexpected backup contents: %s", transfer.files["backup.json"])
	}
}

// ============================================================================
// Diagnostics Tests
// ============================================================================

func TestDiagnosticsAdapter_Doctor(t *testing.T) {
	service := &mockDiagnosticsService{report: &primary.DiagnosticsReport{
		DBPath: "/tmp/storyforge.db",
		Checks: []primary.CheckResult{
			{Name: "connection", OK: true, Detail: "opened"},
			{Name: "read/write probe", OK: false, Detail: "attempt to write a readonly database", Hint: "check file permissions"},
		},
	}}

	var buf bytes.Buffer
	report, err := NewDiagnosticsAdapter(service, &buf).Doctor(context.Background(), false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.OK() {
		t.Error("expected report to fail")
	}
	output := buf.String()
	for _, want := range []string{"/tmp/storyforge.db", "connection", "hint: check file permissions", "Storage has problems"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got '%s'", want, output)
		}
	}

	buf.Reset()
	if _, err := NewDiagnosticsAdapter(service, &buf).Doctor(context.Background(), true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Contains(buf.String(), "connection") {
		t.Errorf("quiet mode should only print failures, got '%s'", buf.String())
	}
}

func TestDiagnosticsAdapter_OpenFailure(t *testing.T) {
	var buf bytes.Buffer
	openErr := &secondary.StorageError{
		Kind:       secondary.KindBlocked,
		Collection: "database",
		Op:         "open",
		Err:        errors.New("database is locked"),
	}

	report := NewDiagnosticsAdapter(nil, &buf).OpenFailure("/tmp/storyforge.db", openErr, false)

	if report.OK() {
		t.Error("expected report to fail")
	}
	if report.Checks[0].Hint == "" {
		t.Error("expected a recovery hint for a storage error")
	}
	if !strings.Contains(buf.String(), "database is locked") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

// ============================================================================
// Settings Tests
// ============================================================================

func TestSettingsAdapter_Set(t *testing.T) {
	service := &mockSettingsService{settings: primary.Settings{AutoSaveDelay: 2 * time.Second, KeepAutoSaves: 5}}
	var buf bytes.Buffer
	adapter := NewSettingsAdapter(service, &buf)

	if _, err := adapter.Set(context.Background(), "keep_autosaves = 5"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if service.lastKey != "keep_autosaves" || service.lastVal != "5" {
		t.Errorf("expected trimmed key and value, got %q=%q", service.lastKey, service.lastVal)
	}
	if !strings.Contains(buf.String(), "keep_autosaves = 5") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestSettingsAdapter_Set_RejectsMalformed(t *testing.T) {
	adapter := NewSettingsAdapter(&mockSettingsService{}, &bytes.Buffer{})

	for _, in := range []string{"keep_autosaves", "=5"} {
		if _, err := adapter.Set(context.Background(), in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}
