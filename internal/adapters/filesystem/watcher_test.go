package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/storyforge/internal/adapters/filesystem"
)

func TestFileWatcher_ReportsWrites(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "episode.json")
	other := filepath.Join(tmpDir, "other.json")
	if err := os.WriteFile(target, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- filesystem.NewFileWatcher(zap.NewNop()).Watch(ctx, target, func() {
			changes <- struct{}{}
		})
	}()

	// Keep writing until the watcher is registered and reports a change.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for seen := false; !seen; {
		select {
		case <-changes:
			seen = true
		case <-tick.C:
			if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(target, []byte(`{"id":"e"}`), 0644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for change notification")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}
