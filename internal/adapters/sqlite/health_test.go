package sqlite_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/example/storyforge/internal/adapters/sqlite"
	"github.com/example/storyforge/internal/db"
)

func TestHealthChecker(t *testing.T) {
	conn, err := db.Open(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	checker := sqlite.NewHealthChecker(conn)
	ctx := context.Background()

	if err := checker.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	version, err := checker.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != db.SchemaVersion {
		t.Errorf("expected schema version %d, got %d", db.SchemaVersion, version)
	}

	if err := checker.QuickCheck(ctx); err != nil {
		t.Errorf("QuickCheck failed: %v", err)
	}
}
