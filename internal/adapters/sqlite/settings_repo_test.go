package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/storyforge/internal/adapters/sqlite"
	"github.com/example/storyforge/internal/ports/secondary"
)

func TestSettingsRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewSettingsRepository(db)
	ctx := context.Background()

	got, err := repo.Get(ctx, "preferences")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil before first put, got %+v, %v", got, err)
	}

	for _, data := range []string{`{"keepAutoSaves":5}`, `{"keepAutoSaves":7}`} {
		if err := repo.Put(ctx, &secondary.SettingsRecord{ID: "preferences", Data: []byte(data), UpdatedAt: baseTime}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	got, err = repo.Get(ctx, "preferences")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Data) != `{"keepAutoSaves":7}` {
		t.Errorf("expected latest put to win, got %s", got.Data)
	}

	if err := repo.Delete(ctx, "preferences"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, "preferences"); err != nil {
		t.Errorf("deleting an absent record should succeed, got %v", err)
	}
}
