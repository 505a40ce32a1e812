// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the single point where the database schema is loaded for tests.
// All setup goes through db.GetSchemaSQL() so tests run against the
// authoritative schema.
//
// Do not hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/storyforge/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each pooled connection to :memory: is its own database.
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedEpisode inserts a minimal episode row and returns its ID.
func seedEpisode(t *testing.T, db *sql.DB, id, title, author string, lastModified time.Time) string {
	t.Helper()
	if id == "" {
		id = "episode-001"
	}
	if title == "" {
		title = "Test Episode"
	}
	data := fmt.Sprintf(`{"id":%q,"title":%q,"author":%q,"scenes":{}}`, id, title, author)
	_, err := db.Exec(
		"INSERT INTO episodes (id, title, author, last_modified, data) VALUES (?, ?, ?, ?, ?)",
		id, title, author, lastModified.UnixMilli(), data,
	)
	if err != nil {
		t.Fatalf("failed to seed episode: %v", err)
	}
	return id
}

// seedSnapshot inserts a snapshot row and returns its ID.
func seedSnapshot(t *testing.T, db *sql.DB, id, episodeID, typ string, ts time.Time) string {
	t.Helper()
	if typ == "" {
		typ = "auto-save"
	}
	_, err := db.Exec(
		"INSERT INTO snapshots (id, episode_id, type, timestamp, seq, data) VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots), ?)",
		id, episodeID, typ, ts.UnixMilli(), `{"id":"`+episodeID+`"}`,
	)
	if err != nil {
		t.Fatalf("failed to seed snapshot: %v", err)
	}
	return id
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
