// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/storyforge/internal/db"
	"github.com/example/storyforge/internal/ports/secondary"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so repositories can run
// standalone or inside a UnitOfWork.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UnitOfWork implements secondary.UnitOfWork over one SQLite transaction.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork creates a new SQLite unit of work.
func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do runs fn with repositories bound to a fresh transaction. The transaction
// commits only when fn returns nil.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores secondary.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return db.WrapError("transaction", "begin", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, NewStores(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return db.WrapError("transaction", "commit", err)
	}
	return nil
}

// NewStores binds every repository to the same handle.
func NewStores(conn dbtx) secondary.Stores {
	return secondary.Stores{
		Episodes:  &EpisodeRepository{db: conn},
		Campaigns: &CampaignRepository{db: conn},
		Snapshots: &SnapshotRepository{db: conn},
		Settings:  &SettingsRepository{db: conn},
	}
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, secondary.ErrNotFound)
}

var _ secondary.UnitOfWork = (*UnitOfWork)(nil)
