package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/storyforge/internal/ports/primary"
)

// BackupAdapter translates backup commands to TransferService calls.
type BackupAdapter struct {
	transfer primary.TransferService
	out      io.Writer
}

// NewBackupAdapter creates a new BackupAdapter.
func NewBackupAdapter(transfer primary.TransferService, out io.Writer) *BackupAdapter {
	return &BackupAdapter{transfer: transfer, out: out}
}

// Create writes a backup of the whole store to outPath, or to the
// adapter's output when outPath is empty.
func (a *BackupAdapter) Create(ctx context.Context, outPath string) error {
	data, err := a.transfer.CreateBackup(ctx)
	if err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	return writeOrPrint(ctx, a.transfer, a.out, outPath, data, "backup")
}

// Restore reads a backup document and writes it into the store.
func (a *BackupAdapter) Restore(ctx context.Context, path string, mode primary.RestoreMode) (*primary.RestoreReport, error) {
	data, err := a.transfer.ReadDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	report, err := a.transfer.RestoreBackup(ctx, data, primary.RestoreOptions{Mode: mode})
	if report != nil {
		a.printReport(report)
	}
	if err != nil {
		return report, fmt.Errorf("failed to restore %s: %w", path, err)
	}
	return report, nil
}

func (a *BackupAdapter) printReport(r *primary.RestoreReport) {
	mark := okMark
	if len(r.Failures) > 0 {
		mark = warnMark
	}
	fmt.Fprintf(a.out, "%s Restore (%s): %d episode(s), %d campaign(s) restored\n",
		mark, r.Mode, r.EpisodesRestored, r.CampaignsRestored)
	for _, f := range r.Failures {
		fmt.Fprintf(a.out, "  %s %s %s: %v\n", failMark, f.Kind, f.ID, f.Err)
	}
}
