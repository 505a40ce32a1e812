package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/ports/secondary"
)

// DiagnosticsAdapter renders storage health checks.
type DiagnosticsAdapter struct {
	service primary.DiagnosticsService
	out     io.Writer
}

// NewDiagnosticsAdapter creates a new DiagnosticsAdapter.
func NewDiagnosticsAdapter(service primary.DiagnosticsService, out io.Writer) *DiagnosticsAdapter {
	return &DiagnosticsAdapter{service: service, out: out}
}

// Doctor runs every check. In quiet mode only failures are printed.
func (a *DiagnosticsAdapter) Doctor(ctx context.Context, quiet bool) (*primary.DiagnosticsReport, error) {
	report, err := a.service.CheckConnectivity(ctx)
	if err != nil {
		return nil, err
	}
	a.render(report, quiet)
	return report, nil
}

// OpenFailure reports storage that could not be opened at all as a failed
// connection check.
func (a *DiagnosticsAdapter) OpenFailure(dbPath string, err error, quiet bool) *primary.DiagnosticsReport {
	check := primary.CheckResult{Name: "connection", Detail: err.Error()}
	var se *secondary.StorageError
	if errors.As(err, &se) {
		check.Hint = se.Hint()
	}
	report := &primary.DiagnosticsReport{DBPath: dbPath, Checks: []primary.CheckResult{check}}
	a.render(report, quiet)
	return report
}

func (a *DiagnosticsAdapter) render(report *primary.DiagnosticsReport, quiet bool) {
	if !quiet {
		fmt.Fprintf(a.out, "Database: %s\n\n", report.DBPath)
	}
	for _, c := range report.Checks {
		if c.OK {
			if !quiet {
				fmt.Fprintf(a.out, "  %s %-18s %s\n", okMark, c.Name, c.Detail)
			}
			continue
		}
		fmt.Fprintf(a.out, "  %s %-18s %s\n", failMark, c.Name, c.Detail)
		if c.Hint != "" {
			fmt.Fprintf(a.out, "      hint: %s\n", c.Hint)
		}
	}

	if !quiet {
		fmt.Fprintln(a.out)
		if report.OK() {
			fmt.Fprintf(a.out, "%s Storage is healthy\n", okMark)
		} else {
			fmt.Fprintf(a.out, "%s Storage has problems\n", failMark)
		}
	}
}
