package primary

import "context"

// DiagnosticsService defines the primary port for storage health checks.
type DiagnosticsService interface {
	// CheckConnectivity runs every storage check and reports each result.
	// It only returns an error if ctx is done.
	CheckConnectivity(ctx context.Context) (*DiagnosticsReport, error)
}

// DiagnosticsReport lists the outcome of each check in run order.
type DiagnosticsReport struct {
	DBPath string
	Checks []CheckResult
}

// OK reports whether every check passed.
func (r *DiagnosticsReport) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// CheckResult is the outcome of one diagnostic check.
type CheckResult struct {
	Name   string
	OK     bool
	Detail string
	Hint   string
}
