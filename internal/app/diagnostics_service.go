package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/ports/secondary"
)

const probeSettingsID = "diagnostics-probe"

// errProbeRollback discards the probe transaction after a successful round trip.
var errProbeRollback = errors.New("probe rollback")

// DiagnosticsServiceImpl implements the DiagnosticsService interface.
type DiagnosticsServiceImpl struct {
	health        secondary.HealthChecker
	uow           secondary.UnitOfWork
	dbPath        string
	schemaVersion int
	now           func() time.Time
}

// NewDiagnosticsService creates a new DiagnosticsService with injected dependencies.
func NewDiagnosticsService(health secondary.HealthChecker, uow secondary.UnitOfWork, dbPath string, schemaVersion int) *DiagnosticsServiceImpl {
	return &DiagnosticsServiceImpl{
		health:        health,
		uow:           uow,
		dbPath:        dbPath,
		schemaVersion: schemaVersion,
		now:           time.Now,
	}
}

// CheckConnectivity runs the connection, schema, write probe and integrity
// checks in order. Every check runs even if an earlier one fails.
func (s *DiagnosticsServiceImpl) CheckConnectivity(ctx context.Context) (*primary.DiagnosticsReport, error) {
	report := &primary.DiagnosticsReport{DBPath: s.dbPath}

	checks := []struct {
		name string
		run  func(context.Context) (string, error)
	}{
		{"connection", s.checkConnection},
		{"schema version", s.checkSchema},
		{"read/write probe", s.checkProbe},
		{"integrity", s.checkIntegrity},
	}

	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		detail, err := c.run(ctx)
		report.Checks = append(report.Checks, checkResult(c.name, detail, err))
	}

	return report, nil
}

func (s *DiagnosticsServiceImpl) checkConnection(ctx context.Context) (string, error) {
	if err := s.health.Ping(ctx); err != nil {
		return "", err
	}
	return "database reachable", nil
}

func (s *DiagnosticsServiceImpl) checkSchema(ctx context.Context) (string, error) {
	version, err := s.health.SchemaVersion(ctx)
	if err != nil {
		return "", err
	}
	if version != s.schemaVersion {
		return "", fmt.Errorf("schema at version %d, expected %d", version, s.schemaVersion)
	}
	return fmt.Sprintf("version %d", version), nil
}

func (s *DiagnosticsServiceImpl) checkProbe(ctx context.Context) (string, error) {
	payload := []byte(fmt.Sprintf(`{"probe":%d}`, s.now().UnixNano()))

	err := s.uow.Do(ctx, func(ctx context.Context, stores secondary.Stores) error {
		if err := stores.Settings.Put(ctx, &secondary.SettingsRecord{
			ID:        probeSettingsID,
			Data:      payload,
			UpdatedAt: s.now(),
		}); err != nil {
			return err
		}

		got, err := stores.Settings.Get(ctx, probeSettingsID)
		if err != nil {
			return err
		}
		if got == nil || !bytes.Equal(got.Data, payload) {
			return errors.New("probe record did not read back")
		}

		if err := stores.Settings.Delete(ctx, probeSettingsID); err != nil {
			return err
		}
		return errProbeRollback
	})
	if !errors.Is(err, errProbeRollback) {
		if err == nil {
			err = errors.New("probe transaction committed unexpectedly")
		}
		return "", err
	}
	return "write, read and delete succeeded", nil
}

func (s *DiagnosticsServiceImpl) checkIntegrity(ctx context.Context) (string, error) {
	if err := s.health.QuickCheck(ctx); err != nil {
		return "", err
	}
	return "quick_check ok", nil
}

func checkResult(name, detail string, err error) primary.CheckResult {
	if err == nil {
		return primary.CheckResult{Name: name, OK: true, Detail: detail}
	}

	res := primary.CheckResult{Name: name, Detail: err.Error()}
	var se *secondary.StorageError
	if errors.As(err, &se) {
		res.Hint = se.Hint()
	}
	return res
}

// Ensure DiagnosticsServiceImpl implements the interface.
var _ primary.DiagnosticsService = (*DiagnosticsServiceImpl)(nil)
