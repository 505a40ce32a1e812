// Package wire provides dependency injection for the storyforge application.
// It creates singleton services with lazy initialization.
package wire

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	cliadapter "github.com/example/storyforge/internal/adapters/cli"
	"github.com/example/storyforge/internal/adapters/filesystem"
	"github.com/example/storyforge/internal/adapters/sqlite"
	"github.com/example/storyforge/internal/app"
	"github.com/example/storyforge/internal/config"
	"github.com/example/storyforge/internal/core/validation"
	"github.com/example/storyforge/internal/db"
	"github.com/example/storyforge/internal/logging"
	"github.com/example/storyforge/internal/ports/primary"
	"github.com/example/storyforge/internal/ports/secondary"
)

var (
	cfg    *config.Config
	logger = zap.NewNop()

	episodeService     primary.EpisodeService
	campaignService    primary.CampaignService
	snapshotService    primary.SnapshotService
	transferService    primary.TransferService
	diagnosticsService primary.DiagnosticsService
	settingsService    primary.SettingsService

	initErr error
	once    sync.Once
)

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	home, err := config.HomeDir()
	if err != nil {
		initErr = err
		return
	}

	cfg, err = config.LoadConfig(home)
	if err != nil {
		initErr = err
		return
	}

	logger, err = logging.New(logging.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		initErr = err
		logger = zap.NewNop()
		return
	}

	db.Configure(cfg.DBPath, logger)
	database, err := db.GetDB()
	if err != nil {
		initErr = err
		return
	}

	// Create repository adapters (secondary ports)
	stores := sqlite.NewStores(database)
	uow := sqlite.NewUnitOfWork(database)
	health := sqlite.NewHealthChecker(database)
	documents := filesystem.NewDocumentAdapter("")
	validator := validation.New()

	// Create services (primary ports implementation)
	settings := app.NewSettingsService(stores.Settings, primary.Settings{
		AutoSaveDelay: time.Duration(cfg.AutoSaveDelay),
		KeepAutoSaves: cfg.KeepAutoSaves,
	}, logger)
	episodes := app.NewEpisodeService(uow, stores, validator, settings, logger)
	campaigns := app.NewCampaignService(stores, validator, logger)

	settingsService = settings
	episodeService = episodes
	campaignService = campaigns
	snapshotService = app.NewSnapshotService(stores, logger)
	transferService = app.NewTransferService(app.TransferServiceDeps{
		EpisodeService:  episodes,
		CampaignService: campaigns,
		UnitOfWork:      uow,
		Stores:          stores,
		Documents:       documents,
		Validator:       validator,
		Retention:       settings,
		SchemaVersion:   db.SchemaVersion,
		Logger:          logger,
	})
	diagnosticsService = app.NewDiagnosticsService(health, uow, cfg.DBPath, db.SchemaVersion)

	logger.Debug("services initialized", zap.String("db_path", cfg.DBPath))
}

// mustInit initializes services and exits with recovery guidance on failure.
func mustInit() {
	once.Do(initServices)
	if initErr == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", initErr)
	var se *secondary.StorageError
	if errors.As(initErr, &se) {
		fmt.Fprintln(os.Stderr, se.Hint())
	}
	os.Exit(1)
}

// InitError returns the error, if any, from opening storage.
func InitError() error {
	once.Do(initServices)
	return initErr
}

// Config returns the loaded configuration.
func Config() *config.Config {
	mustInit()
	return cfg
}

// Logger returns the shared logger. It is a no-op logger until services
// have been initialized.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// DBPath returns the configured database path, falling back to the default.
func DBPath() string {
	once.Do(initServices)
	if cfg != nil {
		return cfg.DBPath
	}
	path, _ := db.GetDBPath()
	return path
}

// Shutdown closes the shared database connection.
func Shutdown() {
	if err := db.Close(); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}
	_ = logger.Sync()
}

// EpisodeService returns the singleton EpisodeService instance.
func EpisodeService() primary.EpisodeService {
	mustInit()
	return episodeService
}

// SettingsService returns the singleton SettingsService instance.
func SettingsService() primary.SettingsService {
	mustInit()
	return settingsService
}

// TransferService returns the singleton TransferService instance.
func TransferService() primary.TransferService {
	mustInit()
	return transferService
}

// FileWatcher returns a new watcher for episode documents.
func FileWatcher() *filesystem.FileWatcher {
	return filesystem.NewFileWatcher(Logger())
}

// EpisodeAdapter returns a new EpisodeAdapter writing to out.
// Each call creates a new adapter (adapters are stateless translators).
func EpisodeAdapter(out io.Writer) *cliadapter.EpisodeAdapter {
	mustInit()
	return cliadapter.NewEpisodeAdapter(episodeService, transferService, out)
}

// CampaignAdapter returns a new CampaignAdapter writing to out.
func CampaignAdapter(out io.Writer) *cliadapter.CampaignAdapter {
	mustInit()
	return cliadapter.NewCampaignAdapter(campaignService, transferService, out)
}

// SnapshotAdapter returns a new SnapshotAdapter writing to out.
func SnapshotAdapter(out io.Writer) *cliadapter.SnapshotAdapter {
	mustInit()
	return cliadapter.NewSnapshotAdapter(snapshotService, out)
}

// BackupAdapter returns a new BackupAdapter writing to out.
func BackupAdapter(out io.Writer) *cliadapter.BackupAdapter {
	mustInit()
	return cliadapter.NewBackupAdapter(transferService, out)
}

// SettingsAdapter returns a new SettingsAdapter writing to out.
func SettingsAdapter(out io.Writer) *cliadapter.SettingsAdapter {
	mustInit()
	return cliadapter.NewSettingsAdapter(settingsService, out)
}

// DiagnosticsAdapter returns a new DiagnosticsAdapter writing to out.
// Unlike the other adapters it does not exit when storage failed to open;
// the adapter reports the failure instead.
func DiagnosticsAdapter(out io.Writer) *cliadapter.DiagnosticsAdapter {
	once.Do(initServices)
	return cliadapter.NewDiagnosticsAdapter(diagnosticsService, out)
}
