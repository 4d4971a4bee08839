package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/xvierd/lifegame-cli/internal/adapters/git"
	"github.com/xvierd/lifegame-cli/internal/adapters/notification"
	"github.com/xvierd/lifegame-cli/internal/adapters/storage"
	"github.com/xvierd/lifegame-cli/internal/config"
	"github.com/xvierd/lifegame-cli/internal/ports"
	"github.com/xvierd/lifegame-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config      *config.Config
	storage     ports.Storage
	progression *services.ProgressionService
	desktop     *notification.Notifier
	archiver    ports.Archiver
	logger      *slog.Logger
	logFile     io.Closer
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
// Console notifications go to errOut so stdout only carries command output.
func initializeServices(ctx context.Context, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	var err error
	var configErr error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		configErr = err
		app.config = config.DefaultConfig()
		if err := app.config.ResolvePaths(); err != nil {
			return fmt.Errorf("failed to resolve default paths: %w", err)
		}
	}

	// Initialize logging
	lc, err := resolveLogConfig(logLevelFlag, logFileFlag, app.config)
	if err != nil {
		return err
	}
	app.logger = lc.newLogger()
	if lc.logFile != nil {
		app.logFile = lc.logFile
	}
	if configErr != nil {
		app.logger.Warn("using default configuration", "error", configErr)
	}

	catalog, err := app.config.Catalog()
	if err != nil {
		return err
	}

	// Initialize notifiers
	app.desktop = notification.New(&app.config.Notifications)
	app.desktop.SetLogger(app.logger)

	// Determine database path
	if dbPath == "" {
		dbPath = config.GetDBPath(app.config)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Initialize storage
	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.logger.Debug("storage opened", "path", dbPath)

	app.archiver = git.NewArchiver(app.config.Backup.Dir, app.config.Backup.Git)

	// Initialize services
	app.progression = services.NewProgressionService(app.storage.State())
	app.progression.SetLogger(app.logger)
	app.progression.SetCatalog(catalog)
	app.progression.SetNotifier(cliNotifier(errOut))

	if err := app.progression.Load(ctx); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	return nil
}

// cliNotifier prints notifications to w and forwards celebrations to the
// desktop. JSON output keeps stdout clean, so only the desktop is used then.
func cliNotifier(w io.Writer) ports.Notifier {
	if jsonOutput {
		return notification.Fanout{app.desktop}
	}
	return notification.Fanout{notification.NewConsole(w, app.config.Theme), app.desktop}
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.storage != nil {
		err = app.storage.Close()
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
	}
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
