package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lazymaint/internal/config"
	"lazymaint/internal/destination"
	"lazymaint/internal/host"
	"lazymaint/internal/journal"
	"lazymaint/internal/maint"
)

// App is the wiring layer between the CLI and MaintService. It
// constructs all dependencies from config, exposes high-level
// operations that accept raw string paths, and manages resource
// lifecycles on Close.
type App struct {
	cfg     *config.Config
	paths   maint.PathConfig
	journal maint.Journal
	service *maint.MaintService
	logger  maint.Logger
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "Backup", "Restore") and
// tags every log line. The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	paths := maint.DefaultPathConfig(cfg.Home)

	slogger, logFile, err := newLogger(paths.LogDir, operation)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	jnl, err := journal.FromConfig(cfg.Journal)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	svc := maint.NewMaintService(
		paths,
		jnl,
		logger,
		maint.RealClock{},
		maint.UUIDGenerator{},
		host.ConsoleNotifier{},
		host.NewProcessTerminator(logger),
	)

	return &App{
		cfg:     cfg,
		paths:   paths,
		journal: jnl,
		service: svc,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// Service returns the underlying maintenance service.
func (a *App) Service() *maint.MaintService { return a.service }

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Paths returns the resolved logical roots.
func (a *App) Paths() maint.PathConfig { return a.paths }

// Clean runs the routine cache clean with the configured budget.
func (a *App) Clean(silent bool) maint.OpResult {
	return a.service.Clean(a.cfg.AutoCleanMiB, a.cfg.LogName, silent)
}

// HardClean clears all caches and the texture database, then
// terminates the host.
func (a *App) HardClean(progress maint.ProgressSink) maint.OpResult {
	return a.service.HardClean(a.cfg.LogName, progress)
}

// Reset performs a factory reset, sparing only this tool's own addon
// directory.
func (a *App) Reset(progress maint.ProgressSink) maint.OpResult {
	return a.service.Reset(a.cfg.AddonID, progress)
}

// Backup archives the configuration tree to the given destination
// string (directory path, configured destination name, or s3://
// bucket URL) under the given archive name ("" for a timestamped
// default). overwriteCheck is consulted when the name already exists
// at the destination.
func (a *App) Backup(destStr, name string, overwriteCheck maint.ConfirmPrompt, progress maint.ProgressSink) (maint.OpResult, error) {
	dest, err := destination.FromString(destStr, a.cfg)
	if err != nil {
		return maint.OpResult{}, fmt.Errorf("resolving destination: %w", err)
	}

	if name == "" {
		name = a.service.DefaultBackupName()
	} else if !strings.HasSuffix(name, ".zip") {
		name += ".zip"
	}

	exists, err := dest.Exists(name)
	if err != nil {
		return maint.OpResult{}, fmt.Errorf("checking destination: %w", err)
	}
	if exists {
		ok, err := overwriteCheck.Confirm("File exists",
			fmt.Sprintf("%s already exists at the destination. Overwrite it?", name))
		if err != nil {
			return maint.OpResult{}, err
		}
		if !ok {
			return maint.OpResult{Outcome: maint.Cancelled, Message: "Backup cancelled."}, nil
		}
	}

	return a.service.Backup(dest, name, progress), nil
}

// Restore replaces the live configuration tree from a backup archive
// addressed by an opaque source string (local path, mounted share
// path, or s3:// URL ending in the archive name).
func (a *App) Restore(srcStr string, progress maint.ProgressSink) (maint.OpResult, error) {
	dir, name := splitObjectString(srcStr)
	if name == "" {
		return maint.OpResult{}, fmt.Errorf("source does not name an archive: %s", srcStr)
	}

	src, err := destination.FromString(dir, a.cfg)
	if err != nil {
		return maint.OpResult{}, fmt.Errorf("resolving source: %w", err)
	}

	return a.service.Restore(src, name, progress), nil
}

// History returns the most recent journal entries, newest first.
func (a *App) History(limit int) ([]maint.JournalEntry, error) {
	return a.journal.Recent(limit)
}

// Close releases the journal and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.journal.Close(); err != nil {
		firstErr = fmt.Errorf("closing journal: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// splitObjectString splits an opaque object address into its container
// and object name parts.
func splitObjectString(raw string) (string, string) {
	if strings.HasPrefix(raw, "s3://") {
		i := strings.LastIndex(raw, "/")
		if i < len("s3://") {
			return raw, ""
		}
		return raw[:i], raw[i+1:]
	}
	dir, base := filepath.Split(raw)
	if dir == "" {
		dir = "."
	}
	return filepath.Clean(dir), base
}
