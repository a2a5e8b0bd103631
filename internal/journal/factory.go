package journal

import (
	"fmt"
	"os"
	"path/filepath"

	"lazymaint/internal/config"
	"lazymaint/internal/maint"
)

// FromConfig creates a Journal implementation from config.
func FromConfig(cfg config.JournalConfig) (maint.Journal, error) {
	switch cfg.Type {
	case "", "none":
		return maint.NopJournal{}, nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite journal requires data_dir to be set")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
		return NewSQLiteJournal(filepath.Join(cfg.DataDir, "lazymaint-journal.db"))
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
}
