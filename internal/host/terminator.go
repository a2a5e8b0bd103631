package host

import (
	"os"

	"lazymaint/internal/maint"
)

// ProcessTerminator forcibly ends the host process. Restore relies on
// this so the host's in-memory settings cannot be written back over
// the just-restored files during a normal shutdown. Platform-specific
// kill strategies are tried first (terminator_unix.go,
// terminator_windows.go); a hard exit is the universal fallback.
type ProcessTerminator struct {
	logger maint.Logger
}

func NewProcessTerminator(logger maint.Logger) *ProcessTerminator {
	return &ProcessTerminator{logger: logger}
}

// Terminate never returns.
func (t *ProcessTerminator) Terminate() {
	t.logger.Info("force-terminating host process")
	t.platformKill()
	os.Exit(1)
}

var _ maint.Terminator = (*ProcessTerminator)(nil)
