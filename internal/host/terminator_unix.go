//go:build unix

package host

import (
	"os"
	"syscall"
)

// platformKill sends SIGKILL to the current process group so neither
// this process nor an embedded host runtime gets a chance to flush
// state on the way down. The os.Exit fallback in Terminate covers the
// (unlikely) case where the signal is not delivered.
func (t *ProcessTerminator) platformKill() {
	if err := syscall.Kill(os.Getpid(), syscall.SIGKILL); err != nil {
		t.logger.Debug("sigkill failed", "error", err)
	}
}
