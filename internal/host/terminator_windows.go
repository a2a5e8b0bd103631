//go:build windows

package host

import (
	"os"
	"os/exec"
	"strconv"
)

// platformKill uses taskkill, which reliably takes down the whole
// process tree on Windows where a plain exit can leave child processes
// holding locks on the files we just restored.
func (t *ProcessTerminator) platformKill() {
	cmd := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(os.Getpid()))
	if err := cmd.Run(); err != nil {
		t.logger.Debug("taskkill failed", "error", err)
	}
}
