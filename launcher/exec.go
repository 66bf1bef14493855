package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
)

// runTarget starts the extracted target executable inside workDir and blocks
// until it exits. The child inherits the environment, receives no arguments
// and opens no console window; its exit code is observed but not propagated.
// The wait is unbounded.
func runTarget(workDir, exeName string, log *slog.Logger) error {
	path := filepath.Join(workDir, exeName)

	cmd := exec.Command(path)
	cmd.Dir = workDir
	hideWindow(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", path, err)
	}
	log.Debug("process launched", "path", path, "pid", cmd.Process.Pid)

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// the child ran and failed on its own; not a launch failure
			log.Debug("process exited", "path", path, "code", exitErr.ExitCode())
			return nil
		}
		return fmt.Errorf("wait for %s: %w", path, err)
	}
	log.Debug("process exited", "path", path, "code", 0)
	return nil
}
