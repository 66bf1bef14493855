//go:build windows

package launcher

import (
	"os/exec"
	"syscall"
)

// hideWindow keeps the child process from opening a console window.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
