//go:build !windows

package launcher

import "os/exec"

// hideWindow is a no-op outside of windows.
func hideWindow(*exec.Cmd) {}
