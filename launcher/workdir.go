package launcher

import (
	"os"
	"path/filepath"
	"strings"
)

// defaultDirToken names the working directory when the executable name
// sanitizes to nothing.
const defaultDirToken = "app"

// sanitizeDirName derives a directory name from the target executable's file
// name: the extension is stripped and every character that is not
// alphanumeric, '-' or '_' becomes '_'.
func sanitizeDirName(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))

	var b strings.Builder
	b.Grow(len(name))
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z',
			ch >= 'A' && ch <= 'Z',
			ch >= '0' && ch <= '9',
			ch == '-', ch == '_':
			b.WriteRune(ch)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return defaultDirToken
	}
	return b.String()
}

// resolveWorkDir computes the working directory for the given executable
// name and creates it. Directory creation failure is the one fatal error of
// a launcher run.
func resolveWorkDir(cfg Config, exeName string) (string, error) {
	dir := filepath.Join(workDirParent(cfg), sanitizeDirName(exeName))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// workDirParent prefers the OS temp root; when that is unavailable (or the
// policy disables it), the directory containing the launcher executable is
// used instead.
func workDirParent(cfg Config) string {
	if cfg.UseTempDirectory {
		if tmp := os.TempDir(); tmp != "" {
			return tmp
		}
	}
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	return os.TempDir()
}
