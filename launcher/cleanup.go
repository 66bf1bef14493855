package launcher

import (
	"log/slog"
	"os"
)

// removePath deletes the file or directory tree at path, if it exists.
// Deletion is best-effort: problems are reported on the logger and
// swallowed. Calling it on a path that does not exist is a no-op.
func removePath(path string, log *slog.Logger) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return
		}
		log.Error("cannot inspect path for deletion", "path", path, "error", err)
		return
	}
	if err := os.RemoveAll(path); err != nil {
		log.Error("deletion failed", "path", path, "error", err)
		return
	}
	log.Debug("deleted", "path", path)
}
