package launcher

import (
	"io"
	"log/slog"
)

// Config is the compile-time policy of a launcher run.
// It is baked into the launcher stub when it is built and never changes at run time.
type Config struct {
	// DebugLogging enables debug-level diagnostics on the error stream.
	DebugLogging bool

	// UseTempDirectory places the working directory under the OS temp root.
	// If disabled (or no temp root can be obtained), the working directory
	// is created beside the launcher executable.
	UseTempDirectory bool

	// InMemoryExecution is reserved: running the target executable without
	// touching disk is declared but not implemented. Runs requesting it are
	// rejected with ErrInMemoryExecution.
	InMemoryExecution bool
}

// NewLogger returns the logger used for all launcher diagnostics.
// All output is plain text on w; cfg.DebugLogging selects the level.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.DebugLogging {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
