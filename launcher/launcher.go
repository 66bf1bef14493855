// Package launcher implements the self-extraction run: it pulls the embedded
// resources out of a provider, unpacks them into a working directory, starts
// the target executable and removes every extracted file afterwards.
package launcher

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maja42/sfx/internal"
)

// Provider produces embedded resources by identifier.
// It decouples the pipeline from how the host executable stores its
// resource table.
type Provider interface {
	// Resource returns a reader for the resource with the given identifier,
	// together with its size in bytes. Unknown identifiers are errors.
	Resource(id uint32) (io.Reader, int64, error)
}

// ErrInMemoryExecution is returned by Run when the configuration requests
// in-memory execution, which is declared but not implemented.
var ErrInMemoryExecution = errors.New("in-memory execution is not supported")

const (
	appArchiveName     = "app.zip"
	runtimeArchiveName = "runtime.zip"
)

// Run performs one full launcher run:
// it resolves and creates the working directory, drops the two archives and
// the target executable into it, unpacks the archives, starts the target and
// waits for it to exit, and finally removes the working directory tree.
//
// Failures of individual steps are reported on the logger and the run
// continues with whatever partial state exists. The only fatal condition is
// a working directory that cannot be created; Run then returns a non-nil
// error before any extraction is attempted.
func Run(cfg Config, provider Provider, log *slog.Logger) error {
	if cfg.InMemoryExecution {
		return ErrInMemoryExecution
	}

	exeName, err := readExecutableName(provider)
	if err != nil {
		log.Error("cannot read executable name resource",
			"id", internal.IDExecutableName, "error", err)
		exeName = defaultDirToken
	}

	workDir, err := resolveWorkDir(cfg, exeName)
	if err != nil {
		return fmt.Errorf("create working directory: %w", err)
	}
	log.Debug("working directory ready", "path", workDir)

	appZip := filepath.Join(workDir, appArchiveName)
	runtimeZip := filepath.Join(workDir, runtimeArchiveName)

	for _, drop := range []struct {
		id   uint32
		path string
	}{
		{internal.IDAppContents, appZip},
		{internal.IDRuntimeContents, runtimeZip},
		{internal.IDAppExecutable, filepath.Join(workDir, exeName)},
	} {
		if err := writeResource(provider, drop.id, drop.path); err != nil {
			log.Error("resource extraction failed", "id", drop.id, "path", drop.path, "error", err)
		} else {
			log.Debug("resource extracted", "id", drop.id, "path", drop.path)
		}
	}

	for _, archive := range []string{appZip, runtimeZip} {
		if err := extractArchive(archive, workDir, log); err != nil {
			log.Error("archive extraction failed", "archive", archive, "error", err)
		}
	}

	if err := runTarget(workDir, exeName, log); err != nil {
		log.Error("cannot launch target executable", "name", exeName, "error", err)
	}

	removePath(workDir, log)
	log.Debug("cleanup completed")
	return nil
}

// readExecutableName returns the file name of the target executable,
// stored as a string resource.
func readExecutableName(provider Provider) (string, error) {
	r, size, err := provider.Resource(internal.IDExecutableName)
	if err != nil {
		return "", err
	}
	if size == 0 {
		return "", errors.New("resource is empty")
	}
	name, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(name), nil
}

// writeResource writes the raw bytes of the given resource verbatim to dest,
// creating or truncating the file.
func writeResource(provider Provider, id uint32, dest string) error {
	r, size, err := provider.Resource(id)
	if err != nil {
		return err
	}
	if size == 0 {
		return errors.New("resource is empty")
	}

	// 0755 because the target executable must be runnable on unix;
	// irrelevant for the archives.
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return err
	}
	written, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if written != size {
		return fmt.Errorf("incomplete write: %d of %d bytes", written, size)
	}
	return nil
}
