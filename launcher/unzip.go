package launcher

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// extractArchive unpacks the zip archive at zipPath into dest.
// An archive without entries is an error, and the first entry that cannot be
// extracted aborts the whole archive. Once extraction ends - successfully or
// not - the consumed archive file is deleted.
func extractArchive(zipPath, dest string, log *slog.Logger) error {
	defer removePath(zipPath, log)

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	if len(zr.File) == 0 {
		return fmt.Errorf("archive %s contains no entries", zipPath)
	}

	for _, entry := range zr.File {
		if err := extractEntry(entry, dest); err != nil {
			return err
		}
		log.Debug("extracted", "entry", entry.Name)
	}
	return nil
}

func extractEntry(entry *zip.File, dest string) error {
	path := filepath.Join(dest, filepath.FromSlash(entry.Name))

	// directory markers end in a path separator
	if strings.HasSuffix(entry.Name, "/") || strings.HasSuffix(entry.Name, `\`) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", filepath.Dir(path), err)
	}

	r, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", entry.Name, err)
	}
	defer r.Close()

	mode := entry.Mode().Perm()
	if mode == 0 {
		mode = fs.FileMode(0o644)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("extract %s: %w", path, err)
	}
	return f.Close()
}
