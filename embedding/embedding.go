package embedding

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maja42/sfx/internal"
)

const compatibleVersion = "maja42/sfx/v1"

// PrintlnFunc is used for logging the embedding progress.
type PrintlnFunc func(format string, args ...interface{})

// Embed embeds the launcher resources into the stub executable.
//
// out receives the stub executable including the complete resource table.
//
// stub reads from the launcher stub that should be augmented.
// Embed verifies that the stub is compatible with this version of sfx
// by searching for the magic marker-string (compiled into every stub that imports sfx).
// Embed fails if the stub is incompatible or already contains a resource table.
//
// resources maps resource identifiers to readers for their content.
// Exactly the four launcher identifiers must be present: the executable name
// string, the application archive, the runtime archive and the target
// executable binary.
//
// logger (optional) is used to report the progress during embedding.
//
// Note that all ReadSeekers are seeked to their start before usage,
// meaning the entirety of readable content is embedded. Use io.SectionReader to avoid this.
func Embed(out io.Writer, stub io.ReadSeeker, resources map[uint32]io.ReadSeeker, logger PrintlnFunc) error {
	if logger == nil {
		logger = func(string, ...interface{}) {}
	}

	if err := verifyResourceSet(resources); err != nil {
		return fmt.Errorf("verify resources: %w", err)
	}
	if err := verifyStub(stub); err != nil {
		return fmt.Errorf("verify stub: %w", err)
	}

	toc, err := buildTOC(resources)
	if err != nil {
		return fmt.Errorf("build TOC: %w", err)
	}
	jsonTOC, err := json.Marshal(toc)
	if err != nil {
		return fmt.Errorf("marshal TOC: %w", err)
	}

	// Stub
	logger("Writing launcher stub")
	if _, err := io.Copy(out, stub); err != nil {
		return fmt.Errorf("copy stub: %w", err)
	}
	// Boundary
	if err := internal.WriteBoundary(out); err != nil {
		return err
	}
	// TOC
	logger("Adding TOC (%d bytes)", len(jsonTOC))
	if _, err := out.Write(jsonTOC); err != nil {
		return fmt.Errorf("write TOC: %w", err)
	}
	// Boundary
	if err := internal.WriteBoundary(out); err != nil {
		return err
	}
	// Resources
	for _, res := range toc {
		logger("Adding resource %d (%d bytes)", res.ID, res.Size)
		if _, err := io.Copy(out, resources[res.ID]); err != nil {
			return fmt.Errorf("write resource %d: %w", res.ID, err)
		}
	}
	// Boundary
	if err := internal.WriteBoundary(out); err != nil {
		return err
	}
	return nil
}

// EmbedFiles embeds the given files into the stub executable.
//
// resources maps resource identifiers to the respective file's filepath.
//
// See Embed for more information.
func EmbedFiles(out io.Writer, stub io.ReadSeeker, resources map[uint32]string, logger PrintlnFunc) error {
	reader := make(map[uint32]io.ReadSeeker, len(resources))

	for id, path := range resources {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open resource %d (%q): %w", id, path, err)
		}
		//goland:noinspection ALL
		defer file.Close()
		reader[id] = file
	}
	return Embed(out, stub, reader, logger)
}

// verifyResourceSet ensures that exactly the four launcher resources are given.
func verifyResourceSet(resources map[uint32]io.ReadSeeker) error {
	for _, id := range internal.LauncherIDs {
		if _, ok := resources[id]; !ok {
			return fmt.Errorf("missing resource %d", id)
		}
	}
	if len(resources) != len(internal.LauncherIDs) {
		return fmt.Errorf("unexpected resource count %d", len(resources))
	}
	return nil
}

// verifyStub ensures that the stub executable is compatible.
// The reader is seeked to the beginning afterwards.
func verifyStub(stub io.ReadSeeker) error {
	// Rewind seeker to start-of-executable (just in case)
	if _, err := stub.Seek(0, io.SeekStart); err != nil {
		return err
	}

	// Check if the stub executable is compatible.
	// Compatible stubs are importing 'sfx' in the correct version,
	// causing a marker-string to be present in the binary.
	// String-replace is used to ensure the marker is not present in the packer-executable.
	marker := "~~MagicMarker for XXX~~"
	marker = strings.ReplaceAll(marker, "XXX", compatibleVersion)

	offset := internal.SeekPattern(stub, []byte(marker))
	if offset == -1 { // not a go executable, or does not import correct library(-version)
		return errors.New("incompatible (magic string not found)")
	}

	offset = internal.SeekBoundary(stub)
	if offset != -1 {
		return errors.New("already contains embedded resources")
	}

	if _, err := stub.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return nil
}

// buildTOC returns the TOC (table-of-contents) for embedding the given data.
// Entries are listed in the fixed launcher order, so the resulting executable
// does not depend on map iteration.
// All resources are seeked to the beginning afterwards.
func buildTOC(resources map[uint32]io.ReadSeeker) (internal.TOC, error) {
	toc := make(internal.TOC, 0, len(resources))

	for _, id := range internal.LauncherIDs {
		size, err := getSize(resources[id])
		if err != nil {
			return nil, fmt.Errorf("resource %d: %w", id, err)
		}
		toc = append(toc, internal.Resource{
			ID:   id,
			Size: size,
		})
	}
	return toc, nil
}

// getSize returns the size of the readable content.
// The reader is seeked to the beginning afterwards.
func getSize(r io.ReadSeeker) (int64, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}
