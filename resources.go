package sfx

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/maja42/sfx/internal"
)

// Resources represent the resource table embedded in a launcher executable:
// a set of immutable binary blobs addressed by integer identifier.
type Resources struct {
	exeFile *os.File
	offsets map[uint32]int64
	sizes   map[uint32]int64
}

// Open returns the resource table of the running executable.
func Open() (*Resources, error) {
	path, err := os.Executable()
	if err != nil {
		return nil, err
	}
	if p, err := filepath.EvalSymlinks(path); err == nil {
		// EvalSymlinks fails on Windows if the executable is located in the
		// remote SYSVOL volume from the domain controller.
		// It is therefore optional, any errors are ignored.
		path = p
	}
	return OpenExe(path)
}

// OpenExe returns the resource table of an arbitrary launcher executable.
func OpenExe(exePath string) (*Resources, error) {
	res := &Resources{}

	exe, err := os.Open(exePath)
	if err != nil {
		return nil, err
	}
	res.exeFile = exe
	dontClose := false
	defer func() {
		if !dontClose {
			_ = exe.Close()
		}
	}()

	// determine TOC location
	tocOffset := internal.SeekBoundary(exe)
	if tocOffset < 0 { // No resource table found
		dontClose = true
		return res, nil
	}
	nextBoundary := internal.SeekBoundary(exe)
	if nextBoundary < 0 {
		// first boundary was found, but the next one (indicating the end of TOC data) is missing.
		return nil, newTableErr("corrupt resource table (incomplete TOC)")
	}
	tocEndOffset := tocOffset + nextBoundary
	tocSize := int(nextBoundary) - internal.BoundarySize

	// read TOC
	if _, err := exe.Seek(tocOffset, io.SeekStart); err != nil {
		return nil, err
	}

	var jsonTOC = make([]byte, tocSize)
	if _, err := io.ReadFull(exe, jsonTOC); err != nil {
		return nil, err
	}

	var toc internal.TOC
	if err := json.Unmarshal(jsonTOC, &toc); err != nil {
		return nil, newTableErr("corrupt resource table (invalid TOC)")
	}

	// calc offsets
	res.offsets = make(map[uint32]int64, len(toc))
	res.sizes = make(map[uint32]int64, len(toc))
	offset := tocEndOffset
	for _, r := range toc {
		res.offsets[r.ID] = offset
		res.sizes[r.ID] = r.Size
		offset += r.Size
	}

	// find trailing boundary
	if _, err := exe.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}

	var trailer = make([]byte, internal.BoundarySize)
	if _, err := io.ReadFull(exe, trailer); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF { // offsets point outside executable (missing data?)
			return nil, newTableErr("corrupt resource table (offsets too large)")
		}
		return nil, err
	}
	if !internal.IsBoundary(trailer) {
		return nil, newTableErr("corrupt resource table (invalid offsets)")
	}

	dontClose = true
	return res, nil
}

// Close the executable containing the resource table.
// Close will return an error if it has already been called.
func (r *Resources) Close() error {
	return r.exeFile.Close()
}

// IDs returns the identifiers of all embedded resources.
func (r *Resources) IDs() []uint32 {
	if len(r.offsets) == 0 { // no resources
		return nil
	}
	l := make([]uint32, 0, len(r.offsets))
	for id := range r.offsets {
		l = append(l, id)
	}
	return l
}

// Count returns the number of embedded resources.
func (r *Resources) Count() int {
	return len(r.offsets)
}

// Reader groups basic methods available on embedded resources.
type Reader interface {
	io.ReadSeeker
	io.ReaderAt
	Size() int64
}

// Reader returns a reader for a given resource.
// Returns nil if no resource with that identifier exists.
func (r *Resources) Reader(id uint32) Reader {
	offset, ok := r.offsets[id]
	if !ok {
		return nil
	}
	return io.NewSectionReader(r.exeFile, offset, r.sizes[id])
}

// Size returns the size of a specific resource in bytes.
// Returns zero if no resource with that identifier exists.
func (r *Resources) Size(id uint32) int64 {
	return r.sizes[id]
}

// Offset returns the offset of a specific resource in bytes, in relation to the start of the launcher executable.
// Returns zero if no resource with that identifier exists.
func (r *Resources) Offset(id uint32) int64 {
	return r.offsets[id]
}

// Resource returns a reader and the size for the resource with the given
// identifier. Unknown identifiers are errors.
// This is the provider capability consumed by the launch pipeline.
func (r *Resources) Resource(id uint32) (io.Reader, int64, error) {
	rd := r.Reader(id)
	if rd == nil {
		return nil, 0, newTableErr("no resource with identifier %d", id)
	}
	return rd, r.sizes[id], nil
}
