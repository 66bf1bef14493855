package internal

// Resource identifiers understood by the launcher.
// The packer embeds exactly these four entries; the launch pipeline
// requests them back by ID.
const (
	IDExecutableName  uint32 = 100 // string: file name of the target executable
	IDAppContents     uint32 = 101 // zip archive: application payload
	IDRuntimeContents uint32 = 102 // zip archive: bundled runtime
	IDAppExecutable   uint32 = 103 // binary: the target executable itself
)

// LauncherIDs lists the four identifiers in embedding order.
var LauncherIDs = []uint32{IDExecutableName, IDAppContents, IDRuntimeContents, IDAppExecutable}

// TOC (=table of content) lists all resources embedded in a launcher executable.
// The order of entries in the TOC reflects the order of the resource data afterwards.
// The TOC is embedded as json prior to the first resource, guarded by a boundary byte-pattern on both sides.
type TOC []Resource

// Resource represents a single embedded resource.
type Resource struct {
	ID   uint32 // Resource identifier
	Size int64  // Resource size in bytes
}
