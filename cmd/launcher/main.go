package main

import (
	"io"
	"os"

	"github.com/maja42/sfx"
	"github.com/maja42/sfx/launcher"
)

// Build-time policy. Changing it means rebuilding the launcher stub.
var config = launcher.Config{
	DebugLogging:      false,
	UseTempDirectory:  true,
	InMemoryExecution: false, // reserved, not implemented
}

// unavailableTable stands in when the resource table of the own executable
// cannot be read. The run then walks the regular pipeline and reports a
// failure for every resource instead of aborting outright.
type unavailableTable struct{ err error }

func (u unavailableTable) Resource(uint32) (io.Reader, int64, error) {
	return nil, 0, u.err
}

func main() {
	log := launcher.NewLogger(config, os.Stderr)

	var provider launcher.Provider
	res, err := sfx.Open()
	if err != nil {
		log.Error("cannot read embedded resource table", "error", err)
		provider = unavailableTable{err}
	} else {
		defer res.Close()
		provider = res
	}

	if err := launcher.Run(config, provider, log); err != nil {
		log.Error("run aborted", "error", err)
		os.Exit(1)
	}
}
