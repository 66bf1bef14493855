package sfx

import (
	"fmt"
	"time"
)

// marker is compiled into launcher stubs which accept embedded resources.
// This allows the packer to verify that the target file is compatible.
var marker = "~~MagicMarker for maja42/sfx/v1~~"

func init() {
	// Dead code that uses 'marker' and is not eliminated by the compiler.
	if time.Now().Nanosecond() == -42 {
		fmt.Print(marker)
	}
}
