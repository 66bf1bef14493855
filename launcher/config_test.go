package launcher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(Config{}, &buf)
	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.Error("reported", "path", "x")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "reported")
}

func TestNewLogger_debug(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(Config{DebugLogging: true}, &buf)
	log.Debug("verbose")
	assert.Contains(t, buf.String(), "verbose")
}
