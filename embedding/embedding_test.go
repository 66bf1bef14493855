package embedding

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/maja42/sfx"
	"github.com/maja42/sfx/internal"
	"github.com/stretchr/testify/assert"
)

func launcherResources() map[uint32]io.ReadSeeker {
	return map[uint32]io.ReadSeeker{
		internal.IDExecutableName:  strings.NewReader("app.exe"),
		internal.IDAppContents:     strings.NewReader("app archive bytes"),
		internal.IDRuntimeContents: strings.NewReader("runtime archive bytes"),
		internal.IDAppExecutable:   strings.NewReader("executable bytes"),
	}
}

func Test_buildTOC(t *testing.T) {
	toc, err := buildTOC(launcherResources())
	assert.NoError(t, err)
	assert.Len(t, toc, 4)

	// fixed embedding order
	assert.Equal(t, internal.TOC{
		internal.Resource{ID: internal.IDExecutableName, Size: 7},
		internal.Resource{ID: internal.IDAppContents, Size: 17},
		internal.Resource{ID: internal.IDRuntimeContents, Size: 21},
		internal.Resource{ID: internal.IDAppExecutable, Size: 16},
	}, toc)
}

func Test_verifyResourceSet(t *testing.T) {
	assert.NoError(t, verifyResourceSet(launcherResources()))

	missing := launcherResources()
	delete(missing, internal.IDRuntimeContents)
	assert.EqualError(t, verifyResourceSet(missing), "missing resource 102")

	extra := launcherResources()
	extra[9999] = strings.NewReader("stray")
	assert.EqualError(t, verifyResourceSet(extra), "unexpected resource count 5")
}

func TestEmbed(t *testing.T) {
	stub := "fake stub ~~MagicMarker for maja42/sfx/v1~~ trailing code"

	var out bytes.Buffer
	err := Embed(&out, strings.NewReader(stub), launcherResources(), nil)
	assert.NoError(t, err)

	data := out.Bytes()
	assert.True(t, bytes.HasPrefix(data, []byte(stub)))
	assert.Contains(t, out.String(), "app archive bytes")
	assert.Contains(t, out.String(), "runtime archive bytes")
	assert.Contains(t, out.String(), "executable bytes")
}

func TestEmbed_roundTrip(t *testing.T) {
	stub := "fake stub ~~MagicMarker for maja42/sfx/v1~~"

	file, err := os.CreateTemp("", "")
	assert.NoError(t, err)
	defer os.Remove(file.Name())

	err = Embed(file, strings.NewReader(stub), launcherResources(), nil)
	assert.NoError(t, err)
	assert.NoError(t, file.Close())

	res, err := sfx.OpenExe(file.Name())
	assert.NoError(t, err)
	defer res.Close()

	assert.Equal(t, 4, res.Count())

	name, err := io.ReadAll(res.Reader(internal.IDExecutableName))
	assert.NoError(t, err)
	assert.Equal(t, "app.exe", string(name))

	payload, err := io.ReadAll(res.Reader(internal.IDAppExecutable))
	assert.NoError(t, err)
	assert.Equal(t, "executable bytes", string(payload))
}

func TestEmbed_roundTrip_stubEndsInBoundaryByte(t *testing.T) {
	// a stub whose last byte equals the boundary's first byte must still
	// produce a readable launcher
	stub := "fake stub ~~MagicMarker for maja42/sfx/v1~~ trailing code#"

	file, err := os.CreateTemp("", "")
	assert.NoError(t, err)
	defer os.Remove(file.Name())

	err = Embed(file, strings.NewReader(stub), launcherResources(), nil)
	assert.NoError(t, err)
	assert.NoError(t, file.Close())

	res, err := sfx.OpenExe(file.Name())
	assert.NoError(t, err)
	defer res.Close()

	assert.Equal(t, 4, res.Count())

	name, err := io.ReadAll(res.Reader(internal.IDExecutableName))
	assert.NoError(t, err)
	assert.Equal(t, "app.exe", string(name))
}

func TestEmbed_incompatibleStub(t *testing.T) {
	var out bytes.Buffer
	err := Embed(&out, strings.NewReader("no marker here"), launcherResources(), nil)
	assert.EqualError(t, err, "verify stub: incompatible (magic string not found)")
}

func TestEmbed_alreadyEmbedded(t *testing.T) {
	var stub bytes.Buffer
	stub.WriteString("fake stub ~~MagicMarker for maja42/sfx/v1~~")
	assert.NoError(t, internal.WriteBoundary(&stub))

	var out bytes.Buffer
	err := Embed(&out, bytes.NewReader(stub.Bytes()), launcherResources(), nil)
	assert.EqualError(t, err, "verify stub: already contains embedded resources")
}
