package internal

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitBoundary(t *testing.T) {
	assert.Equal(t, BoundarySize, len(boundaryPart)*boundaryPartCount)

	assert.Len(t, boundary, len(boundaryPart)*boundaryPartCount)
	for i := 0; i < boundaryPartCount; i++ {
		b := boundary[i*len(boundaryPart):]
		assert.Equal(t, boundaryPart, b[:len(boundaryPart)])
	}
}

func TestIsBoundary(t *testing.T) {
	assert.True(t, IsBoundary(boundary[:]))

	assert.False(t, IsBoundary(boundary[1:]))

	moreBoundary := append(boundary, 0)
	assert.False(t, IsBoundary(moreBoundary))
}

func TestWriteBoundary(t *testing.T) {
	buf := new(bytes.Buffer)
	err := WriteBoundary(buf)
	assert.NoError(t, err)

	assert.Equal(t, len(boundaryPart)*boundaryPartCount, buf.Len())

	for i := 0; i < boundaryPartCount; i++ {
		b := buf.Bytes()[i*len(boundaryPart):]
		assert.Equal(t, boundaryPart, b[:len(boundaryPart)])
	}
}

type errWriter struct{}

func (errWriter) Write([]byte) (n int, err error) {
	return 0, errors.New("simulated error")
}

func TestWriteBoundary_writeError(t *testing.T) {
	err := WriteBoundary(errWriter{})
	assert.EqualError(t, err, "simulated error")
}

func TestSeekBoundary(t *testing.T) {
	// Create buffer:
	//	- random bytes (represents the launcher stub)
	//	- boundary
	//  - "table"
	//	- boundary
	//  - "payload"
	randomBytes := 50
	random := make([]byte, randomBytes)
	_, err := rand.Read(random)
	assert.NoError(t, err)

	buf := bytes.NewBuffer(random)
	buf.Write(boundary)
	buf.WriteString("table")
	buf.Write(boundary)
	buf.WriteString("payload")

	r := bytes.NewReader(buf.Bytes())

	// seek first occurrence:
	offset := SeekBoundary(r)
	assert.Equal(t, int64(randomBytes+len(boundary)), offset)

	txt := make([]byte, 5)
	_, err = r.Read(txt)
	assert.NoError(t, err)
	assert.Equal(t, txt, []byte("table"))

	// seek second occurrence:
	offset = SeekBoundary(r)
	assert.Equal(t, int64(len(boundary)), offset)

	content, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, content, []byte("payload"))

	// seek further:
	offset = SeekBoundary(r)
	assert.Equal(t, int64(-1), offset)
}

func TestSeekBoundary_noBoundary(t *testing.T) {
	randomBytes := 50
	random := make([]byte, randomBytes)
	_, err := rand.Read(random)
	assert.NoError(t, err)

	r := bytes.NewReader(random)

	offset := SeekBoundary(r)
	assert.Equal(t, int64(-1), offset)
}

func TestSeekPattern_partialMatchRestart(t *testing.T) {
	// a prefix of the pattern followed by unrelated data must not
	// count towards a later full match
	pattern := []byte("abc")
	r := bytes.NewReader([]byte("ab-abc-tail"))

	offset := SeekPattern(r, pattern)
	assert.Equal(t, int64(6), offset)

	rest, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, []byte("-tail"), rest)
}

func TestSeekPattern_overlappingPrefix(t *testing.T) {
	// a pattern preceded by its own leading byte(s) must still be found
	tests := []struct {
		pattern string
		input   string
		offset  int64
	}{
		{"aab", "aaab", 4},
		{"aab", "aaaaab", 6},
		{"~~a", "~~~a", 4},
		{"abab", "abaabab", 7},
	}
	for _, tt := range tests {
		r := bytes.NewReader([]byte(tt.input))
		assert.Equal(t, tt.offset, SeekPattern(r, []byte(tt.pattern)),
			"pattern %q in %q", tt.pattern, tt.input)
	}
}

func TestSeekBoundary_precedingBoundaryByte(t *testing.T) {
	// data ending in the boundary's first byte must not hide the boundary
	var buf bytes.Buffer
	buf.WriteString("stub code#")
	buf.Write(boundary)
	buf.WriteString("table")

	r := bytes.NewReader(buf.Bytes())

	offset := SeekBoundary(r)
	assert.Equal(t, int64(len("stub code#")+len(boundary)), offset)

	rest, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, []byte("table"), rest)
}
