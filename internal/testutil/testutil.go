// Package testutil provides helpers for building archive and texture
// fixtures in tests.
//
// The helpers assemble raw bytes directly so that tests can produce both
// valid and deliberately corrupt inputs without going through the codecs
// under test.
package testutil

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// RawEntry describes one directory record written by RawArchive.
type RawEntry struct {
	// Path is written verbatim into the 56-byte path field (truncated if longer).
	Path string

	// Data is the payload. It is appended to the payload region unless
	// Pos/Size override the recorded location.
	Data []byte

	// Pos and Size, when non-zero, replace the computed record values.
	Pos  uint32
	Size uint32
}

// RawArchive assembles a PACK archive from entries, in order.
func RawArchive(entries ...RawEntry) []byte {
	const header = 12
	payload := 0
	for _, e := range entries {
		payload += len(e.Data)
	}
	dirOff := header + payload
	out := make([]byte, dirOff+len(entries)*64)
	copy(out, "PACK")
	binary.LittleEndian.PutUint32(out[4:], uint32(dirOff))          //nolint:gosec // test fixture sizes are small
	binary.LittleEndian.PutUint32(out[8:], uint32(len(entries)*64)) //nolint:gosec // test fixture sizes are small

	pos := header
	for i, e := range entries {
		copy(out[pos:], e.Data)
		recPos, recSize := uint32(pos), uint32(len(e.Data)) //nolint:gosec // test fixture sizes are small
		if e.Pos != 0 {
			recPos = e.Pos
		}
		if e.Size != 0 {
			recSize = e.Size
		}
		rec := out[dirOff+i*64:]
		copy(rec[:56], e.Path)
		binary.LittleEndian.PutUint32(rec[56:], recPos)
		binary.LittleEndian.PutUint32(rec[60:], recSize)
		pos += len(e.Data)
	}
	return out
}

// WriteTree creates files under dir from a map of slash-separated relative
// paths to contents.
func WriteTree(t testing.TB, dir string, files map[string][]byte) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
		if err := os.WriteFile(p, content, 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

// ReadTree reads every regular file under dir into a map keyed by
// slash-separated relative path.
func ReadTree(t testing.TB, dir string) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		t.Fatalf("read tree %s: %v", dir, err)
	}
	return out
}

// M32Header holds the header fields RawTexture fills in.
type M32Header struct {
	Version int32
	Name    string
	Width   uint32
	Height  uint32
	ScaleX  float32
}

// RawTexture assembles an M32 texture: a 968-byte header with mip level 0
// set from h, followed by pixels.
func RawTexture(h M32Header, pixels []byte) []byte {
	const (
		headerSize = 968
		widthOff   = 4 + 4*128
		heightOff  = widthOff + 64
		offsetsOff = heightOff + 64
		scaleXOff  = offsetsOff + 64 + 3*4
	)
	out := make([]byte, headerSize+len(pixels))
	binary.LittleEndian.PutUint32(out[0:], uint32(h.Version)) //nolint:gosec // bit pattern copy
	copy(out[4:4+127], h.Name)
	binary.LittleEndian.PutUint32(out[widthOff:], h.Width)
	binary.LittleEndian.PutUint32(out[heightOff:], h.Height)
	binary.LittleEndian.PutUint32(out[offsetsOff:], headerSize)
	binary.LittleEndian.PutUint32(out[scaleXOff:], math.Float32bits(h.ScaleX))
	copy(out[headerSize:], pixels)
	return out
}
