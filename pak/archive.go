package pak

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/opencontainers/go-digest"

	"github.com/meigma/sofpak/internal/window"
)

// Format constants.
const (
	// Magic identifies a PACK archive.
	Magic = "PACK"

	// HeaderSize is the size of the fixed archive header.
	HeaderSize = 12

	// EntrySize is the size of one directory record.
	EntrySize = 64

	// PathSize is the size of the NUL-padded path field of a record.
	PathSize = 56

	// MaxPathLen is the longest normalized path that fits a record with its
	// terminating NUL.
	MaxPathLen = PathSize - 1
)

// Entry describes one file stored in an archive.
type Entry struct {
	// Path is the lowercased path relative to the archive root (e.g. "pics/a.m32").
	Path string

	// Pos is the byte offset of the file's content within the archive.
	Pos uint32

	// Size is the length of the file's content in bytes.
	Size uint32
}

// Archive provides read access to a PACK archive held in memory.
//
// The directory is parsed on demand; every call re-validates it so that a
// failed decode never leaves partial state behind.
type Archive struct {
	data   []byte
	logger *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// Open validates the magic of data and returns an Archive over it.
//
// The data is retained by the Archive; callers must not modify it after
// calling Open.
func Open(data []byte, opts ...Option) (*Archive, error) {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return nil, ErrInvalidMagic
	}
	a := &Archive{data: data}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// OpenFile reads the archive at path into memory and opens it.
func OpenFile(path string, opts ...Option) (*Archive, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	a, err := Open(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.log().Debug("opened archive", "path", path, "size", len(data))
	return a, nil
}

// Bytes returns the archive buffer.
func (a *Archive) Bytes() []byte {
	return a.data
}

// Checksum returns the xxhash64 of the archive buffer.
// It identifies archive content cheaply, e.g. as a cache key.
func (a *Archive) Checksum() uint64 {
	return xxhash.Sum64(a.data)
}

// Directory returns the directory offset and length from the header.
//
// It fails with ErrCorruptDirectory if the header is truncated, the
// directory falls outside the buffer, or its length is not a multiple of
// EntrySize.
func (a *Archive) Directory() (off, length uint32, err error) {
	if len(a.data) < HeaderSize {
		return 0, 0, fmt.Errorf("%w: header truncated (%d bytes)", ErrCorruptDirectory, len(a.data))
	}
	off = binary.LittleEndian.Uint32(a.data[4:8])
	length = binary.LittleEndian.Uint32(a.data[8:12])
	if length%EntrySize != 0 {
		return 0, 0, fmt.Errorf("%w: length %d not a multiple of %d", ErrCorruptDirectory, length, EntrySize)
	}
	if uint64(off)+uint64(length) > uint64(len(a.data)) {
		return 0, 0, fmt.Errorf("%w: [%d, %d+%d) exceeds %d bytes", ErrCorruptDirectory, off, off, length, len(a.data))
	}
	return off, length, nil
}

// Len returns the number of directory records.
func (a *Archive) Len() (int, error) {
	_, length, err := a.Directory()
	if err != nil {
		return 0, err
	}
	return int(length / EntrySize), nil
}

// Entries decodes the directory and returns its entries in on-disk order.
func (a *Archive) Entries() ([]Entry, error) {
	off, length, err := a.Directory()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, length/EntrySize)
	dir := a.data[off : off+length]
	for rec := dir; len(rec) >= EntrySize; rec = rec[EntrySize:] {
		entries = append(entries, Entry{
			Path: decodePath(rec[:PathSize]),
			Pos:  binary.LittleEndian.Uint32(rec[PathSize : PathSize+4]),
			Size: binary.LittleEndian.Uint32(rec[PathSize+4 : EntrySize]),
		})
	}
	return entries, nil
}

// Lookup returns the first entry, in directory order, whose path matches the
// case-insensitive glob pattern.
func (a *Archive) Lookup(pattern string) (Entry, error) {
	m, err := compilePatterns(pattern)
	if err != nil {
		return Entry{}, err
	}
	entries, err := a.Entries()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if m.Match(e.Path) {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, pattern)
}

// Find returns the content of the first entry matching pattern.
//
// The returned slice aliases the archive buffer and must be treated as
// immutable.
func (a *Archive) Find(pattern string) ([]byte, error) {
	e, err := a.Lookup(pattern)
	if err != nil {
		return nil, err
	}
	a.log().Debug("found entry", "pattern", pattern, "path", e.Path, "size", e.Size)
	return a.ReadEntry(e)
}

// ReadEntry returns the content of e.
//
// The returned slice aliases the archive buffer and must be treated as
// immutable.
func (a *Archive) ReadEntry(e Entry) ([]byte, error) {
	w, err := window.New(a.data, int(e.Pos), int(e.Size))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: pos %d size %d exceeds %d bytes", ErrCorruptEntry, e.Path, e.Pos, e.Size, len(a.data))
	}
	return w.Bytes(), nil
}

// Digest returns the sha256 digest of e's content.
func (a *Archive) Digest(e Entry) (digest.Digest, error) {
	b, err := a.ReadEntry(e)
	if err != nil {
		return "", err
	}
	return digest.FromBytes(b), nil
}
