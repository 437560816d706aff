package pak

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meigma/sofpak/internal/sizing"
)

// DefaultMaxFiles is the default limit used when no MaxFiles option is set.
const DefaultMaxFiles = 200_000

// ErrFileChanged is returned when a file's size changes while it is being
// packed.
var ErrFileChanged = errors.New("pak: file changed during build")

// buildEntry is a file scheduled for packing.
type buildEntry struct {
	Entry
	src string
}

// builder holds state for archive creation.
type builder struct {
	cfg    buildConfig
	logger *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (b *builder) log() *slog.Logger {
	if b.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.logger
}

// Build packs every regular file in fsys into a new archive.
//
// Files are visited in fs.WalkDir order (lexical within each directory) and
// stored in that order, both in the payload region and in the directory.
// Paths are lowercased; a path longer than MaxPathLen bytes fails with
// ErrPathTooLong. Symbolic links and other non-regular files are skipped.
// Paths that collide after lowercasing are all stored; lookups return the
// first.
//
// Build holds the whole archive in memory.
func Build(ctx context.Context, fsys fs.FS, opts ...BuildOption) ([]byte, error) {
	cfg := buildConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	b := &builder{cfg: cfg, logger: cfg.logger}

	entries, payloadSize, err := b.collect(ctx, fsys)
	if err != nil {
		return nil, err
	}
	b.log().Info("packing files", "file_count", len(entries), "payload_size", payloadSize)

	dirOff, ok := sizing.AddUint32(HeaderSize, payloadSize)
	if !ok {
		return nil, ErrSizeOverflow
	}
	count, err := sizing.ToUint32(int64(len(entries)), ErrSizeOverflow)
	if err != nil {
		return nil, err
	}
	dirLen, ok := sizing.MulUint32(count, EntrySize)
	if !ok {
		return nil, ErrSizeOverflow
	}
	total, ok := sizing.AddUint32(dirOff, dirLen)
	if !ok {
		return nil, ErrSizeOverflow
	}

	out := make([]byte, total)
	copy(out, Magic)
	binary.LittleEndian.PutUint32(out[4:8], dirOff)
	binary.LittleEndian.PutUint32(out[8:12], dirLen)

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.readInto(fsys, e, out[e.Pos:e.Pos+e.Size]); err != nil {
			return nil, err
		}
		rec := out[int(dirOff)+i*EntrySize : int(dirOff)+(i+1)*EntrySize]
		copy(rec[:PathSize], e.Path)
		binary.LittleEndian.PutUint32(rec[PathSize:PathSize+4], e.Pos)
		binary.LittleEndian.PutUint32(rec[PathSize+4:], e.Size)
	}

	b.log().Debug("archive built", "size", len(out), "dir_offset", dirOff, "dir_length", dirLen)
	return out, nil
}

// BuildDir packs the directory tree rooted at dir.
//
// The walk is confined to dir; symbolic links are not followed.
func BuildDir(ctx context.Context, dir string, opts ...BuildOption) ([]byte, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()
	return Build(ctx, root.FS(), opts...)
}

// collect walks fsys and assigns sequential positions starting after the
// header.
func (b *builder) collect(ctx context.Context, fsys fs.FS) (entries []buildEntry, total uint32, err error) {
	maxFiles := b.cfg.maxFiles
	if maxFiles == 0 {
		maxFiles = DefaultMaxFiles
	}
	seen := make(map[string]struct{})
	pos := uint32(HeaderSize)

	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			b.log().Debug("skipped non-regular file", "path", p, "type", d.Type().String())
			return nil
		}
		if maxFiles > 0 && len(entries) >= maxFiles {
			return ErrTooManyFiles
		}

		name := NormalizePath(p)
		if len(name) > MaxPathLen {
			return fmt.Errorf("%w: %s (%d bytes, max %d)", ErrPathTooLong, name, len(name), MaxPathLen)
		}
		if _, dup := seen[name]; dup {
			b.log().Debug("duplicate path after normalization", "path", name)
		}
		seen[name] = struct{}{}

		info, err := d.Info()
		if err != nil {
			return err
		}
		size, err := sizing.ToUint32(info.Size(), ErrSizeOverflow)
		if err != nil {
			return err
		}
		entries = append(entries, buildEntry{Entry: Entry{Path: name, Pos: pos, Size: size}, src: p})
		if pos, err = addSize(pos, size); err != nil {
			return err
		}
		total += size
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func addSize(pos, size uint32) (uint32, error) {
	next, ok := sizing.AddUint32(pos, size)
	if !ok {
		return 0, ErrSizeOverflow
	}
	return next, nil
}

// readInto fills dst with the content of e, failing if the file no longer
// has the size recorded during the walk.
func (b *builder) readInto(fsys fs.FS, e buildEntry, dst []byte) error {
	f, err := fsys.Open(e.src)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.ReadFull(f, dst); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s", ErrFileChanged, e.src)
		}
		return fmt.Errorf("read %s: %w", e.src, err)
	}
	var probe [1]byte
	if n, _ := f.Read(probe[:]); n > 0 {
		return fmt.Errorf("%w: %s", ErrFileChanged, e.src)
	}
	return nil
}

// WriteFile writes an archive to path atomically (temp file + rename),
// creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".pak-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
