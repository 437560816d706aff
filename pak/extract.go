package pak

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// ExtractStats reports the outcome of an extraction.
type ExtractStats struct {
	// FileCount is the number of files written.
	FileCount int

	// TotalBytes is the number of payload bytes written.
	TotalBytes uint64

	// Skipped is the number of files left untouched because they already
	// existed and overwriting was disabled.
	Skipped int

	// Failed is the number of entries that could not be written.
	Failed int
}

// ExtractAll writes every entry to dest, creating parent directories as
// needed.
//
// If patterns is non-empty only entries matching at least one of the
// case-insensitive globs are extracted. Extraction is best-effort: an entry
// that cannot be written is reported as an *ExtractError and the remaining
// entries are still processed. The returned error joins every per-entry
// failure. Directory decode failures abort before anything is written.
//
// Entries are confined to dest; paths containing ".." or absolute elements
// fail with fs.ErrInvalid.
func (a *Archive) ExtractAll(dest string, patterns []string, opts ...ExtractOption) (ExtractStats, error) {
	cfg := extractConfig{overwrite: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	m, err := compilePatterns(patterns...)
	if err != nil {
		return ExtractStats{}, err
	}
	entries, err := a.Entries()
	if err != nil {
		return ExtractStats{}, err
	}

	if err := os.MkdirAll(dest, 0o750); err != nil {
		return ExtractStats{}, fmt.Errorf("create destination directory: %w", err)
	}
	root, err := os.OpenRoot(dest)
	if err != nil {
		return ExtractStats{}, fmt.Errorf("open destination root %s: %w", dest, err)
	}
	defer root.Close()

	var stats ExtractStats
	var errs []error
	for _, e := range entries {
		if !m.Match(e.Path) {
			continue
		}
		written, err := a.extractEntry(root, e, cfg.overwrite)
		if err != nil {
			a.log().Warn("extract failed", "path", e.Path, "error", err)
			errs = append(errs, &ExtractError{Path: e.Path, Err: err})
			stats.Failed++
			continue
		}
		if !written {
			a.log().Debug("skipped existing file", "path", e.Path)
			stats.Skipped++
			continue
		}
		a.log().Debug("extracted", "path", filepath.Join(dest, filepath.FromSlash(e.Path)), "size", e.Size)
		stats.FileCount++
		stats.TotalBytes += uint64(e.Size)
	}

	a.log().Info("extraction complete", "dest", dest, "files", stats.FileCount, "bytes", stats.TotalBytes, "failed", stats.Failed)
	return stats, errors.Join(errs...)
}

// extractEntry writes a single entry below root. It returns false when the
// file already exists and overwrite is disabled.
func (a *Archive) extractEntry(root *os.Root, e Entry, overwrite bool) (bool, error) {
	if e.Path == "" || !fs.ValidPath(e.Path) {
		return false, &fs.PathError{Op: "extract", Path: e.Path, Err: fs.ErrInvalid}
	}
	payload, err := a.ReadEntry(e)
	if err != nil {
		return false, err
	}

	rel := filepath.FromSlash(e.Path)
	if !overwrite {
		if _, err := root.Stat(rel); err == nil {
			return false, nil
		}
	}
	dir := filepath.FromSlash(path.Dir(e.Path))
	if err := root.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, tmpRel, err := createTempFile(root, dir, ".pak-")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()         //nolint:errcheck // we're cleaning up
		_ = root.Remove(tmpRel) //nolint:errcheck // best-effort cleanup
		return false, err
	}
	if err := tmp.Close(); err != nil {
		_ = root.Remove(tmpRel) //nolint:errcheck // best-effort cleanup
		return false, fmt.Errorf("close temp file: %w", err)
	}
	if err := root.Rename(tmpRel, rel); err != nil {
		_ = root.Remove(tmpRel) //nolint:errcheck // best-effort cleanup
		return false, fmt.Errorf("rename to %s: %w", rel, err)
	}
	return true, nil
}

func createTempFile(root *os.Root, dir, prefix string) (*os.File, string, error) {
	const attempts = 10
	for range attempts {
		name, err := randomSuffix()
		if err != nil {
			return nil, "", err
		}
		relPath := filepath.Join(dir, prefix+name)
		f, err := root.OpenFile(relPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return f, relPath, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", errors.New("create temp file: exhausted retries")
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
