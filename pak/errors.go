package pak

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidMagic is returned when a buffer does not start with "PACK".
	ErrInvalidMagic = errors.New("pak: invalid magic")

	// ErrCorruptDirectory is returned when the directory offset or length is
	// out of range or the length is not a multiple of the record size.
	ErrCorruptDirectory = errors.New("pak: corrupt directory")

	// ErrCorruptEntry is returned when an entry's payload extends past the
	// end of the archive.
	ErrCorruptEntry = errors.New("pak: corrupt entry")

	// ErrNotFound is returned when no entry matches a pattern.
	ErrNotFound = errors.New("pak: not found")

	// ErrPathTooLong is returned when a normalized path does not fit a
	// directory record.
	ErrPathTooLong = errors.New("pak: path too long")

	// ErrWrite is returned when an entry cannot be written during extraction.
	ErrWrite = errors.New("pak: write failed")

	// ErrBadPattern is returned when a glob pattern cannot be compiled.
	ErrBadPattern = errors.New("pak: bad pattern")

	// ErrSizeOverflow is returned when offsets exceed the 32-bit range of
	// the format.
	ErrSizeOverflow = errors.New("pak: size overflow")

	// ErrTooManyFiles is returned when a build exceeds the configured file limit.
	ErrTooManyFiles = errors.New("pak: too many files")
)

// ExtractError reports a single entry that could not be extracted.
//
// It matches ErrWrite via errors.Is and unwraps to the underlying cause.
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("pak: extract %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrWrite.
func (e *ExtractError) Is(target error) bool {
	return target == ErrWrite
}
