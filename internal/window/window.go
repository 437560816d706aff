// Package window provides bounded views into a byte buffer.
//
// A Window is an offset and length into a buffer owned by someone else.
// Views never copy; writes through a Window are visible to every other
// Window over the same buffer.
package window

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a requested range does not fit the buffer.
var ErrOutOfBounds = errors.New("window: range out of bounds")

// Window is a bounded offset+length region of a buffer.
//
// The zero value is an empty window.
type Window struct {
	buf []byte
	off int
	n   int
}

// New returns a window over buf[off:off+n].
func New(buf []byte, off, n int) (Window, error) {
	if off < 0 || n < 0 || off > len(buf) || n > len(buf)-off {
		return Window{}, fmt.Errorf("%w: [%d, %d+%d) of %d", ErrOutOfBounds, off, off, n, len(buf))
	}
	return Window{buf: buf, off: off, n: n}, nil
}

// Offset returns the window's start offset within the owning buffer.
func (w Window) Offset() int { return w.off }

// Len returns the window length in bytes.
func (w Window) Len() int { return w.n }

// Bytes returns the windowed bytes.
//
// The returned slice aliases the owning buffer and its capacity is clipped
// to the window, so appends never spill into neighbouring data.
func (w Window) Bytes() []byte {
	return w.buf[w.off : w.off+w.n : w.off+w.n]
}

// Slice returns a sub-window of n bytes starting off bytes into w.
func (w Window) Slice(off, n int) (Window, error) {
	if off < 0 || n < 0 || off > w.n || n > w.n-off {
		return Window{}, fmt.Errorf("%w: [%d, %d+%d) of %d", ErrOutOfBounds, off, off, n, w.n)
	}
	return Window{buf: w.buf, off: w.off + off, n: n}, nil
}
