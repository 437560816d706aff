package m32

import (
	"fmt"
	"slices"
	"strings"

	"github.com/meigma/sofpak/internal/window"
)

// Values maps field names to the values Encode writes. See [Field.Write] for
// the accepted value types.
type Values map[string]any

// Header binds the header schema to a buffer.
//
// The buffer holds the header in its first Size bytes and, for complete
// textures, the pixel data after it.
type Header struct {
	buf []byte
}

// Decode binds a Header to buf without copying it.
//
// buf must hold at least Size bytes. Writes through the returned Header
// modify buf.
func Decode(buf []byte) (*Header, error) {
	if len(buf) < Size {
		return nil, fmt.Errorf("%w: %d bytes, want at least %d", ErrTruncatedHeader, len(buf), Size)
	}
	return &Header{buf: buf}, nil
}

// Encode allocates a zeroed header and writes values into it.
//
// Fields not named in values stay zero. Names not in the schema fail with
// ErrUnknownField before anything is written.
func Encode(values Values) (*Header, error) {
	h := &Header{buf: make([]byte, Size)}
	if err := h.Set(values); err != nil {
		return nil, err
	}
	return h, nil
}

// Set writes values into the header in schema order.
//
// Unknown names are rejected before any field is written; a value that
// fails to encode stops the walk and leaves earlier fields written.
func (h *Header) Set(values Values) error {
	var unknown []string
	for name := range values {
		if _, ok := byName[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("%w: %s", ErrUnknownField, strings.Join(unknown, ", "))
	}

	for i, spec := range schema {
		v, ok := values[spec.Name]
		if !ok {
			continue
		}
		if err := h.field(i).Write(v); err != nil {
			return err
		}
	}
	return nil
}

// Field returns the named field.
func (h *Header) Field(name string) (Field, error) {
	i, ok := byName[name]
	if !ok {
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return h.field(i), nil
}

// MustField is like Field but panics if name is not in the schema.
func (h *Header) MustField(name string) Field {
	f, err := h.Field(name)
	if err != nil {
		panic(err)
	}
	return f
}

// Fields returns every field in schema order.
func (h *Header) Fields() []Field {
	out := make([]Field, len(schema))
	for i := range schema {
		out[i] = h.field(i)
	}
	return out
}

func (h *Header) field(i int) Field {
	// The buffer is at least Size bytes, so every schema window fits.
	w, err := window.New(h.buf, offsets[i], schema[i].Size)
	if err != nil {
		panic(err)
	}
	return Field{spec: schema[i], win: w}
}

// Bytes returns the whole buffer, header and any trailing data.
func (h *Header) Bytes() []byte {
	return h.buf
}

// HeaderBytes returns the first Size bytes of the buffer.
func (h *Header) HeaderBytes() []byte {
	return h.buf[:Size:Size]
}

// Version returns the version field.
func (h *Header) Version() int32 {
	return h.MustField("version").Read().(int32)
}

// Name returns the texture name.
func (h *Header) Name() string {
	return h.MustField("name").Read().(string)
}

// Width returns the per-mip-level widths.
func (h *Header) Width() []uint32 {
	return h.MustField("width").Read().([]uint32)
}

// Height returns the per-mip-level heights.
func (h *Header) Height() []uint32 {
	return h.MustField("height").Read().([]uint32)
}

// Offsets returns the per-mip-level data offsets.
func (h *Header) Offsets() []uint32 {
	return h.MustField("offsets").Read().([]uint32)
}

// Dimensions returns the width and height of mip level 0.
func (h *Header) Dimensions() (width, height int) {
	w, _ := h.MustField("width").At(0)
	ht, _ := h.MustField("height").At(0)
	return int(w.(uint32)), int(ht.(uint32))
}

// SetMip sets the width, height and data offset of one mip level, leaving
// the other levels untouched.
func (h *Header) SetMip(level int, width, height, offset uint32) error {
	for _, kv := range []struct {
		name string
		v    uint32
	}{{"width", width}, {"height", height}, {"offsets", offset}} {
		if err := h.MustField(kv.name).WriteAt(level, kv.v); err != nil {
			return err
		}
	}
	return nil
}

// ImageData returns the mip level 0 pixel data that follows the header:
// width[0]*height[0]*4 bytes of RGBA8.
//
// The returned slice aliases the buffer.
func (h *Header) ImageData() ([]byte, error) {
	w, ht := h.Dimensions()
	avail := len(h.buf) - Size
	// w*ht*4 can exceed 64 bits, so compare by division.
	if w != 0 && uint64(ht) > uint64(avail)/BytesPerPixel/uint64(w) { //nolint:gosec // both non-negative
		return nil, fmt.Errorf("%w: %dx%d pixels do not fit %d bytes after the header", ErrBufferTooSmall, w, ht, avail)
	}
	win, err := window.New(h.buf, Size, w*ht*BytesPerPixel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBufferTooSmall, err)
	}
	return win.Bytes(), nil
}
