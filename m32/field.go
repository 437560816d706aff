package m32

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/meigma/sofpak/internal/window"
)

// Field is a window onto one header field.
//
// Reads decode the owning buffer in place; writes store into it. A Field is
// only valid while its Header's buffer is alive.
type Field struct {
	spec FieldSpec
	win  window.Window
}

// Spec returns the field's schema entry.
func (f Field) Spec() FieldSpec { return f.spec }

// Name returns the field name.
func (f Field) Name() string { return f.spec.Name }

// Offset returns the field's byte offset within the header.
func (f Field) Offset() int { return f.win.Offset() }

// Len returns the number of elements: 16 for mip-level lists, 1 for scalars
// and strings.
func (f Field) Len() int { return f.spec.Len() }

// Bytes returns the raw field window. It aliases the header buffer.
func (f Field) Bytes() []byte { return f.win.Bytes() }

// Read decodes the field.
//
// The dynamic type depends on the field kind: int32, uint32, float32,
// string (cut at the first NUL), []int32 or []uint32.
func (f Field) Read() any {
	b := f.win.Bytes()
	switch f.spec.Kind {
	case KindString:
		if i := bytes.IndexByte(b, 0); i >= 0 {
			b = b[:i]
		}
		return string(b)
	case KindListInt32:
		out := make([]int32, f.Len())
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(b[i*4:])) //nolint:gosec // bit pattern reinterpretation
		}
		return out
	case KindListUint32:
		out := make([]uint32, f.Len())
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(b[i*4:])
		}
		return out
	default:
		return readScalar(f.spec.Kind, b)
	}
}

// At decodes element i of a list field.
func (f Field) At(i int) (any, error) {
	elem, err := f.elem(i)
	if err != nil {
		return nil, err
	}
	return readScalar(f.spec.Kind.Elem(), elem.Bytes()), nil
}

// Write encodes v into the field.
//
// Scalars take any Go integer type (range checked) and float32 fields also
// accept floats. Strings take a string or []byte; the value is written
// followed by a NUL and the rest of the window is left as it was. Lists take
// a slice or array, written element by element from index 0; elements past
// the end of v are left untouched. A scalar written to a list field goes to
// element 0.
func (f Field) Write(v any) error {
	switch {
	case f.spec.Kind == KindString:
		return f.writeString(v)
	case f.spec.Kind.IsList():
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return f.WriteAt(0, v)
		}
		if rv.Len() > f.Len() {
			return fmt.Errorf("%w: %s holds %d elements, got %d", ErrIndexOutOfRange, f.spec.Name, f.Len(), rv.Len())
		}
		for i := range rv.Len() {
			if err := f.WriteAt(i, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	default:
		return writeScalar(f.spec, f.win.Bytes(), v)
	}
}

// WriteAt encodes v into element i of a list field, leaving every other
// element untouched.
func (f Field) WriteAt(i int, v any) error {
	if !f.spec.Kind.IsList() {
		return fmt.Errorf("%w: %s is not a list", ErrInvalidValue, f.spec.Name)
	}
	elem, err := f.elem(i)
	if err != nil {
		return err
	}
	return writeScalar(f.spec, elem.Bytes(), v)
}

func (f Field) elem(i int) (window.Window, error) {
	if !f.spec.Kind.IsList() {
		return window.Window{}, fmt.Errorf("%w: %s is not a list", ErrInvalidValue, f.spec.Name)
	}
	if i < 0 || i >= f.Len() {
		return window.Window{}, fmt.Errorf("%w: %s[%d], length %d", ErrIndexOutOfRange, f.spec.Name, i, f.Len())
	}
	size := f.spec.Kind.elemSize()
	return f.win.Slice(i*size, size)
}

func (f Field) writeString(v any) error {
	var s []byte
	switch t := v.(type) {
	case string:
		s = []byte(t)
	case []byte:
		s = t
	default:
		return fmt.Errorf("%w: %s wants a string, got %T", ErrInvalidValue, f.spec.Name, v)
	}
	b := f.win.Bytes()
	if len(s) >= len(b) {
		return fmt.Errorf("%w: %s holds %d bytes, got %d", ErrValueTooLong, f.spec.Name, len(b)-1, len(s))
	}
	copy(b, s)
	b[len(s)] = 0
	return nil
}

func readScalar(k Kind, b []byte) any {
	u := binary.LittleEndian.Uint32(b)
	switch k {
	case KindInt32:
		return int32(u) //nolint:gosec // bit pattern reinterpretation
	case KindFloat32:
		return math.Float32frombits(u)
	default:
		return u
	}
}

func writeScalar(spec FieldSpec, b []byte, v any) error {
	var u uint32
	switch spec.Kind.Elem() {
	case KindInt32:
		n, ok := toInt64(v)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return invalid(spec, v)
		}
		u = uint32(int32(n)) //nolint:gosec // range checked above
	case KindUint32:
		n, ok := toInt64(v)
		if !ok || n < 0 || n > math.MaxUint32 {
			return invalid(spec, v)
		}
		u = uint32(n)
	case KindFloat32:
		x, ok := toFloat64(v)
		if !ok || (!math.IsInf(x, 0) && !math.IsNaN(x) && math.Abs(x) > math.MaxFloat32) {
			return invalid(spec, v)
		}
		u = math.Float32bits(float32(x))
	default:
		return invalid(spec, v)
	}
	binary.LittleEndian.PutUint32(b, u)
	return nil
}

func invalid(spec FieldSpec, v any) error {
	return fmt.Errorf("%w: %v (%T) for %s %s", ErrInvalidValue, v, v, spec.Kind, spec.Name)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true //nolint:gosec // range checked above
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true //nolint:gosec // range checked above
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		i, ok := toInt64(v)
		return float64(i), ok
	}
}
