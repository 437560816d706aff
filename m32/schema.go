package m32

import "fmt"

const (
	// Size is the size of the header in bytes.
	Size = 968

	// MipLevels is the number of mip-level slots in the width, height and
	// offsets lists.
	MipLevels = 16

	// BytesPerPixel is the size of one RGBA8 pixel.
	BytesPerPixel = 4

	// nameSize is the size of the fixed string fields.
	nameSize = 128
)

// Kind identifies how a field's bytes are interpreted.
type Kind uint8

const (
	KindInt32 Kind = iota + 1
	KindUint32
	KindFloat32
	KindString
	KindListInt32
	KindListUint32
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindFloat32:
		return "float32"
	case KindString:
		return "string"
	case KindListInt32:
		return "list_int32"
	case KindListUint32:
		return "list_uint32"
	default:
		return "unknown"
	}
}

// IsList reports whether k is a list of scalars.
func (k Kind) IsList() bool {
	return k == KindListInt32 || k == KindListUint32
}

// Elem returns the scalar kind of a list's elements, or k itself for
// non-list kinds.
func (k Kind) Elem() Kind {
	switch k {
	case KindListInt32:
		return KindInt32
	case KindListUint32:
		return KindUint32
	default:
		return k
	}
}

// elemSize is the size of one element: 4 for numeric kinds and lists,
// 1 for strings.
func (k Kind) elemSize() int {
	if k == KindString {
		return 1
	}
	return 4
}

// FieldSpec describes one header field.
type FieldSpec struct {
	Name string
	Size int
	Kind Kind
}

// Len returns the number of elements in the field: Size/4 for lists and 1
// otherwise.
func (s FieldSpec) Len() int {
	if s.Kind.IsList() {
		return s.Size / s.Kind.elemSize()
	}
	return 1
}

// schema is the header layout in on-disk order.
var schema = [...]FieldSpec{
	{"version", 4, KindInt32},
	{"name", nameSize, KindString},
	{"altname", nameSize, KindString},
	{"animname", nameSize, KindString},
	{"damagename", nameSize, KindString},
	{"width", MipLevels * 4, KindListUint32},
	{"height", MipLevels * 4, KindListUint32},
	{"offsets", MipLevels * 4, KindListUint32},
	{"flags", 4, KindInt32},
	{"contents", 4, KindInt32},
	{"value", 4, KindInt32},
	{"scale_x", 4, KindFloat32},
	{"scale_y", 4, KindFloat32},
	{"mip_scale", 4, KindInt32},
	{"dt_name", nameSize, KindString},
	{"dt_scale_x", 4, KindFloat32},
	{"dt_scale_y", 4, KindFloat32},
	{"dt_u", 4, KindFloat32},
	{"dt_v", 4, KindFloat32},
	{"dt_alpha", 4, KindFloat32},
	{"dt_src_blend_mode", 4, KindInt32},
	{"dt_dst_blend_mode", 4, KindInt32},
	{"flags2", 4, KindInt32},
	{"damage_health", 4, KindFloat32},
	{"unused", 18 * 4, KindListInt32},
}

// offsets[i] is the byte offset of schema[i]; byName maps names to indexes.
var offsets, byName = layout(schema[:])

func layout(specs []FieldSpec) ([]int, map[string]int) {
	offs := make([]int, len(specs))
	names := make(map[string]int, len(specs))
	off := 0
	for i, s := range specs {
		offs[i] = off
		names[s.Name] = i
		off += s.Size
	}
	if off != Size {
		panic(fmt.Sprintf("m32: schema totals %d bytes, want %d", off, Size))
	}
	return offs, names
}

// Schema returns the header fields in on-disk order.
func Schema() []FieldSpec {
	out := make([]FieldSpec, len(schema))
	copy(out, schema[:])
	return out
}

// Lookup returns the spec and byte offset of the named field.
func Lookup(name string) (spec FieldSpec, offset int, ok bool) {
	i, ok := byName[name]
	if !ok {
		return FieldSpec{}, 0, false
	}
	return schema[i], offsets[i], true
}
