package m32

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Layout(t *testing.T) {
	specs := Schema()
	require.Len(t, specs, 25)

	total := 0
	for _, s := range specs {
		total += s.Size
	}
	assert.Equal(t, Size, total)

	tests := []struct {
		name   string
		offset int
		kind   Kind
		length int
	}{
		{"version", 0, KindInt32, 1},
		{"name", 4, KindString, 1},
		{"damagename", 388, KindString, 1},
		{"width", 516, KindListUint32, MipLevels},
		{"height", 580, KindListUint32, MipLevels},
		{"offsets", 644, KindListUint32, MipLevels},
		{"flags", 708, KindInt32, 1},
		{"scale_x", 720, KindFloat32, 1},
		{"mip_scale", 728, KindInt32, 1},
		{"dt_name", 732, KindString, 1},
		{"dt_alpha", 876, KindFloat32, 1},
		{"flags2", 888, KindInt32, 1},
		{"damage_health", 892, KindFloat32, 1},
		{"unused", 896, KindListInt32, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, off, ok := Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.offset, off)
			assert.Equal(t, tt.kind, spec.Kind)
			assert.Equal(t, tt.length, spec.Len())
		})
	}

	_, _, ok := Lookup("nope")
	assert.False(t, ok)
}

func TestSchema_ReturnsCopy(t *testing.T) {
	specs := Schema()
	specs[0].Name = "changed"
	spec, _, ok := Lookup("version")
	require.True(t, ok)
	assert.Equal(t, "version", spec.Name)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "list_uint32", KindListUint32.String())
	assert.Equal(t, KindUint32, KindListUint32.Elem())
	assert.Equal(t, KindInt32, KindListInt32.Elem())
	assert.Equal(t, KindFloat32, KindFloat32.Elem())
	assert.True(t, KindListInt32.IsList())
	assert.False(t, KindString.IsList())
	assert.Equal(t, "unknown", Kind(0).String())
}
