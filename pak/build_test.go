package pak

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/sofpak/internal/testutil"
)

func TestBuild_Layout(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a.txt":     {Data: []byte("hello")},
		"sub/b.bin": {Data: []byte("0123456789")},
	}
	data, err := Build(context.Background(), fsys)
	require.NoError(t, err)

	assert.Equal(t, Magic, string(data[:4]))
	assert.Equal(t, uint32(27), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint32(128), binary.LittleEndian.Uint32(data[8:12]))
	assert.Len(t, data, 12+15+128)

	a, err := Open(data)
	require.NoError(t, err)
	entries, err := a.Entries()
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Path: "a.txt", Pos: 12, Size: 5},
		{Path: "sub/b.bin", Pos: 17, Size: 10},
	}, entries)

	lower, err := a.Find("sub/b.bin")
	require.NoError(t, err)
	upper, err := a.Find("sub/B.BIN")
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789"), lower)
	assert.Equal(t, lower, upper)
}

func TestBuild_LowercasesPaths(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"Ghoul/PModels/Mullins.M32": {Data: []byte("m")},
	}
	data, err := Build(context.Background(), fsys)
	require.NoError(t, err)

	a, err := Open(data)
	require.NoError(t, err)
	entries, err := a.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ghoul/pmodels/mullins.m32", entries[0].Path)
}

func TestBuild_PathTooLong(t *testing.T) {
	t.Parallel()

	ok := strings.Repeat("a", MaxPathLen)
	data, err := Build(context.Background(), fstest.MapFS{ok: {Data: []byte("x")}})
	require.NoError(t, err)
	a, err := Open(data)
	require.NoError(t, err)
	got, err := a.Find(ok)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)

	tooLong := strings.Repeat("a", MaxPathLen+1)
	_, err = Build(context.Background(), fstest.MapFS{tooLong: {Data: []byte("x")}})
	require.ErrorIs(t, err, ErrPathTooLong)
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	data, err := Build(context.Background(), fstest.MapFS{})
	require.NoError(t, err)
	assert.Equal(t, []byte("PACK\x0c\x00\x00\x00\x00\x00\x00\x00"), data)
}

func TestBuild_EmptyFile(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"empty": {Data: nil},
		"z":     {Data: []byte("z")},
	}
	data, err := Build(context.Background(), fsys)
	require.NoError(t, err)

	a, err := Open(data)
	require.NoError(t, err)
	entries, err := a.Entries()
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Path: "empty", Pos: 12, Size: 0}, {Path: "z", Pos: 12, Size: 1}}, entries)
}

func TestBuild_MaxFiles(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a": {Data: []byte("a")},
		"b": {Data: []byte("b")},
	}
	_, err := Build(context.Background(), fsys, BuildWithMaxFiles(1))
	require.ErrorIs(t, err, ErrTooManyFiles)

	_, err = Build(context.Background(), fsys, BuildWithMaxFiles(-1))
	require.NoError(t, err)
}

func TestBuild_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, fstest.MapFS{"a": {Data: []byte("a")}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildDir_RoundTrip(t *testing.T) {
	t.Parallel()

	files := map[string][]byte{
		"a.txt":                     []byte("hello"),
		"sub/b.bin":                 {0x00, 0x01, 0x02, 0xFF},
		"ghoul/pmodels/Mullins.m32": []byte(strings.Repeat("pixel", 100)),
		"empty.dat":                 {},
	}
	src := t.TempDir()
	testutil.WriteTree(t, src, files)

	data, err := BuildDir(context.Background(), src)
	require.NoError(t, err)

	a, err := Open(data)
	require.NoError(t, err)
	n, err := a.Len()
	require.NoError(t, err)
	assert.Equal(t, len(files), n)

	dest := t.TempDir()
	stats, err := a.ExtractAll(dest, nil)
	require.NoError(t, err)
	assert.Equal(t, len(files), stats.FileCount)

	want := make(map[string][]byte, len(files))
	for name, content := range files {
		want[strings.ToLower(name)] = content
	}
	got := testutil.ReadTree(t, dest)
	require.Len(t, got, len(want))
	for name, content := range want {
		assert.Equal(t, content, got[name], name)
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	data, err := Build(context.Background(), fstest.MapFS{"a.txt": {Data: []byte("hello")}})
	require.NoError(t, err)

	path := t.TempDir() + "/nested/out.pak"
	require.NoError(t, WriteFile(path, data))

	a, err := OpenFile(path)
	require.NoError(t, err)
	got, err := a.Find("a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}
