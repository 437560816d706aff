package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/sofpak/internal/testutil"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_Usage(t *testing.T) {
	tests := [][]string{
		nil,
		{"bogus"},
		{"pack", "only-one"},
		{"unpack-one", "a.pak", "out"},
		{"list"},
		{"m32"},
		{"m32", "bogus"},
		{"-nope"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := runCLI(t, args...)
			require.ErrorIs(t, err, errUsage)
		})
	}
}

func TestRun_PackListShowUnpack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	testutil.WriteTree(t, src, map[string][]byte{
		"a.txt":     []byte("hello"),
		"Sub/B.bin": []byte("0123456789"),
	})
	archive := filepath.Join(dir, "out.pak")

	_, err := runCLI(t, "pack", src, archive)
	require.NoError(t, err)

	out, err := runCLI(t, "list", "-digest", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "# 2 entries")
	assert.Regexp(t, `a\.txt\s+12\s+5\s+sha256:[0-9a-f]{64}`, out)
	assert.Regexp(t, `sub/b\.bin\s+17\s+10`, out)

	out, err = runCLI(t, "show", archive, "SUB/*.BIN")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", out)

	_, err = runCLI(t, "show", archive, "missing")
	require.Error(t, err)

	dest := filepath.Join(dir, "all")
	_, err = runCLI(t, "-v", "unpack", archive, dest)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"a.txt":     []byte("hello"),
		"sub/b.bin": []byte("0123456789"),
	}, testutil.ReadTree(t, dest))

	one := filepath.Join(dir, "one")
	_, err = runCLI(t, "unpack-one", archive, one, "*.txt")
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a.txt": []byte("hello")}, testutil.ReadTree(t, one))
}

func TestRun_M32(t *testing.T) {
	dir := t.TempDir()

	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	src.SetNRGBA(3, 1, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	inPNG := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(inPNG, buf.Bytes(), 0o644))

	texDir := filepath.Join(dir, "tree", "pics")
	require.NoError(t, os.MkdirAll(texDir, 0o755))
	tex := filepath.Join(texDir, "test.m32")
	_, err := runCLI(t, "m32", "encode", "-name", "pics/test", "-version", "4", inPNG, tex)
	require.NoError(t, err)

	out, err := runCLI(t, "m32", "dump", tex)
	require.NoError(t, err)
	assert.Contains(t, out, "name                           : pics/test\n")
	assert.Contains(t, out, "width[0]                       : 4\n")
	assert.Contains(t, out, "height[0]                      : 2\n")

	archive := filepath.Join(dir, "tex.pak")
	_, err = runCLI(t, "pack", filepath.Join(dir, "tree"), archive)
	require.NoError(t, err)

	outPNG := filepath.Join(dir, "out.png")
	_, err = runCLI(t, "m32", "png", "-pak", archive, "pics/TEST.m32", outPNG)
	require.NoError(t, err)

	f, err := os.Open(outPNG)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	r, g, b, a := img.At(3, 1).RGBA()
	assert.Equal(t, [4]uint32{9 * 0x101, 8 * 0x101, 7 * 0x101, 0xffff}, [4]uint32{r, g, b, a})

	resized := filepath.Join(dir, "resized.png")
	_, err = runCLI(t, "m32", "png", "-width", "8", "-height", "4", tex, resized)
	require.NoError(t, err)
	rf, err := os.Open(resized)
	require.NoError(t, err)
	defer rf.Close()
	cfg, err := png.DecodeConfig(rf)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)
	assert.Equal(t, 4, cfg.Height)
}
