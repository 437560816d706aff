package m32

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/sofpak/internal/testutil"
)

func TestHeader_Image(t *testing.T) {
	t.Parallel()

	pixels := []byte{
		255, 0, 0, 255, 0, 255, 0, 128,
		0, 0, 255, 0, 10, 20, 30, 40,
	}
	buf := testutil.RawTexture(testutil.M32Header{Width: 2, Height: 2}, pixels)
	h, err := Decode(buf)
	require.NoError(t, err)

	img, err := h.Image()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{G: 255, A: 128}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 40}, img.NRGBAAt(1, 1))

	// Pixels alias the texture buffer.
	img.SetNRGBA(0, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	assert.Equal(t, []byte{1, 2, 3, 4}, buf[Size+8:Size+12])
}

func TestFromImage(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(10, 10, 13, 12))
	src.SetNRGBA(10, 10, color.NRGBA{R: 200, A: 255})
	src.SetNRGBA(12, 11, color.NRGBA{B: 100, A: 50})

	h, err := FromImage(src, Values{"name": "pics/test", "version": 4})
	require.NoError(t, err)

	assert.Len(t, h.Bytes(), Size+3*2*4)
	assert.Equal(t, "pics/test", h.Name())
	assert.Equal(t, int32(4), h.Version())
	assert.Equal(t, uint32(3), h.Width()[0])
	assert.Equal(t, uint32(2), h.Height()[0])
	assert.Equal(t, uint32(Size), h.Offsets()[0])

	// Round trip through Decode of the raw bytes.
	back, err := Decode(h.Bytes())
	require.NoError(t, err)
	img, err := back.Image()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 200, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{B: 100, A: 50}, img.NRGBAAt(2, 1))
}

func TestFromImage_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := FromImage(image.NewNRGBA(image.Rect(0, 0, 1, 1)), Values{"bogus": 1})
	require.ErrorIs(t, err, ErrUnknownField)
}
