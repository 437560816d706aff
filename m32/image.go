package m32

import (
	"fmt"
	"image"
	"image/draw"
	"math"
)

// Image returns mip level 0 as an image whose pixels alias the buffer.
//
// M32 pixels are straight (non-premultiplied) RGBA, so the result is an
// *image.NRGBA. Drawing into it modifies the texture.
func (h *Header) Image() (*image.NRGBA, error) {
	pix, err := h.ImageData()
	if err != nil {
		return nil, err
	}
	w, ht := h.Dimensions()
	return &image.NRGBA{
		Pix:    pix,
		Stride: w * BytesPerPixel,
		Rect:   image.Rect(0, 0, w, ht),
	}, nil
}

// FromImage builds a complete texture from img: a header with values
// applied, mip level 0 sized to img and pointing just past the header, and
// the pixels converted to straight RGBA.
func FromImage(img image.Image, values Values) (*Header, error) {
	b := img.Bounds()
	w, ht := b.Dx(), b.Dy()
	if int64(w) > math.MaxUint32 || int64(ht) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: image %dx%d", ErrInvalidValue, w, ht)
	}

	buf := make([]byte, Size+w*ht*BytesPerPixel)
	h := &Header{buf: buf}
	if err := h.Set(values); err != nil {
		return nil, err
	}
	if err := h.SetMip(0, uint32(w), uint32(ht), Size); err != nil { //nolint:gosec // range checked above
		return nil, err
	}

	dst, err := h.Image()
	if err != nil {
		return nil, err
	}
	if src, ok := img.(*image.NRGBA); ok {
		// Same pixel layout: copy rows to avoid a premultiply round trip.
		for y := range ht {
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return h, nil
	}
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return h, nil
}
