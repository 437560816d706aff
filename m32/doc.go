// Package m32 decodes and encodes the 968-byte header of M32 textures.
//
// An M32 texture is a fixed header followed by RGBA8 pixel data for mip
// level 0. The header layout is a static table of typed fields (see
// [Schema]); each field's offset is the sum of the sizes of the fields
// before it, with no padding.
//
// A [Header] binds that table to a buffer. Fields are windows into the
// buffer rather than copies: reading decodes the bytes in place and writing
// stores straight into the owning buffer. List fields (the 16 mip-level
// widths, heights and offsets) can be written one element at a time.
//
// Decode a texture extracted from an archive:
//
//	h, err := m32.Decode(data)
//	if err != nil {
//	    return err
//	}
//	img, err := h.Image()
//
// A Header is not safe for concurrent mutation.
package m32
