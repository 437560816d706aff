package m32

import "errors"

// Sentinel errors.
var (
	// ErrTruncatedHeader is returned when a buffer is shorter than Size.
	ErrTruncatedHeader = errors.New("m32: truncated header")

	// ErrUnknownField is returned for a field name not in the schema.
	ErrUnknownField = errors.New("m32: unknown field")

	// ErrIndexOutOfRange is returned when a list index is not below the
	// field's element count.
	ErrIndexOutOfRange = errors.New("m32: index out of range")

	// ErrBufferTooSmall is returned when the buffer does not hold the pixel
	// data the header describes.
	ErrBufferTooSmall = errors.New("m32: buffer too small")

	// ErrInvalidValue is returned when a value's type or range does not
	// suit the field it is written to.
	ErrInvalidValue = errors.New("m32: invalid value")

	// ErrValueTooLong is returned when a string does not fit its field
	// together with its terminating NUL.
	ErrValueTooLong = errors.New("m32: value too long")
)
