// Package pak reads and writes PACK archives.
//
// A PACK archive is a single buffer holding a 12-byte header, the
// concatenated contents of every stored file, and a trailing directory of
// fixed 64-byte records:
//
//	offset  size  field
//	0       4     magic "PACK"
//	4       4     directory offset (uint32, little-endian)
//	8       4     directory length (uint32, little-endian)
//	12      ...   file payloads
//	dirOff  dirLen  records {path [56]byte NUL-padded, pos uint32, size uint32}
//
// Paths are stored lowercased. Lookups take case-insensitive glob patterns
// and return the first match in directory order.
//
// An [Archive] owns its buffer. Payloads returned by [Archive.Find] and
// [Archive.ReadEntry] alias that buffer and must be treated as read-only.
package pak
