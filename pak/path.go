package pak

import (
	"strings"
	"unicode/utf8"
)

// NormalizePath converts a path to the form stored in a directory record.
//
// It performs the following transformations:
//   - Converts backslashes to slashes: `textures\a.m32` → "textures/a.m32"
//   - Strips leading and trailing slashes
//   - Collapses consecutive slashes: "a//b" → "a/b"
//   - Lowercases the result
//
// Dot and dot-dot elements are preserved; extraction rejects them.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}

	parts := strings.Split(p, "/")
	result := parts[:0]
	for _, part := range parts {
		if part != "" {
			result = append(result, part)
		}
	}
	return strings.ToLower(strings.Join(result, "/"))
}

// decodePath decodes a NUL-padded path field. Bytes after the first NUL are
// ignored and invalid UTF-8 is dropped.
func decodePath(b []byte) string {
	if i := indexNUL(b); i >= 0 {
		b = b[:i]
	}
	s := string(b)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.ToLower(s)
}

func indexNUL(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}
