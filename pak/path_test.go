package pak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "a.txt", "a.txt"},
		{"uppercase", "Ghoul/PModels/Mullins.M32", "ghoul/pmodels/mullins.m32"},
		{"leading slash", "/pics/a.m32", "pics/a.m32"},
		{"trailing slash", "pics/", "pics"},
		{"backslashes", `pics\sub\A.M32`, "pics/sub/a.m32"},
		{"double slashes", "pics//a.m32", "pics/a.m32"},
		{"empty", "", ""},
		{"only slashes", "///", ""},
		{"dotdot preserved", "../a", "../a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.input))
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"a.txt", "a.txt", true},
		{"A.TXT", "a.txt", true},
		{"a.txt", "A.TXT", true},
		{"*.m32", "ghoul/pmodels/portraits/mullins.m32", true},
		{"ghoul/*/mullins.m32", "ghoul/pmodels/portraits/mullins.m32", true},
		{"?.txt", "a.txt", true},
		{"?.txt", "ab.txt", false},
		{"[ab].txt", "b.txt", true},
		{"[ab].txt", "c.txt", false},
		{"[!ab].txt", "c.txt", true},
		{"[!ab].txt", "a.txt", false},
		{"[a-c]*", "bear.m32", true},
		{"sub/b.bin", "sub/b.bin.bak", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"~"+tt.path, func(t *testing.T) {
			got, err := Match(tt.pattern, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePath(t *testing.T) {
	assert.Equal(t, "a.txt", decodePath([]byte("A.TXT\x00\x00junk")))
	assert.Equal(t, "ab", decodePath([]byte("a\xffb\x00")))
	assert.Equal(t, "", decodePath(make([]byte, PathSize)))
}
