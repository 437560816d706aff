package pak

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// matcher matches normalized entry paths against case-insensitive globs.
//
// No separators are configured, so "*" also matches "/".
type matcher struct {
	globs []glob.Glob
}

func compilePatterns(patterns ...string) (*matcher, error) {
	m := &matcher{globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, p, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether path matches any pattern.
// A matcher with no patterns matches everything.
func (m *matcher) Match(path string) bool {
	if len(m.globs) == 0 {
		return true
	}
	for _, g := range m.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Match reports whether the entry path matches the case-insensitive glob
// pattern.
func Match(pattern, path string) (bool, error) {
	m, err := compilePatterns(pattern)
	if err != nil {
		return false, err
	}
	return m.Match(strings.ToLower(path)), nil
}
