package host

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// OthersPattern selects every image window except the active one.
const OthersPattern = `\Others`

// TitleMatcher matches window titles against a close() pattern. "*" and "?" are
// wildcards; a pattern without wildcards must match the title exactly.
type TitleMatcher struct {
	pattern string
	g       glob.Glob
}

// NewTitleMatcher compiles pattern.
func NewTitleMatcher(pattern string) (*TitleMatcher, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}
	return &TitleMatcher{pattern: pattern, g: g}, nil
}

// Match reports whether title matches the pattern.
func (m *TitleMatcher) Match(title string) bool {
	return m.g.Match(title)
}

// HasWildcards reports whether the pattern contains glob metacharacters.
func (m *TitleMatcher) HasWildcards() bool {
	return strings.ContainsAny(m.pattern, "*?[")
}
