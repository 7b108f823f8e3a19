package dirs

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// Filter decides which directories "add" must not record.
// In patterns "*" stays within one path segment and "**" spans segments.
type Filter struct {
	patterns []string
	globs    []glob.Glob
}

// NewFilter compiles the exclude patterns. An empty list excludes nothing.
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range patterns {
		g, err := glob.Compile(p, filepath.Separator)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, p)
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Excluded reports whether path matches a pattern, and which one.
func (f *Filter) Excluded(path string) (string, bool) {
	path = filepath.Clean(path)
	for i, g := range f.globs {
		if g.Match(path) {
			return f.patterns[i], true
		}
	}
	return "", false
}
