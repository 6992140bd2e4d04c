package suite

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Filter selects steps by name with glob patterns.
type Filter struct {
	only []glob.Glob
	skip []glob.Glob
}

// NewFilter compiles the only and skip patterns. Skip patterns take
// precedence; with no only patterns every step not skipped runs.
func NewFilter(only, skip []string) (*Filter, error) {
	f := &Filter{}

	for _, pattern := range only {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid only pattern '%s': %w", pattern, err)
		}
		f.only = append(f.only, g)
	}

	for _, pattern := range skip {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid skip pattern '%s': %w", pattern, err)
		}
		f.skip = append(f.skip, g)
	}

	return f, nil
}

// Match reports whether the step named name should run. A nil filter
// matches everything.
func (f *Filter) Match(name string) bool {
	if f == nil {
		return true
	}

	for _, pattern := range f.skip {
		if pattern.Match(name) {
			return false
		}
	}

	if len(f.only) == 0 {
		return true
	}

	for _, pattern := range f.only {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}
