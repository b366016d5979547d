package config

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/entrhq/pagekit/pkg/command"
)

// CommandFilter decides which catalog entries are registered. Patterns
// treat "." as a separator, so "*" matches plain command names only,
// "assert.*" matches every assert entry and "**" matches everything.
type CommandFilter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewCommandFilter compiles include and exclude patterns.
func NewCommandFilter(include, exclude []string) (*CommandFilter, error) {
	f := &CommandFilter{}

	for _, pattern := range include {
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern '%s': %w", pattern, err)
		}
		f.include = append(f.include, g)
	}

	for _, pattern := range exclude {
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
		f.exclude = append(f.exclude, g)
	}

	return f, nil
}

// Allows returns true if the qualified name passes the filter
func (f *CommandFilter) Allows(name string) bool {
	// Exclude patterns take precedence
	for _, pattern := range f.exclude {
		if pattern.Match(name) {
			return false
		}
	}

	// If no include patterns specified, allow all (except excluded)
	if len(f.include) == 0 {
		return true
	}

	for _, pattern := range f.include {
		if pattern.Match(name) {
			return true
		}
	}

	return false
}

// Keep adapts the filter for command.WithFilter.
func (f *CommandFilter) Keep(def command.Definition) bool {
	return f.Allows(def.QualifiedName())
}
