package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/command"
	"github.com/entrhq/pagekit/pkg/driver"
)

func TestCommandFilter_Allows(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		command string
		want    bool
	}{
		{
			name:    "no patterns - allow all",
			command: "assert.visible",
			want:    true,
		},
		{
			name:    "star matches plain commands",
			include: []string{"*"},
			command: "click",
			want:    true,
		},
		{
			name:    "star does not cross namespaces",
			include: []string{"*"},
			command: "assert.visible",
			want:    false,
		},
		{
			name:    "namespace pattern",
			include: []string{"verify.*"},
			command: "verify.containsText",
			want:    true,
		},
		{
			name:    "super star matches everything",
			include: []string{"**"},
			command: "expect.section",
			want:    true,
		},
		{
			name:    "exclude takes precedence",
			include: []string{"**"},
			exclude: []string{"*.attributeEquals"},
			command: "assert.attributeEquals",
			want:    false,
		},
		{
			name:    "alternatives",
			include: []string{"{click,setValue}"},
			command: "setValue",
			want:    true,
		},
		{
			name:    "name not included",
			include: []string{"waitFor*"},
			command: "click",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewCommandFilter(tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Allows(tt.command))
		})
	}
}

func TestCommandFilter_InvalidPatterns(t *testing.T) {
	_, err := NewCommandFilter([]string{"[a"}, nil)
	assert.ErrorContains(t, err, "invalid include pattern '[a'")

	_, err = NewCommandFilter(nil, []string{"[b"})
	assert.ErrorContains(t, err, "invalid exclude pattern '[b'")
}

func TestCommandFilter_Keep(t *testing.T) {
	f, err := NewCommandFilter(nil, []string{"expect.*"})
	require.NoError(t, err)

	fn := func(*driver.Session, []any) (any, error) { return nil, nil }
	assert.True(t, f.Keep(command.Definition{Name: "visible", Kind: command.Assert, Fn: fn}))
	assert.False(t, f.Keep(command.Definition{Name: "visible", Kind: command.Expect, Fn: fn}))
}
