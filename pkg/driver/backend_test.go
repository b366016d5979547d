package driver

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/pageobject"
)

func TestNewLocator(t *testing.T) {
	chain := []pageobject.Target{
		{Name: "form", Selector: "form", Strategy: locate.CSS},
		{Name: "submit", Selector: "//button", Strategy: locate.XPath},
	}

	tests := []struct {
		name        string
		arg         any
		strategy    locate.Strategy
		want        string
		expectError string
	}{
		{name: "css", arg: "#submit", strategy: locate.CSS, want: "css selector(#submit)"},
		{name: "xpath", arg: "//h1", strategy: locate.XPath, want: "xpath(//h1)"},
		{name: "chain", arg: chain, strategy: locate.Recursion, want: "css selector(form) > xpath(//button)"},
		{name: "string under recursion", arg: "#submit", strategy: locate.Recursion, expectError: "recursion"},
		{name: "chain under css", arg: chain, strategy: locate.CSS, expectError: "requires the recursion strategy"},
		{name: "empty chain", arg: []pageobject.Target{}, strategy: locate.Recursion, expectError: "empty"},
		{name: "empty selector", arg: "", strategy: locate.CSS, expectError: "required"},
		{name: "unknown strategy", arg: "a", strategy: "id", expectError: "unknown locate strategy"},
		{name: "wrong type", arg: 42, strategy: locate.CSS, expectError: "type int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := NewLocator(tt.arg, tt.strategy)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc.String())
		})
	}
}

func TestAsCallback(t *testing.T) {
	called := 0
	var named Callback = func(*Session, Result) { called++ }
	unnamed := func(*Session, Result) { called++ }

	for _, arg := range []any{named, unnamed} {
		assert.True(t, Notify(arg, nil, Result{}))
	}
	assert.Equal(t, 2, called)

	_, ok := AsCallback("message")
	assert.False(t, ok)
	_, ok = AsCallback(Callback(nil))
	assert.False(t, ok)
	assert.False(t, Notify(5000, nil, Result{}))
}

func TestErrorLog(t *testing.T) {
	log := NewErrorLog()
	log.Record(nil)
	assert.Equal(t, 0, log.Count())

	first := errors.New("duplicate command click")
	log.Record(first)
	log.Record(errors.New("assertion failed"))

	assert.Equal(t, 2, log.Count())
	assert.Equal(t, first, log.Errors()[0])

	traces := log.Traces()
	require.Len(t, traces, 2)
	assert.True(t, strings.HasPrefix(traces[0], "duplicate command click"))
	assert.Contains(t, traces[0], "TestErrorLog", "trace includes the recording frame")
}
