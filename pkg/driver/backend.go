package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/pageobject"
)

// WaitState is the element state a wait blocks on.
type WaitState string

const (
	WaitAttached WaitState = "attached"
	WaitVisible  WaitState = "visible"
	WaitHidden   WaitState = "hidden"
)

// Backend performs browser primitives on located elements. Methods are
// called from queued actions, never at invocation time.
type Backend interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, loc Locator) error
	SetValue(ctx context.Context, loc Locator, value string) error
	ClearValue(ctx context.Context, loc Locator) error
	Text(ctx context.Context, loc Locator) (string, error)
	Attribute(ctx context.Context, loc Locator, name string) (string, error)
	Visible(ctx context.Context, loc Locator) (bool, error)
	Present(ctx context.Context, loc Locator) (bool, error)
	WaitFor(ctx context.Context, loc Locator, state WaitState, timeout time.Duration) error
}

// Locator is a selector argument interpreted under a locate strategy.
// Under css selector and xpath it carries a single Selector; under
// recursion it carries the ancestor Chain to walk.
type Locator struct {
	Strategy locate.Strategy
	Selector string
	Chain    []pageobject.Target
}

// NewLocator interprets the first argument of a command under st.
func NewLocator(arg any, st locate.Strategy) (Locator, error) {
	switch v := arg.(type) {
	case string:
		if st == locate.Recursion {
			return Locator{}, fmt.Errorf("selector %q cannot be used with the recursion strategy", v)
		}
		if !st.Valid() {
			return Locator{}, fmt.Errorf("unknown locate strategy %q", st)
		}
		if v == "" {
			return Locator{}, fmt.Errorf("selector is required")
		}
		return Locator{Strategy: st, Selector: v}, nil

	case []pageobject.Target:
		if st != locate.Recursion {
			return Locator{}, fmt.Errorf("ancestor chain requires the recursion strategy, got %s", st)
		}
		if len(v) == 0 {
			return Locator{}, fmt.Errorf("ancestor chain is empty")
		}
		return Locator{Strategy: st, Chain: v}, nil
	}
	return Locator{}, fmt.Errorf("invalid selector argument of type %T", arg)
}

func (l Locator) String() string {
	if l.Strategy != locate.Recursion {
		return fmt.Sprintf("%s(%s)", l.Strategy, l.Selector)
	}
	parts := make([]string, len(l.Chain))
	for i, t := range l.Chain {
		parts[i] = fmt.Sprintf("%s(%s)", t.Strategy, t.Selector)
	}
	return strings.Join(parts, " > ")
}
