package commands

import (
	"time"

	"github.com/entrhq/pagekit/pkg/command"
	"github.com/entrhq/pagekit/pkg/driver"
)

// Option configures the built-in catalog.
type Option func(*options)

type options struct {
	waitTimeout time.Duration
}

// WithWaitTimeout sets the timeout used by wait commands called without
// one.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.waitTimeout = d
		}
	}
}

// Catalog returns the built-in commands and assertions.
func Catalog(opts ...Option) *command.Catalog {
	o := &options{waitTimeout: DefaultWaitTimeout}
	for _, opt := range opts {
		opt(o)
	}

	c := command.NewCatalog().
		Command("click", click, command.CallbackAt(1)).
		Command("setValue", setValue, command.CallbackAt(2)).
		Command("clearValue", clearValue, command.CallbackAt(1)).
		Command("getText", getText, command.CallbackAt(1)).
		Command("getAttribute", getAttribute, command.CallbackAt(2)).
		Command("waitForElementVisible", waitFor("waitForElementVisible", driver.WaitVisible, o.waitTimeout), command.CallbackAt(2)).
		Command("waitForElementPresent", waitFor("waitForElementPresent", driver.WaitAttached, o.waitTimeout), command.CallbackAt(2)).
		Command("url", url, command.CallbackAt(1))

	for _, kind := range []command.Kind{command.Assert, command.Verify, command.Expect} {
		for _, chk := range []check{visibleCheck, presentCheck, containsTextCheck, attributeEqualsCheck} {
			c.Assertion(kind, chk.name, assertion(kind, chk), command.CallbackSlot{})
		}
	}
	c.Assertion(command.Expect, command.SectionAssertion, assertion(command.Expect, presentCheck.named(command.SectionAssertion)), command.CallbackSlot{})
	c.Assertion(command.Expect, "text", assertion(command.Expect, containsTextCheck.named("text")), command.CallbackSlot{})

	return c
}
