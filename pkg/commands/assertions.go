package commands

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/entrhq/pagekit/pkg/command"
	"github.com/entrhq/pagekit/pkg/driver"
)

// AssertionError reports a failed assert, verify or expect check.
type AssertionError struct {
	Assertion string
	Locator   string
	Expected  string
	Actual    any
	Message   string
	Err       error
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	if e.Message != "" {
		fmt.Fprintf(&b, "%s: ", e.Message)
	}
	fmt.Fprintf(&b, "%s failed for %s: expected %s", e.Assertion, e.Locator, e.Expected)
	if e.Err != nil {
		fmt.Fprintf(&b, ", got error: %v", e.Err)
	} else {
		fmt.Fprintf(&b, ", got %v", e.Actual)
	}
	return b.String()
}

func (e *AssertionError) Unwrap() error { return e.Err }

// Expectation is the result of an expect.* command. It settles when the
// queued check runs.
type Expectation struct {
	mu        sync.Mutex
	assertion string
	settled   bool
	actual    any
	err       error
}

func newExpectation(assertion string) *Expectation {
	return &Expectation{assertion: assertion}
}

// Assertion returns the qualified assertion name, e.g. "expect.visible".
func (e *Expectation) Assertion() string { return e.assertion }

// Settled reports whether the check has run.
func (e *Expectation) Settled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settled
}

// Passed reports whether the check ran and succeeded.
func (e *Expectation) Passed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settled && e.err == nil
}

// Actual returns the value the check observed.
func (e *Expectation) Actual() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.actual
}

// Err returns the failure, or nil.
func (e *Expectation) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Expectation) settle(actual any, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settled = true
	e.actual = actual
	e.err = err
}

// check is one comparison shared by the assertion namespaces. operands
// are the string arguments that follow the selector.
type check struct {
	name     string
	operands []string
	expected func(ops []string) string
	probe    func(ctx context.Context, b driver.Backend, loc driver.Locator, ops []string) (actual any, passed bool, err error)
}

var (
	visibleCheck = check{
		name:     "visible",
		expected: func([]string) string { return "visible" },
		probe: func(ctx context.Context, b driver.Backend, loc driver.Locator, _ []string) (any, bool, error) {
			v, err := b.Visible(ctx, loc)
			return v, v, err
		},
	}

	presentCheck = check{
		name:     "present",
		expected: func([]string) string { return "present" },
		probe: func(ctx context.Context, b driver.Backend, loc driver.Locator, _ []string) (any, bool, error) {
			v, err := b.Present(ctx, loc)
			return v, v, err
		},
	}

	containsTextCheck = check{
		name:     "containsText",
		operands: []string{"expected text"},
		expected: func(ops []string) string { return fmt.Sprintf("text containing %q", ops[0]) },
		probe: func(ctx context.Context, b driver.Backend, loc driver.Locator, ops []string) (any, bool, error) {
			text, err := b.Text(ctx, loc)
			if err != nil {
				return nil, false, err
			}
			return text, strings.Contains(text, ops[0]), nil
		},
	}

	attributeEqualsCheck = check{
		name:     "attributeEquals",
		operands: []string{"attribute name", "expected value"},
		expected: func(ops []string) string { return fmt.Sprintf("attribute %s equal to %q", ops[0], ops[1]) },
		probe: func(ctx context.Context, b driver.Backend, loc driver.Locator, ops []string) (any, bool, error) {
			value, err := b.Attribute(ctx, loc, ops[0])
			if err != nil {
				return nil, false, err
			}
			return value, value == ops[1], nil
		},
	}
)

// named returns c registered under another name.
func (c check) named(name string) check {
	c.name = name
	return c
}

// assertion builds the command for c under the namespace of kind:
// (selector, operands..., [message]).
func assertion(kind command.Kind, c check) command.Func {
	qualified := command.Definition{Name: c.name, Kind: kind}.QualifiedName()

	return func(s *driver.Session, args []any) (any, error) {
		selector, err := requireSelector(qualified, args)
		if err != nil {
			return nil, err
		}
		ops := make([]string, len(c.operands))
		for i, what := range c.operands {
			if ops[i], err = stringAt(qualified, args, i+1, what); err != nil {
				return nil, err
			}
		}
		message, err := optionalString(qualified, args, len(c.operands)+1, "message")
		if err != nil {
			return nil, err
		}

		var exp *Expectation
		if kind == command.Expect {
			exp = newExpectation(qualified)
		}

		s.Enqueue(qualified, func(ctx context.Context) error {
			var (
				actual any
				passed bool
			)
			loc, err := locatorFor(s, selector)
			if err == nil {
				actual, passed, err = c.probe(ctx, s.Backend(), loc, ops)
			}

			var failure error
			if err != nil || !passed {
				failure = &AssertionError{
					Assertion: qualified,
					Locator:   describe(loc, selector),
					Expected:  c.expected(ops),
					Actual:    actual,
					Message:   message,
					Err:       err,
				}
			}
			if exp != nil {
				exp.settle(actual, failure)
			}

			if failure == nil {
				s.Logger().Debugf("%s passed for %s", qualified, loc)
				return nil
			}
			s.Errors().Record(failure)
			if kind == command.Verify {
				s.Logger().Warnf("%v", failure)
				return nil
			}
			return failure
		})

		if exp != nil {
			return exp, nil
		}
		return nil, nil
	}
}

func describe(loc driver.Locator, selector any) string {
	if loc.Strategy != "" {
		return loc.String()
	}
	return fmt.Sprintf("%v", selector)
}
