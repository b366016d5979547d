// Package drivertest provides a recording driver.Backend for tests.
package drivertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/pagekit/pkg/driver"
)

// Call is one recorded backend call.
type Call struct {
	Method  string
	Locator driver.Locator
	Args    []any
}

// Element is the state the fake reports for a locator.
type Element struct {
	Text       string
	Attributes map[string]string
	Hidden     bool
}

// Backend records every call and answers from a map of elements keyed by
// Locator.String(). Unknown locators are treated as absent.
type Backend struct {
	mu       sync.Mutex
	calls    []Call
	Elements map[string]*Element
	URL      string

	// Fail makes the named method return this error.
	Fail map[string]error
}

// New returns an empty recording backend.
func New() *Backend {
	return &Backend{
		Elements: make(map[string]*Element),
		Fail:     make(map[string]error),
	}
}

// Add registers an element under the given locator string.
func (b *Backend) Add(locator string, el *Element) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Elements[locator] = el
	return b
}

// Calls returns the recorded calls in order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

func (b *Backend) record(method string, loc driver.Locator, args ...any) (*Element, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Call{Method: method, Locator: loc, Args: args})
	if err := b.Fail[method]; err != nil {
		return nil, err
	}
	return b.Elements[loc.String()], nil
}

func (b *Backend) require(method string, loc driver.Locator, args ...any) (*Element, error) {
	el, err := b.record(method, loc, args...)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("no element matches %s", loc)
	}
	return el, nil
}

func (b *Backend) Navigate(ctx context.Context, url string) error {
	if _, err := b.record("Navigate", driver.Locator{}, url); err != nil {
		return err
	}
	b.mu.Lock()
	b.URL = url
	b.mu.Unlock()
	return nil
}

func (b *Backend) Click(ctx context.Context, loc driver.Locator) error {
	_, err := b.require("Click", loc)
	return err
}

func (b *Backend) SetValue(ctx context.Context, loc driver.Locator, value string) error {
	el, err := b.require("SetValue", loc, value)
	if err != nil {
		return err
	}
	b.mu.Lock()
	el.Text = value
	b.mu.Unlock()
	return nil
}

func (b *Backend) ClearValue(ctx context.Context, loc driver.Locator) error {
	el, err := b.require("ClearValue", loc)
	if err != nil {
		return err
	}
	b.mu.Lock()
	el.Text = ""
	b.mu.Unlock()
	return nil
}

func (b *Backend) Text(ctx context.Context, loc driver.Locator) (string, error) {
	el, err := b.require("Text", loc)
	if err != nil {
		return "", err
	}
	return el.Text, nil
}

func (b *Backend) Attribute(ctx context.Context, loc driver.Locator, name string) (string, error) {
	el, err := b.require("Attribute", loc, name)
	if err != nil {
		return "", err
	}
	return el.Attributes[name], nil
}

func (b *Backend) Visible(ctx context.Context, loc driver.Locator) (bool, error) {
	el, err := b.record("Visible", loc)
	if err != nil {
		return false, err
	}
	return el != nil && !el.Hidden, nil
}

func (b *Backend) Present(ctx context.Context, loc driver.Locator) (bool, error) {
	el, err := b.record("Present", loc)
	if err != nil {
		return false, err
	}
	return el != nil, nil
}

func (b *Backend) WaitFor(ctx context.Context, loc driver.Locator, state driver.WaitState, timeout time.Duration) error {
	el, err := b.record("WaitFor", loc, state, timeout)
	if err != nil {
		return err
	}
	switch state {
	case driver.WaitAttached:
		if el != nil {
			return nil
		}
	case driver.WaitVisible:
		if el != nil && !el.Hidden {
			return nil
		}
	case driver.WaitHidden:
		if el == nil || el.Hidden {
			return nil
		}
	}
	return fmt.Errorf("timed out after %s waiting for %s to be %s", timeout, loc, state)
}

var _ driver.Backend = (*Backend)(nil)
