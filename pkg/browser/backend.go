package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagekit/pkg/driver"
	"github.com/entrhq/pagekit/pkg/locate"
)

// Backend performs driver primitives on a Playwright page.
type Backend struct {
	page playwright.Page
}

// NewBackend returns a backend for page.
func NewBackend(page playwright.Page) *Backend {
	return &Backend{page: page}
}

// Page returns the underlying Playwright page.
func (b *Backend) Page() playwright.Page {
	return b.page
}

// engineSelector prefixes selector with the Playwright engine for st.
func engineSelector(st locate.Strategy, selector string) (string, error) {
	switch st {
	case locate.CSS:
		return "css=" + selector, nil
	case locate.XPath:
		return "xpath=" + selector, nil
	}
	return "", fmt.Errorf("strategy %q has no selector engine", st)
}

// selectors returns the engine selectors to apply in order, outermost
// first.
func selectors(loc driver.Locator) ([]string, error) {
	if loc.Strategy != locate.Recursion {
		s, err := engineSelector(loc.Strategy, loc.Selector)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}

	if len(loc.Chain) == 0 {
		return nil, fmt.Errorf("ancestor chain is empty")
	}
	out := make([]string, 0, len(loc.Chain))
	for _, t := range loc.Chain {
		s, err := engineSelector(t.Strategy, t.Selector)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// element builds a Playwright locator for the first element matching loc.
func (b *Backend) element(ctx context.Context, loc driver.Locator) (playwright.Locator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	steps, err := selectors(loc)
	if err != nil {
		return nil, err
	}

	l := b.page.Locator(steps[0])
	for _, s := range steps[1:] {
		l = l.First().Locator(s)
	}
	return l.First(), nil
}

// Navigate loads url in the page.
func (b *Backend) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.page.Goto(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Click clicks the element.
func (b *Backend) Click(ctx context.Context, loc driver.Locator) error {
	l, err := b.element(ctx, loc)
	if err != nil {
		return err
	}
	if err := l.Click(); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// SetValue fills an input element with value.
func (b *Backend) SetValue(ctx context.Context, loc driver.Locator, value string) error {
	l, err := b.element(ctx, loc)
	if err != nil {
		return err
	}
	if err := l.Fill(value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// ClearValue empties an input element.
func (b *Backend) ClearValue(ctx context.Context, loc driver.Locator) error {
	l, err := b.element(ctx, loc)
	if err != nil {
		return err
	}
	if err := l.Clear(); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	return nil
}

// Text returns the element's text content.
func (b *Backend) Text(ctx context.Context, loc driver.Locator) (string, error) {
	l, err := b.element(ctx, loc)
	if err != nil {
		return "", err
	}
	text, err := l.TextContent()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return text, nil
}

// Attribute returns the value of the named attribute.
func (b *Backend) Attribute(ctx context.Context, loc driver.Locator, name string) (string, error) {
	l, err := b.element(ctx, loc)
	if err != nil {
		return "", err
	}
	value, err := l.GetAttribute(name)
	if err != nil {
		return "", fmt.Errorf("attribute lookup failed: %w", err)
	}
	return value, nil
}

// Visible reports whether the element is visible. Missing elements are
// not visible.
func (b *Backend) Visible(ctx context.Context, loc driver.Locator) (bool, error) {
	l, err := b.element(ctx, loc)
	if err != nil {
		return false, err
	}
	visible, err := l.IsVisible()
	if err != nil {
		return false, fmt.Errorf("visibility check failed: %w", err)
	}
	return visible, nil
}

// Present reports whether any element matches.
func (b *Backend) Present(ctx context.Context, loc driver.Locator) (bool, error) {
	l, err := b.element(ctx, loc)
	if err != nil {
		return false, err
	}
	n, err := l.Count()
	if err != nil {
		return false, fmt.Errorf("element count failed: %w", err)
	}
	return n > 0, nil
}

// WaitFor blocks until the element reaches state or timeout elapses.
func (b *Backend) WaitFor(ctx context.Context, loc driver.Locator, state driver.WaitState, timeout time.Duration) error {
	l, err := b.element(ctx, loc)
	if err != nil {
		return err
	}
	if err := l.WaitFor(waitOptions(state, timeout)); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

func waitOptions(state driver.WaitState, timeout time.Duration) playwright.LocatorWaitForOptions {
	opts := playwright.LocatorWaitForOptions{}
	if state != "" {
		s := playwright.WaitForSelectorState(state)
		opts.State = &s
	}
	if timeout > 0 {
		ms := float64(timeout) / float64(time.Millisecond)
		opts.Timeout = &ms
	}
	return opts
}

var _ driver.Backend = (*Backend)(nil)
