// Package locate manages the locate strategy a driver session uses to
// interpret selectors.
//
// A driver exposes two ways of changing its strategy. The queued primitives
// (UseCSS, UseXPath, UseRecursion) append a switch to the command queue and
// take effect when the queue reaches them. The immediate path (Restore)
// overwrites the live value at once and is only meant for code that already
// runs inside the queue, such as a completion callback.
package locate

import "fmt"

// Strategy is the mode a driver uses to interpret a selector.
type Strategy string

const (
	// CSS interprets selectors as CSS selectors.
	CSS Strategy = "css selector"

	// XPath interprets selectors as XPath expressions.
	XPath Strategy = "xpath"

	// Recursion interprets the selector argument as an ancestor chain that
	// the driver walks container by container.
	Recursion Strategy = "recursion"
)

// Valid reports whether s is one of the recognized strategies.
func (s Strategy) Valid() bool {
	switch s {
	case CSS, XPath, Recursion:
		return true
	}
	return false
}

func (s Strategy) String() string {
	return string(s)
}

// Parse converts a configuration value into a Strategy.
// "css" is accepted as shorthand for "css selector".
func Parse(value string) (Strategy, error) {
	switch value {
	case "css", string(CSS):
		return CSS, nil
	case string(XPath):
		return XPath, nil
	case string(Recursion):
		return Recursion, nil
	}
	return "", fmt.Errorf("unknown locate strategy: %q (must be 'css selector', 'xpath', or 'recursion')", value)
}

// Switcher is implemented by drivers whose strategy switches are queued
// operations.
type Switcher interface {
	UseCSS()
	UseXPath()
	UseRecursion()
	LocateStrategy() Strategy
}

// Assigner is implemented by drivers that allow the live strategy to be
// overwritten synchronously.
type Assigner interface {
	SetLocateStrategy(s Strategy)
}

// Set switches d to s through the matching queued primitive.
// Unrecognized strategies are ignored.
func Set(d Switcher, s Strategy) {
	switch s {
	case CSS:
		d.UseCSS()
	case XPath:
		d.UseXPath()
	case Recursion:
		d.UseRecursion()
	}
}

// Get returns the strategy currently in effect on d.
func Get(d Switcher) Strategy {
	return d.LocateStrategy()
}

// Restore writes s into d immediately, bypassing the queue.
// Unrecognized strategies are ignored.
func Restore(d Assigner, s Strategy) {
	if !s.Valid() {
		return
	}
	d.SetLocateStrategy(s)
}
