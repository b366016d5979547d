package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/pagekit/pkg/command"
	"github.com/entrhq/pagekit/pkg/driver"
)

// Default values for element commands.
const (
	DefaultWaitTimeout = 5 * time.Second
	MaxWaitTimeout     = 5 * time.Minute
)

// elementFunc performs one backend call on a located element.
type elementFunc func(ctx context.Context, b driver.Backend, loc driver.Locator) (any, error)

// locatorFor interprets selector under the session's live strategy.
func locatorFor(s *driver.Session, selector any) (driver.Locator, error) {
	if s.Backend() == nil {
		return driver.Locator{}, fmt.Errorf("session has no backend")
	}
	return driver.NewLocator(selector, s.LocateStrategy())
}

// enqueue schedules run as the action of command name.
func enqueue(s *driver.Session, name string, selector any, cb any, run elementFunc) {
	s.Enqueue(name, func(ctx context.Context) error {
		loc, err := locatorFor(s, selector)
		var value any
		if err == nil {
			value, err = run(ctx, s.Backend(), loc)
		}
		return settle(s, name, cb, value, err)
	})
}

// settle delivers a result to cb. A callback takes ownership of the
// failure; without one the failure is returned and stops the queue.
func settle(s *driver.Session, name string, cb any, value any, err error) error {
	if !driver.Notify(cb, s, driver.Result{Value: value, Err: err}) {
		return err
	}
	if err != nil {
		s.Errors().Record(fmt.Errorf("%s: %w", name, err))
		s.Logger().Warnf("%s failed, reported to callback: %v", name, err)
	}
	return nil
}

func click(s *driver.Session, args []any) (any, error) {
	selector, err := requireSelector("click", args)
	if err != nil {
		return nil, err
	}
	enqueue(s, "click", selector, callbackAt(args, 1), func(ctx context.Context, b driver.Backend, loc driver.Locator) (any, error) {
		return nil, b.Click(ctx, loc)
	})
	return nil, nil
}

func setValue(s *driver.Session, args []any) (any, error) {
	selector, err := requireSelector("setValue", args)
	if err != nil {
		return nil, err
	}
	value, err := stringAt("setValue", args, 1, "value")
	if err != nil {
		return nil, err
	}
	enqueue(s, "setValue", selector, callbackAt(args, 2), func(ctx context.Context, b driver.Backend, loc driver.Locator) (any, error) {
		return nil, b.SetValue(ctx, loc, value)
	})
	return nil, nil
}

func clearValue(s *driver.Session, args []any) (any, error) {
	selector, err := requireSelector("clearValue", args)
	if err != nil {
		return nil, err
	}
	enqueue(s, "clearValue", selector, callbackAt(args, 1), func(ctx context.Context, b driver.Backend, loc driver.Locator) (any, error) {
		return nil, b.ClearValue(ctx, loc)
	})
	return nil, nil
}

func getText(s *driver.Session, args []any) (any, error) {
	selector, err := requireSelector("getText", args)
	if err != nil {
		return nil, err
	}
	enqueue(s, "getText", selector, callbackAt(args, 1), func(ctx context.Context, b driver.Backend, loc driver.Locator) (any, error) {
		return b.Text(ctx, loc)
	})
	return nil, nil
}

func getAttribute(s *driver.Session, args []any) (any, error) {
	selector, err := requireSelector("getAttribute", args)
	if err != nil {
		return nil, err
	}
	attr, err := stringAt("getAttribute", args, 1, "attribute name")
	if err != nil {
		return nil, err
	}
	enqueue(s, "getAttribute", selector, callbackAt(args, 2), func(ctx context.Context, b driver.Backend, loc driver.Locator) (any, error) {
		return b.Attribute(ctx, loc, attr)
	})
	return nil, nil
}

// waitFor builds waitForElementVisible and waitForElementPresent:
// (selector, [timeout ms], [callback], [message]).
func waitFor(name string, state driver.WaitState, def time.Duration) command.Func {
	return func(s *driver.Session, args []any) (any, error) {
		selector, err := requireSelector(name, args)
		if err != nil {
			return nil, err
		}
		timeout, err := timeoutAt(name, args, 1, def)
		if err != nil {
			return nil, err
		}
		message, err := optionalString(name, args, 3, "message")
		if err != nil {
			return nil, err
		}

		enqueue(s, name, selector, callbackAt(args, 2), func(ctx context.Context, b driver.Backend, loc driver.Locator) (any, error) {
			start := time.Now()
			if err := b.WaitFor(ctx, loc, state, timeout); err != nil {
				return false, err
			}
			if message != "" {
				s.Logger().Infof("%s", message)
			} else {
				s.Logger().Debugf("%s was %s after %s", loc, state, time.Since(start).Round(time.Millisecond))
			}
			return true, nil
		})
		return nil, nil
	}
}

// url navigates the page: (address, [callback]). It takes no selector.
func url(s *driver.Session, args []any) (any, error) {
	address, err := stringAt("url", args, 0, "address")
	if err != nil {
		return nil, err
	}
	if address == "" {
		return nil, fmt.Errorf("url: address cannot be empty")
	}
	cb := callbackAt(args, 1)

	s.Enqueue("url", func(ctx context.Context) error {
		if s.Backend() == nil {
			return settle(s, "url", cb, nil, fmt.Errorf("session has no backend"))
		}
		err := s.Backend().Navigate(ctx, address)
		return settle(s, "url", cb, address, err)
	})
	return nil, nil
}
