package commands

import (
	"fmt"
	"time"

	"github.com/entrhq/pagekit/pkg/driver"
)

func requireSelector(name string, args []any) (any, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, fmt.Errorf("%s: selector argument is required", name)
	}
	return args[0], nil
}

// stringAt returns args[i] as a string.
func stringAt(name string, args []any, i int, what string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%s: %s is required", name, what)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("%s: %s must be a string, got %T", name, what, args[i])
	}
	return s, nil
}

// optionalString returns args[i] as a string, or "" when it is absent.
func optionalString(name string, args []any, i int, what string) (string, error) {
	if i >= len(args) || args[i] == nil {
		return "", nil
	}
	return stringAt(name, args, i, what)
}

// timeoutAt reads an optional timeout in milliseconds. Durations are
// accepted as is.
func timeoutAt(name string, args []any, i int, def time.Duration) (time.Duration, error) {
	if i >= len(args) || args[i] == nil {
		return def, nil
	}

	var d time.Duration
	switch v := args[i].(type) {
	case time.Duration:
		d = v
	case int:
		d = time.Duration(v) * time.Millisecond
	case int64:
		d = time.Duration(v) * time.Millisecond
	case float64:
		d = time.Duration(v * float64(time.Millisecond))
	default:
		return 0, fmt.Errorf("%s: timeout must be a number of milliseconds, got %T", name, args[i])
	}

	if d < 0 || d > MaxWaitTimeout {
		return 0, fmt.Errorf("%s: timeout must be between 0 and %s", name, MaxWaitTimeout)
	}
	return d, nil
}

// callbackAt returns the argument at the declared callback slot.
func callbackAt(args []any, i int) any {
	if i < len(args) {
		if _, ok := driver.AsCallback(args[i]); ok {
			return args[i]
		}
	}
	return nil
}
