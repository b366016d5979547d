package driver

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// ErrorLog counts failures and keeps a stack trace for each. It is owned
// by the runtime so failures stay visible after the code that raised them
// has returned.
type ErrorLog struct {
	mu     sync.Mutex
	errs   []error
	traces []string
}

// NewErrorLog creates an empty log.
func NewErrorLog() *ErrorLog {
	return &ErrorLog{}
}

// Record adds err to the log along with the stack of the caller.
func (l *ErrorLog) Record(err error) {
	if err == nil {
		return
	}
	traced := errors.WithStack(err)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
	l.traces = append(l.traces, fmt.Sprintf("%+v", traced))
}

// Count returns the number of recorded failures.
func (l *ErrorLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errs)
}

// Errors returns the recorded failures in order.
func (l *ErrorLog) Errors() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]error, len(l.errs))
	copy(out, l.errs)
	return out
}

// Traces returns the stack traces of the recorded failures.
func (l *ErrorLog) Traces() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.traces))
	copy(out, l.traces)
	return out
}
