package driver

// Result is what a queued command reports to its callback.
type Result struct {
	Value any
	Err   error
}

// Callback receives the result of a queued command. It is invoked from
// inside the queue with the session that ran the command.
type Callback func(s *Session, r Result)

// AsCallback reports whether arg is a callback, accepting both Callback and
// an unnamed func of the same signature.
func AsCallback(arg any) (Callback, bool) {
	switch cb := arg.(type) {
	case Callback:
		return cb, cb != nil
	case func(*Session, Result):
		return Callback(cb), cb != nil
	}
	return nil, false
}

// Notify invokes cb when arg holds a callback.
func Notify(arg any, s *Session, r Result) bool {
	cb, ok := AsCallback(arg)
	if !ok {
		return false
	}
	cb(s, r)
	return true
}
