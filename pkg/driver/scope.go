package driver

import (
	"sync"
	"sync/atomic"

	"github.com/entrhq/pagekit/pkg/locate"
)

// Scope is the strategy switch of one targeted invocation. Close releases
// it by enqueueing a switch back to the previous strategy, unless the
// release was handed to a callback with Defer.
//
//	scope := session.Switch(target.Strategy)
//	defer scope.Close()
type Scope struct {
	session  *Session
	previous locate.Strategy
	token    *RestoreToken
	closed   bool
	switched *atomic.Bool
}

// Switch captures the pending strategy and enqueues a switch to st.
func (s *Session) Switch(st locate.Strategy) *Scope {
	scope := &Scope{
		session:  s,
		previous: s.PendingStrategy(),
		switched: new(atomic.Bool),
	}
	if !st.Valid() {
		scope.switched.Store(true)
		return scope
	}
	s.enqueueSwitchThen(st, func() { scope.switched.Store(true) })
	s.metrics.StrategySwitch(string(st))
	return scope
}

// Previous returns the strategy captured before the switch.
func (sc *Scope) Previous() locate.Strategy {
	return sc.previous
}

// Defer hands restoration to the returned token. Close becomes a no-op
// for the queue; the token restores the previous strategy immediately when
// its callback fires. The callback runs inside the invocation's last queued
// action, so the pending strategy is the previous one from here on.
func (sc *Scope) Defer() *RestoreToken {
	if sc.token == nil {
		sc.token = &RestoreToken{session: sc.session, previous: sc.previous, switched: sc.switched}
		sc.session.setPending(sc.previous)
	}
	return sc.token
}

// Reclaim takes restoration back from a deferred token, for invocations
// that failed before their callback could be scheduled. The token is
// spent so a late callback does not restore a second time.
func (sc *Scope) Reclaim() {
	if sc.token == nil {
		return
	}
	sc.token.once.Do(func() {})
	sc.token = nil
}

// Close enqueues the switch back to the previous strategy unless
// restoration was deferred. It is safe to call more than once.
func (sc *Scope) Close() {
	if sc.closed {
		return
	}
	sc.closed = true

	if sc.token != nil {
		return
	}
	locate.Set(sc.session, sc.previous)
}

// RestoreToken restores a captured strategy at most once.
type RestoreToken struct {
	session  *Session
	previous locate.Strategy
	switched *atomic.Bool
	once     sync.Once
}

// Previous returns the strategy the token restores.
func (t *RestoreToken) Previous() locate.Strategy {
	return t.previous
}

// Restore writes the captured strategy into the live session value. A
// callback fired before its switch has run gets a queued restore instead,
// so the switch cannot outlive it.
func (t *RestoreToken) Restore() {
	t.once.Do(func() {
		if t.switched.Load() {
			locate.Restore(t.session, t.previous)
			return
		}
		locate.Set(t.session, t.previous)
	})
}
