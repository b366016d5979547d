package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/logging"
	"github.com/entrhq/pagekit/pkg/metrics"
)

// Action is one queued unit of work.
type Action struct {
	Name string
	Run  func(ctx context.Context) error
}

// Session holds the state shared by every command invocation against one
// backend: the live locate strategy, the command queue and the error log.
type Session struct {
	mu sync.Mutex

	// strategy is the live value seen by executing actions. tail is the
	// value that will be live once every queued action has run.
	strategy locate.Strategy
	tail     locate.Strategy

	queue    []Action
	draining bool

	backend Backend
	errors  *ErrorLog
	logger  *logging.Logger
	metrics *metrics.Collector
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMetrics sets the collector that observes queued actions.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Session) {
		s.metrics = c
	}
}

// WithStrategy sets the initial locate strategy (default: css selector).
func WithStrategy(st locate.Strategy) Option {
	return func(s *Session) {
		if st.Valid() {
			s.strategy = st
			s.tail = st
		}
	}
}

// WithErrorLog shares an existing error log with the session.
func WithErrorLog(log *ErrorLog) Option {
	return func(s *Session) {
		s.errors = log
	}
}

// NewSession creates a session driving backend.
func NewSession(backend Backend, opts ...Option) *Session {
	s := &Session{
		strategy: locate.CSS,
		tail:     locate.CSS,
		backend:  backend,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errors == nil {
		s.errors = NewErrorLog()
	}
	return s
}

// Backend returns the automation backend.
func (s *Session) Backend() Backend {
	return s.backend
}

// Errors returns the session error log.
func (s *Session) Errors() *ErrorLog {
	return s.errors
}

// Logger returns the session logger, which may be nil.
func (s *Session) Logger() *logging.Logger {
	return s.logger
}

// Metrics returns the session collector, which may be nil.
func (s *Session) Metrics() *metrics.Collector {
	return s.metrics
}

// LocateStrategy returns the live locate strategy.
func (s *Session) LocateStrategy() locate.Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy
}

// PendingStrategy returns the strategy that will be live after every
// currently queued action has run.
func (s *Session) PendingStrategy() locate.Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tail
}

// SetLocateStrategy overwrites the live strategy immediately. When the
// queue is idle the pending strategy follows.
func (s *Session) SetLocateStrategy(st locate.Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strategy = st
	if len(s.queue) == 0 && !s.draining {
		s.tail = st
	}
}

// UseCSS enqueues a switch to CSS selectors.
func (s *Session) UseCSS() { s.enqueueSwitch(locate.CSS) }

// UseXPath enqueues a switch to XPath.
func (s *Session) UseXPath() { s.enqueueSwitch(locate.XPath) }

// UseRecursion enqueues a switch to recursive chain resolution.
func (s *Session) UseRecursion() { s.enqueueSwitch(locate.Recursion) }

func (s *Session) enqueueSwitch(st locate.Strategy) {
	s.enqueueSwitchThen(st, nil)
}

// enqueueSwitchThen enqueues a switch to st and calls done once it is live.
func (s *Session) enqueueSwitchThen(st locate.Strategy, done func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tail = st
	s.queue = append(s.queue, Action{
		Name: "use " + string(st),
		Run: func(context.Context) error {
			s.mu.Lock()
			s.strategy = st
			s.mu.Unlock()
			s.logger.Debugf("locate strategy is now %s", st)
			if done != nil {
				done()
			}
			return nil
		},
	})
}

// Enqueue appends an action to the queue.
func (s *Session) Enqueue(name string, run func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, Action{Name: name, Run: run})
}

// Pending returns the number of queued actions.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Run drains the queue in FIFO order, including actions enqueued while
// draining. It returns the first action error, leaving the remaining
// actions queued, or the context error if ctx is done between actions.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return fmt.Errorf("session queue is already running")
	}
	s.draining = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.draining = false
		if len(s.queue) == 0 {
			s.tail = s.strategy
		}
		s.mu.Unlock()
	}()

	executed := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			break
		}
		action := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		start := time.Now()
		err := action.Run(ctx)
		s.metrics.Action(action.Name, time.Since(start).Seconds(), err)
		executed++

		if err != nil {
			s.logger.Errorf("action %q failed: %v", action.Name, err)
			return fmt.Errorf("%s: %w", action.Name, err)
		}
	}

	s.logger.Debugf("queue drained: %d actions", executed)
	return nil
}

// Reset discards every queued action. The live strategy jumps to the
// pending one, which is where the discarded restores would have left it.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
	s.strategy = s.tail
}

func (s *Session) setPending(st locate.Strategy) {
	if !st.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tail = st
}
