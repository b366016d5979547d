// Package harness assembles a configured pagekit runtime: logger, metrics,
// browser, driver session and the built-in command catalog.
package harness

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/entrhq/pagekit/pkg/browser"
	"github.com/entrhq/pagekit/pkg/command"
	"github.com/entrhq/pagekit/pkg/commands"
	"github.com/entrhq/pagekit/pkg/config"
	"github.com/entrhq/pagekit/pkg/driver"
	"github.com/entrhq/pagekit/pkg/logging"
	"github.com/entrhq/pagekit/pkg/metrics"
	"github.com/entrhq/pagekit/pkg/pageobject"
)

// Harness owns the runtime pieces built from a Config.
type Harness struct {
	cfg      *config.Config
	logger   *logging.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collector
	filter   *config.CommandFilter
	manager  *browser.Manager
	session  *driver.Session
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger replaces the file logger.
func WithLogger(logger *logging.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// New builds a harness from cfg. The browser is not started.
func New(cfg *config.Config, opts ...Option) (*Harness, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	filter, err := cfg.CommandFilter()
	if err != nil {
		return nil, err
	}

	h := &Harness{cfg: cfg, filter: filter}
	for _, opt := range opts {
		opt(h)
	}

	if h.logger == nil {
		// On error NewLogger falls back to stderr and says so.
		h.logger, _ = logging.NewLogger("pagekit")
	}
	h.logger.SetLevel(cfg.Level())

	if cfg.Metrics.Enabled {
		h.registry = prometheus.NewRegistry()
		if h.metrics, err = metrics.NewCollector(h.registry); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	return h, nil
}

// Config returns the configuration the harness was built from.
func (h *Harness) Config() *config.Config { return h.cfg }

// Logger returns the harness logger.
func (h *Harness) Logger() *logging.Logger { return h.logger }

// Registry returns the metrics registry, or nil when metrics are disabled.
func (h *Harness) Registry() *prometheus.Registry { return h.registry }

// Session returns the driver session, or nil before Start.
func (h *Harness) Session() *driver.Session { return h.session }

// Start launches the configured browser and creates the session.
func (h *Harness) Start() error {
	if h.session != nil {
		return fmt.Errorf("harness already started")
	}

	h.manager = browser.NewManager(h.cfg.BrowserOptions())
	if err := h.manager.Initialize(); err != nil {
		return err
	}
	backend, err := h.manager.Launch()
	if err != nil {
		_ = h.manager.Shutdown()
		return err
	}

	opts := h.manager.Options()
	h.logger.Infof("launched %s (headless=%t)", opts.Browser, opts.Headless)
	return h.StartWith(backend)
}

// StartWith creates the session on an existing backend.
func (h *Harness) StartWith(backend driver.Backend) error {
	if h.session != nil {
		return fmt.Errorf("harness already started")
	}
	h.session = driver.NewSession(backend,
		driver.WithLogger(h.logger.With("driver")),
		driver.WithMetrics(h.metrics),
		driver.WithStrategy(h.cfg.Strategy()),
	)
	return nil
}

// Catalog returns the built-in catalog with the configured wait timeout.
func (h *Harness) Catalog() *command.Catalog {
	return commands.Catalog(commands.WithWaitTimeout(h.cfg.Browser.WaitTimeout))
}

// Register attaches the filtered built-in catalog to ctx.
func (h *Harness) Register(ctx *command.Context) error {
	return command.Register(ctx, h.Catalog(), command.WithFilter(h.filter.Keep))
}

// Page returns the root context of page with the catalog registered.
func (h *Harness) Page(page *pageobject.Page) (*command.Context, error) {
	if h.session == nil {
		return nil, fmt.Errorf("harness not started")
	}
	ctx, err := command.NewContext(h.session, page, pageobject.RootID)
	if err != nil {
		return nil, err
	}
	if err := h.Register(ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Section returns the context of a child section with the catalog
// registered.
func (h *Harness) Section(parent *command.Context, name string) (*command.Context, error) {
	ctx, err := parent.Section(name)
	if err != nil {
		return nil, err
	}
	if err := h.Register(ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Run drains the session queue.
func (h *Harness) Run(ctx context.Context) error {
	if h.session == nil {
		return fmt.Errorf("harness not started")
	}
	return h.session.Run(ctx)
}

// ServeMetrics serves the registry on the configured address until ctx is
// done. It returns immediately when metrics are disabled.
func (h *Harness) ServeMetrics(ctx context.Context) error {
	if h.registry == nil {
		return nil
	}

	srv := &http.Server{
		Addr:              h.cfg.Metrics.Address,
		Handler:           metricsMux(h.registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		h.logger.Infof("serving metrics on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		return nil
	}
}

func metricsMux(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	return mux
}

// Close shuts the browser down and closes the logger.
func (h *Harness) Close() error {
	var err error
	if h.manager != nil {
		err = h.manager.Shutdown()
		h.manager = nil
	}
	if closeErr := h.logger.Close(); err == nil {
		err = closeErr
	}
	return err
}
