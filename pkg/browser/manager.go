package browser

import (
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Default values for launched browsers.
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultBrowser        = "chromium"
)

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Options configures the launched browser.
type Options struct {
	// Browser is one of "chromium", "firefox" or "webkit".
	Browser string

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64

	// Install downloads the browser binaries before starting Playwright.
	Install bool
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	if o.Browser == "" {
		o.Browser = DefaultBrowser
	}
	if o.Viewport == nil {
		o.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Validate checks the options.
func (o Options) Validate() error {
	switch o.Browser {
	case "", "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("unknown browser %q (must be 'chromium', 'firefox', or 'webkit')", o.Browser)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if o.Viewport != nil && (o.Viewport.Width <= 0 || o.Viewport.Height <= 0) {
		return fmt.Errorf("viewport dimensions must be positive")
	}
	return nil
}

// Manager owns the Playwright runtime and the launched browser.
type Manager struct {
	mu          sync.Mutex
	opts        Options
	playwright  *playwright.Playwright
	browser     playwright.Browser
	context     playwright.BrowserContext
	page        playwright.Page
	initialized bool
}

// NewManager creates a manager. Nothing is started until Initialize.
func NewManager(opts Options) *Manager {
	return &Manager{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (m *Manager) Options() Options {
	return m.opts
}

// Initialize starts the Playwright driver, installing it first when
// requested. It must be called before Launch.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := m.opts.Validate(); err != nil {
		return err
	}

	runOpts := &playwright.RunOptions{
		Browsers: []string{m.opts.Browser},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if m.opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// Launch starts the browser and returns a Backend bound to a new page.
func (m *Manager) Launch() (*Backend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("browser manager not initialized")
	}
	if m.page != nil {
		return nil, fmt.Errorf("browser already launched")
	}

	browserType := m.browserType()
	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &m.opts.Headless,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  m.opts.Viewport.Width,
			Height: m.opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(m.opts.Timeout)

	m.browser = browser
	m.context = context
	m.page = page
	return NewBackend(page), nil
}

func (m *Manager) browserType() playwright.BrowserType {
	switch m.opts.Browser {
	case "firefox":
		return m.playwright.Firefox
	case "webkit":
		return m.playwright.WebKit
	}
	return m.playwright.Chromium
}

// Shutdown closes the browser and stops Playwright.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page != nil {
		_ = m.page.Close()    // Ignore errors, continue cleanup
		_ = m.context.Close() // Ignore errors, continue cleanup
		_ = m.browser.Close() // Ignore errors, continue cleanup
		m.page, m.context, m.browser = nil, nil, nil
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}
	return nil
}
