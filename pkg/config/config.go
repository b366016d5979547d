// Package config loads the pagekit runtime configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pagekit/pkg/browser"
	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/logging"
)

// Config represents the runtime configuration
type Config struct {
	// Browser launch settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Locate strategy settings
	Locate LocateConfig `yaml:"locate" json:"locate"`

	// Command registration filters
	Commands CommandsConfig `yaml:"commands" json:"commands"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics endpoint
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// BrowserConfig defines how the browser is launched
type BrowserConfig struct {
	Name           string        `yaml:"name" json:"name"` // chromium, firefox or webkit
	Headless       bool          `yaml:"headless" json:"headless"`
	Install        bool          `yaml:"install" json:"install"` // Download browser binaries on start
	ViewportWidth  int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height" json:"viewport_height"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`           // Default Playwright operation timeout
	WaitTimeout    time.Duration `yaml:"wait_timeout" json:"wait_timeout"` // Default for waitFor* commands
}

// LocateConfig defines the initial locate strategy
type LocateConfig struct {
	// Strategy is "css selector" (or "css"), "xpath" or "recursion"
	Strategy string `yaml:"strategy" json:"strategy"`
}

// CommandsConfig selects which catalog entries are registered. Patterns
// are globs over qualified names such as "click" or "assert.visible".
type CommandsConfig struct {
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// MetricsConfig defines the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Address string `yaml:"address" json:"address"`
}

// DefaultConfig returns a default configuration suitable for most use cases
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Name:           browser.DefaultBrowser,
			Headless:       true,
			ViewportWidth:  browser.DefaultViewportWidth,
			ViewportHeight: browser.DefaultViewportHeight,
			Timeout:        30 * time.Second,
			WaitTimeout:    5 * time.Second,
		},
		Locate: LocateConfig{
			Strategy: string(locate.CSS),
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
		Metrics: MetricsConfig{
			Address: ":9464",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Browser.Name {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("invalid browser: %s (must be 'chromium', 'firefox', or 'webkit')", c.Browser.Name)
	}

	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		return fmt.Errorf("viewport dimensions must be positive")
	}

	if c.Browser.Timeout < 0 {
		return fmt.Errorf("browser timeout cannot be negative")
	}

	if c.Browser.WaitTimeout < 0 {
		return fmt.Errorf("wait_timeout cannot be negative")
	}

	if _, err := locate.Parse(c.Locate.Strategy); err != nil {
		return err
	}

	if _, err := NewCommandFilter(c.Commands.Include, c.Commands.Exclude); err != nil {
		return err
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	if _, err := logging.ParseLevel(c.Logging.Verbosity); err != nil {
		return err
	}

	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return fmt.Errorf("metrics address is required when metrics are enabled")
	}

	return nil
}

// Strategy returns the configured initial locate strategy.
func (c *Config) Strategy() locate.Strategy {
	st, err := locate.Parse(c.Locate.Strategy)
	if err != nil {
		return locate.CSS
	}
	return st
}

// Level returns the configured log level.
func (c *Config) Level() logging.Level {
	level, err := logging.ParseLevel(c.Logging.Verbosity)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}

// BrowserOptions converts the browser section into launch options.
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Browser:  c.Browser.Name,
		Headless: c.Browser.Headless,
		Install:  c.Browser.Install,
		Viewport: &browser.Viewport{
			Width:  c.Browser.ViewportWidth,
			Height: c.Browser.ViewportHeight,
		},
		Timeout: float64(c.Browser.Timeout) / float64(time.Millisecond),
	}
}

// CommandFilter compiles the include and exclude patterns.
func (c *Config) CommandFilter() (*CommandFilter, error) {
	return NewCommandFilter(c.Commands.Include, c.Commands.Exclude)
}
