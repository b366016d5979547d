package command

import "fmt"

// RegisterOption configures Register.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	filter func(Definition) bool
}

// WithFilter registers only the definitions for which keep returns true.
func WithFilter(keep func(Definition) bool) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.filter = keep
	}
}

// Register attaches a wrapped version of every catalog entry to target.
//
// A name already registered under the same kind aborts registration with a
// DuplicateCommandError. The failure is recorded on the session error log
// and metrics first. Entries attached before the duplicate stay registered.
func Register(target *Context, catalog *Catalog, opts ...RegisterOption) error {
	if target == nil {
		return fmt.Errorf("registration target is required")
	}
	if catalog == nil {
		return fmt.Errorf("command catalog is required")
	}

	cfg := &registerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	for _, def := range catalog.Definitions() {
		if cfg.filter != nil && !cfg.filter(def) {
			target.logger.Debugf("skipping %s on %s: filtered", def.QualifiedName(), target.name)
			continue
		}

		if err := target.attach(def); err != nil {
			target.session.Errors().Record(err)
			target.session.Metrics().RegistrationError()
			target.logger.Errorf("%v", err)
			return err
		}
		target.logger.Debugf("registered %s on %s", def.QualifiedName(), target.name)
	}
	return nil
}

// Loader produces a catalog for a registration target.
type Loader func(target *Context) (*Catalog, error)

// RegisterFrom invokes load once for target and registers the result.
func RegisterFrom(target *Context, load Loader, opts ...RegisterOption) error {
	if target == nil {
		return fmt.Errorf("registration target is required")
	}
	catalog, err := load(target)
	if err != nil {
		return fmt.Errorf("failed to load commands for %q: %w", target.Name(), err)
	}
	return Register(target, catalog, opts...)
}
