package pageobject

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a reference that does not fit the node's
// selector definition.
type ConfigurationError struct {
	Kind   NodeKind
	Name   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s %q %s", e.Kind, e.Name, e.Reason)
}

// NotFoundError reports a reference to a name missing from the namespace
// that was searched.
type NotFoundError struct {
	Kind      NodeKind
	Name      string
	Container string
	Available []string
}

func (e *NotFoundError) Error() string {
	available := "none"
	if len(e.Available) > 0 {
		available = strings.Join(e.Available, ", ")
	}
	return fmt.Sprintf("%s %q not found in %q; available %ss: %s", e.Kind, e.Name, e.Container, e.Kind, available)
}
