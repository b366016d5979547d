package pageobject

// TemplateFunc renders a selector from the arguments of a parameterized
// reference.
type TemplateFunc func(args []string) string

// Selector is either a static selector string or a template rendered per
// reference. The zero value is an empty selector.
type Selector struct {
	text     string
	template TemplateFunc
}

// Static returns a selector with a fixed value.
func Static(s string) Selector {
	return Selector{text: s}
}

// Template returns a selector rendered from reference arguments.
func Template(fn TemplateFunc) Selector {
	return Selector{template: fn}
}

// IsTemplate reports whether the selector is rendered from arguments.
func (s Selector) IsTemplate() bool {
	return s.template != nil
}

// IsZero reports whether the selector is empty.
func (s Selector) IsZero() bool {
	return s.template == nil && s.text == ""
}

// Render returns the selector value for args. Static selectors ignore args.
func (s Selector) Render(args []string) string {
	if s.template != nil {
		return s.template(args)
	}
	return s.text
}

// String returns the static value, or "<template>" for templated selectors.
func (s Selector) String() string {
	if s.template != nil {
		return "<template>"
	}
	return s.text
}
