package pageobject

// Chain returns the ancestor chain of t ordered from the outermost enclosing
// section down to t itself. Only ancestors with a selector are included, so
// the page root never appears; a templated ancestor is rendered without
// arguments. The result always contains t.
func (p *Page) Chain(t Target) []Target {
	chain := []Target{t}

	parent, ok := p.Node(t.Parent)
	for ok && !parent.Selector.IsZero() {
		chain = append([]Target{targetOf(parent, nil)}, chain...)
		parent, ok = p.Node(parent.Parent)
	}
	return chain
}
