package pageobject

import (
	"fmt"

	"github.com/entrhq/pagekit/pkg/locate"
)

// Target is a resolved element or section: a value copy of the base node
// with a concrete selector. ID and Parent refer back into the Page.
type Target struct {
	ID       NodeID
	Kind     NodeKind
	Name     string
	Selector string
	Strategy locate.Strategy
	Parent   NodeID
}

func (t Target) String() string {
	return fmt.Sprintf("%s %q (%s: %s)", t.Kind, t.Name, t.Strategy, t.Selector)
}

// Resolve looks ref up in the element namespace of container.
func (p *Page) Resolve(container NodeID, ref Ref) (Target, error) {
	return p.resolve(container, KindElement, ref)
}

// ResolveSection looks ref up in the section namespace of container.
func (p *Page) ResolveSection(container NodeID, ref Ref) (Target, error) {
	return p.resolve(container, KindSection, ref)
}

func (p *Page) resolve(container NodeID, kind NodeKind, ref Ref) (Target, error) {
	parent, ok := p.Node(container)
	if !ok {
		return Target{}, fmt.Errorf("container node %d not found", container)
	}

	namespace := parent.Elements
	if kind == KindSection {
		namespace = parent.Sections
	}

	id, ok := namespace[ref.Name]
	if !ok {
		return Target{}, &NotFoundError{
			Kind:      kind,
			Name:      ref.Name,
			Container: parent.Name,
			Available: sortedNames(namespace),
		}
	}
	base := p.nodes[id]

	switch {
	case ref.Parameterized() && !base.Selector.IsTemplate():
		return Target{}, &ConfigurationError{
			Kind:   kind,
			Name:   base.Name,
			Reason: "was called as a dynamic target with a non-function selector",
		}
	case !ref.Parameterized() && base.Selector.IsTemplate():
		return Target{}, &ConfigurationError{
			Kind:   kind,
			Name:   base.Name,
			Reason: "has a templated selector and must be referenced with arguments",
		}
	}

	return targetOf(base, ref.Args), nil
}

func targetOf(n *Node, args []string) Target {
	return Target{
		ID:       n.ID,
		Kind:     n.Kind,
		Name:     n.Name,
		Selector: n.Selector.Render(args),
		Strategy: n.Strategy,
		Parent:   n.Parent,
	}
}
