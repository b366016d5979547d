package pageobject

import (
	"fmt"
	"sort"

	"github.com/entrhq/pagekit/pkg/locate"
)

// NodeID identifies a node within its Page.
type NodeID int

const (
	// RootID is the page node itself.
	RootID NodeID = 0

	// NoParent marks the page root, which has no enclosing container.
	NoParent NodeID = -1
)

// NodeKind distinguishes pages, sections and elements.
type NodeKind int

const (
	KindPage NodeKind = iota
	KindSection
	KindElement
)

func (k NodeKind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindSection:
		return "section"
	case KindElement:
		return "element"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is one entry of a page definition tree.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Name     string
	Selector Selector
	Strategy locate.Strategy
	Parent   NodeID

	// Elements and Sections map child names to node ids. Only pages and
	// sections have children.
	Elements map[string]NodeID
	Sections map[string]NodeID
}

// Page is the root container of a definition tree and owns all its nodes.
// A Page is not safe for concurrent modification; build it fully before
// sharing it.
type Page struct {
	nodes           []*Node
	defaultStrategy locate.Strategy
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithDefaultStrategy sets the strategy applied to nodes added without one.
func WithDefaultStrategy(s locate.Strategy) PageOption {
	return func(p *Page) {
		p.defaultStrategy = s
	}
}

// NewPage creates a page with an empty root node.
func NewPage(name string, opts ...PageOption) *Page {
	p := &Page{defaultStrategy: locate.CSS}
	for _, opt := range opts {
		opt(p)
	}

	p.nodes = append(p.nodes, &Node{
		ID:       RootID,
		Kind:     KindPage,
		Name:     name,
		Strategy: p.defaultStrategy,
		Parent:   NoParent,
		Elements: make(map[string]NodeID),
		Sections: make(map[string]NodeID),
	})
	return p
}

// Name returns the page name.
func (p *Page) Name() string {
	return p.nodes[RootID].Name
}

// Node returns the node with the given id.
func (p *Page) Node(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(p.nodes) {
		return nil, false
	}
	return p.nodes[id], true
}

// AddSection adds a section under parent and returns its id.
func (p *Page) AddSection(parent NodeID, name string, sel Selector, strategy locate.Strategy) (NodeID, error) {
	return p.add(parent, KindSection, name, sel, strategy)
}

// AddElement adds an element under parent and returns its id.
func (p *Page) AddElement(parent NodeID, name string, sel Selector, strategy locate.Strategy) (NodeID, error) {
	return p.add(parent, KindElement, name, sel, strategy)
}

func (p *Page) add(parent NodeID, kind NodeKind, name string, sel Selector, strategy locate.Strategy) (NodeID, error) {
	if name == "" {
		return 0, fmt.Errorf("%s name cannot be empty", kind)
	}
	if sel.IsZero() {
		return 0, fmt.Errorf("%s %q: selector cannot be empty", kind, name)
	}

	container, ok := p.Node(parent)
	if !ok {
		return 0, fmt.Errorf("parent node %d not found", parent)
	}
	if container.Kind == KindElement {
		return 0, fmt.Errorf("cannot add %s %q under element %q", kind, name, container.Name)
	}

	if strategy == "" {
		strategy = p.defaultStrategy
	}
	if !strategy.Valid() {
		return 0, fmt.Errorf("%s %q: invalid locate strategy %q", kind, name, strategy)
	}

	namespace := container.Elements
	if kind == KindSection {
		namespace = container.Sections
	}
	if _, exists := namespace[name]; exists {
		return 0, fmt.Errorf("%s %q already defined in %q", kind, name, container.Name)
	}

	node := &Node{
		ID:       NodeID(len(p.nodes)),
		Kind:     kind,
		Name:     name,
		Selector: sel,
		Strategy: strategy,
		Parent:   parent,
	}
	if kind == KindSection {
		node.Elements = make(map[string]NodeID)
		node.Sections = make(map[string]NodeID)
	}

	p.nodes = append(p.nodes, node)
	namespace[name] = node.ID
	return node.ID, nil
}

// MustAddSection is like AddSection but panics on error.
// It is intended for static page definitions.
func (p *Page) MustAddSection(parent NodeID, name string, sel Selector, strategy locate.Strategy) NodeID {
	id, err := p.AddSection(parent, name, sel, strategy)
	if err != nil {
		panic(err)
	}
	return id
}

// MustAddElement is like AddElement but panics on error.
func (p *Page) MustAddElement(parent NodeID, name string, sel Selector, strategy locate.Strategy) NodeID {
	id, err := p.AddElement(parent, name, sel, strategy)
	if err != nil {
		panic(err)
	}
	return id
}

// sortedNames returns the keys of a namespace in lexical order.
func sortedNames(namespace map[string]NodeID) []string {
	names := make([]string, 0, len(namespace))
	for name := range namespace {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
