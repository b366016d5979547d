package command

import (
	"fmt"
	"sort"
	"sync"

	"github.com/entrhq/pagekit/pkg/driver"
	"github.com/entrhq/pagekit/pkg/logging"
	"github.com/entrhq/pagekit/pkg/pageobject"
)

type key struct {
	kind Kind
	name string
}

// Context is a page or section on which commands are registered. Targeted
// invocations resolve references relative to its node.
type Context struct {
	session *driver.Session
	page    *pageobject.Page
	node    pageobject.NodeID
	name    string
	logger  *logging.Logger

	mu       sync.RWMutex
	commands map[key]*wrapped
}

// NewContext creates a context for a page or section node.
func NewContext(session *driver.Session, page *pageobject.Page, node pageobject.NodeID) (*Context, error) {
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if page == nil {
		return nil, fmt.Errorf("page is required")
	}
	n, ok := page.Node(node)
	if !ok {
		return nil, fmt.Errorf("node %d not found in page %q", node, page.Name())
	}
	if n.Kind == pageobject.KindElement {
		return nil, fmt.Errorf("commands cannot be registered on element %q", n.Name)
	}

	return &Context{
		session:  session,
		page:     page,
		node:     node,
		name:     n.Name,
		logger:   session.Logger().With("command"),
		commands: make(map[key]*wrapped),
	}, nil
}

// Section returns a new context for the named child section. It shares the
// session but starts with no commands registered.
func (c *Context) Section(name string) (*Context, error) {
	target, err := c.page.ResolveSection(c.node, pageobject.NewRef(name))
	if err != nil {
		return nil, err
	}
	return NewContext(c.session, c.page, target.ID)
}

// Name returns the name of the page or section.
func (c *Context) Name() string { return c.name }

// Page returns the definition tree.
func (c *Context) Page() *pageobject.Page { return c.page }

// Node returns the id of the context's node.
func (c *Context) Node() pageobject.NodeID { return c.node }

// Session returns the shared driver session.
func (c *Context) Session() *driver.Session { return c.session }

// Has reports whether a command is registered.
func (c *Context) Has(kind Kind, name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.commands[key{kind, name}]
	return ok
}

// Commands returns the qualified names of every registered command, sorted.
func (c *Context) Commands() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.commands))
	for _, w := range c.commands {
		names = append(names, w.def.QualifiedName())
	}
	sort.Strings(names)
	return names
}

// Invoke calls a registered command. Chainable kinds return the context;
// Expect returns the underlying result.
func (c *Context) Invoke(kind Kind, name string, args ...any) (any, error) {
	c.mu.RLock()
	w, ok := c.commands[key{kind, name}]
	c.mu.RUnlock()
	if !ok {
		return nil, &UnknownCommandError{Kind: kind, Name: name, Target: c.name}
	}
	return w.invoke(args)
}

// Call invokes a plain command.
func (c *Context) Call(name string, args ...any) (*Context, error) {
	return c.chain(Plain, name, args)
}

// Assert invokes an assert.* command.
func (c *Context) Assert(name string, args ...any) (*Context, error) {
	return c.chain(Assert, name, args)
}

// Verify invokes a verify.* command.
func (c *Context) Verify(name string, args ...any) (*Context, error) {
	return c.chain(Verify, name, args)
}

// Expect invokes an expect.* command and returns its result.
func (c *Context) Expect(name string, args ...any) (any, error) {
	return c.Invoke(Expect, name, args...)
}

func (c *Context) chain(kind Kind, name string, args []any) (*Context, error) {
	if _, err := c.Invoke(kind, name, args...); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Context) attach(def Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{def.Kind, def.Name}
	if _, exists := c.commands[k]; exists {
		return &DuplicateCommandError{Kind: def.Kind, Name: def.Name, Target: c.name}
	}
	c.commands[k] = &wrapped{def: def, ctx: c}
	return nil
}
