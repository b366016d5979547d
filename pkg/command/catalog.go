package command

import (
	"fmt"

	"github.com/entrhq/pagekit/pkg/driver"
)

// Kind selects the namespace a command is registered under.
type Kind int

const (
	// Plain commands are called directly: ctx.Call("click", ...).
	Plain Kind = iota
	// Assert commands stop the queue on failure.
	Assert
	// Verify commands record failures and let the queue continue.
	Verify
	// Expect commands return the underlying result instead of the context.
	Expect
)

// Namespace returns the keyword a kind is registered under. Plain commands
// have none.
func (k Kind) Namespace() string {
	switch k {
	case Assert:
		return "assert"
	case Verify:
		return "verify"
	case Expect:
		return "expect"
	}
	return ""
}

func (k Kind) String() string {
	if k == Plain {
		return "command"
	}
	return k.Namespace()
}

// Valid reports whether k is one of the four kinds.
func (k Kind) Valid() bool {
	return k >= Plain && k <= Expect
}

// Chainless reports whether invocations return the underlying result.
func (k Kind) Chainless() bool {
	return k == Expect
}

// ParseKind maps a namespace keyword onto a Kind. The empty string is Plain.
func ParseKind(namespace string) (Kind, error) {
	switch namespace {
	case "":
		return Plain, nil
	case "assert":
		return Assert, nil
	case "verify":
		return Verify, nil
	case "expect":
		return Expect, nil
	}
	return Plain, fmt.Errorf("unknown command namespace %q (must be 'assert', 'verify', or 'expect')", namespace)
}

// SectionAssertion is the reserved name whose targets are resolved in the
// section namespace instead of the element namespace.
const SectionAssertion = "section"

// Func is an underlying command. It receives the session and the final
// argument list; for targeted invocations args[0] is the resolved selector
// string or the ancestor chain. Most commands enqueue their work and return
// immediately.
type Func func(s *driver.Session, args []any) (any, error)

// CallbackSlot declares the fixed argument index of a command's completion
// callback, counting the selector as index 0. The zero value declares no
// callback.
type CallbackSlot struct {
	index int
	set   bool
}

// CallbackAt declares the callback at argument index i.
func CallbackAt(i int) CallbackSlot {
	return CallbackSlot{index: i, set: true}
}

// Index returns the declared index and whether a callback is accepted.
func (c CallbackSlot) Index() (int, bool) {
	return c.index, c.set
}

// Definition describes one catalog entry.
type Definition struct {
	Name     string
	Kind     Kind
	Fn       Func
	Callback CallbackSlot
}

// QualifiedName returns the name prefixed by its namespace, e.g.
// "assert.visible".
func (d Definition) QualifiedName() string {
	if ns := d.Kind.Namespace(); ns != "" {
		return ns + "." + d.Name
	}
	return d.Name
}

func (d Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("command %q: invalid kind %d", d.Name, int(d.Kind))
	}
	if d.Fn == nil {
		return fmt.Errorf("command %q: function cannot be nil", d.QualifiedName())
	}
	if i, ok := d.Callback.Index(); ok && i < 0 {
		return fmt.Errorf("command %q: callback index cannot be negative", d.QualifiedName())
	}
	return nil
}

// Catalog is an ordered table of command definitions.
type Catalog struct {
	defs []Definition
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add appends a definition. Invalid definitions are rejected; duplicates
// are accepted here and rejected when registered.
func (c *Catalog) Add(def Definition) error {
	if err := def.validate(); err != nil {
		return err
	}
	c.defs = append(c.defs, def)
	return nil
}

// MustAdd is like Add but panics on error.
func (c *Catalog) MustAdd(def Definition) *Catalog {
	if err := c.Add(def); err != nil {
		panic(err)
	}
	return c
}

// Command adds a plain command.
func (c *Catalog) Command(name string, fn Func, callback CallbackSlot) *Catalog {
	return c.MustAdd(Definition{Name: name, Kind: Plain, Fn: fn, Callback: callback})
}

// Assertion adds an entry under the namespace of kind.
func (c *Catalog) Assertion(kind Kind, name string, fn Func, callback CallbackSlot) *Catalog {
	return c.MustAdd(Definition{Name: name, Kind: kind, Fn: fn, Callback: callback})
}

// Definitions returns the entries in insertion order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Filter returns a catalog holding the entries for which keep returns true.
func (c *Catalog) Filter(keep func(Definition) bool) *Catalog {
	out := NewCatalog()
	for _, def := range c.defs {
		if keep(def) {
			out.defs = append(out.defs, def)
		}
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.defs)
}
