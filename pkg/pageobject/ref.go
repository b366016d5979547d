package pageobject

import (
	"regexp"
	"strings"
)

// Sigil marks a script token as a named reference.
const Sigil = "@"

var parameterized = regexp.MustCompile(`^([^<>]+)<([^<>]*)>$`)

// Ref addresses an element or section by name. Args are set for
// parameterized references and passed to the node's selector template.
type Ref struct {
	Name string
	Args []string

	parameterized bool
}

// NewRef parses a reference name without the sigil, e.g. "row" or
// "row<3,name>". Arguments are split on commas and trimmed; "row<>" has
// no arguments but is still parameterized.
func NewRef(token string) Ref {
	m := parameterized.FindStringSubmatch(token)
	if m == nil {
		return Ref{Name: token}
	}

	ref := Ref{Name: m[1], parameterized: true}
	if m[2] != "" {
		for _, arg := range strings.Split(m[2], ",") {
			ref.Args = append(ref.Args, strings.TrimSpace(arg))
		}
	}
	return ref
}

// Param returns a parameterized reference to name with args.
func Param(name string, args ...string) Ref {
	return Ref{Name: name, Args: args, parameterized: true}
}

// ParseRef converts a sigil-prefixed script token into a Ref.
// It reports false when token does not start with the sigil.
func ParseRef(token string) (Ref, bool) {
	if !strings.HasPrefix(token, Sigil) || len(token) == len(Sigil) {
		return Ref{}, false
	}
	return NewRef(strings.TrimPrefix(token, Sigil)), true
}

// Parameterized reports whether the reference carries template arguments.
func (r Ref) Parameterized() bool {
	return r.parameterized
}

// String returns the textual form of the reference, including the sigil.
func (r Ref) String() string {
	if !r.parameterized {
		return Sigil + r.Name
	}
	return Sigil + r.Name + "<" + strings.Join(r.Args, ",") + ">"
}
