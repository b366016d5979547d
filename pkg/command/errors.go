package command

import "fmt"

// DuplicateCommandError reports a name that is already registered on the
// target context.
type DuplicateCommandError struct {
	Kind   Kind
	Name   string
	Target string
}

func (e *DuplicateCommandError) Error() string {
	qualified := Definition{Name: e.Name, Kind: e.Kind}.QualifiedName()
	return fmt.Sprintf("command %q is already registered on %q", qualified, e.Target)
}

// UnknownCommandError reports an invocation of a name that was never
// registered on the context.
type UnknownCommandError struct {
	Kind   Kind
	Name   string
	Target string
}

func (e *UnknownCommandError) Error() string {
	qualified := Definition{Name: e.Name, Kind: e.Kind}.QualifiedName()
	return fmt.Sprintf("command %q is not registered on %q", qualified, e.Target)
}
