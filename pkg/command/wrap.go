package command

import (
	"github.com/entrhq/pagekit/pkg/driver"
	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/metrics"
	"github.com/entrhq/pagekit/pkg/pageobject"
)

// wrapped is a definition bound to the context it was registered on.
type wrapped struct {
	def Definition
	ctx *Context
}

// invoke runs one call of the command.
//
// A call whose first argument is a pageobject.Ref is targeted: the reference
// is resolved against the context node and replaced by the selector (direct
// children) or the ancestor chain (nested targets, under the recursion
// strategy). The strategy switch is enqueued before the underlying call and
// its restore after, unless the declared callback slot holds a callback, in
// which case the callback restores the strategy when it fires.
//
// Any other call is passed through untouched.
func (w *wrapped) invoke(args []any) (any, error) {
	s := w.ctx.session

	ref, targeted := refOf(args)
	if !targeted {
		s.Metrics().Invocation(w.def.Name, w.def.Kind.String(), metrics.ModePassthrough)
		return w.result(w.def.Fn(s, args))
	}

	target, err := w.resolve(ref)
	if err != nil {
		return nil, err
	}
	selector, strategy := w.effective(target)

	final := make([]any, 0, len(args))
	final = append(final, selector)
	final = append(final, args[1:]...)

	scope := s.Switch(strategy)
	defer scope.Close()

	w.wrapCallback(final, scope)
	s.Metrics().Invocation(w.def.Name, w.def.Kind.String(), metrics.ModeTargeted)
	w.ctx.logger.Debugf("%s %s on %s (%s)", w.def.QualifiedName(), ref, w.ctx.name, strategy)

	res, err := w.def.Fn(s, final)
	if err != nil {
		scope.Reclaim()
	}
	return w.result(res, err)
}

func refOf(args []any) (pageobject.Ref, bool) {
	if len(args) == 0 {
		return pageobject.Ref{}, false
	}
	switch ref := args[0].(type) {
	case pageobject.Ref:
		return ref, true
	case *pageobject.Ref:
		if ref != nil {
			return *ref, true
		}
	}
	return pageobject.Ref{}, false
}

func (w *wrapped) resolve(ref pageobject.Ref) (pageobject.Target, error) {
	if w.def.Kind == Expect && w.def.Name == SectionAssertion {
		return w.ctx.page.ResolveSection(w.ctx.node, ref)
	}
	return w.ctx.page.Resolve(w.ctx.node, ref)
}

// effective returns the selector argument and strategy for target.
func (w *wrapped) effective(target pageobject.Target) (any, locate.Strategy) {
	chain := w.ctx.page.Chain(target)
	if len(chain) == 1 {
		return target.Selector, target.Strategy
	}
	return chain, locate.Recursion
}

// wrapCallback replaces the callback in the declared slot with one that
// restores the previous strategy before running the original.
func (w *wrapped) wrapCallback(args []any, scope *driver.Scope) {
	i, ok := w.def.Callback.Index()
	if !ok || i >= len(args) {
		return
	}
	original, ok := driver.AsCallback(args[i])
	if !ok {
		return
	}

	token := scope.Defer()
	args[i] = driver.Callback(func(s *driver.Session, r driver.Result) {
		token.Restore()
		original(s, r)
	})
}

func (w *wrapped) result(res any, err error) (any, error) {
	if w.def.Kind.Chainless() {
		return res, err
	}
	if err != nil {
		return nil, err
	}
	return w.ctx, nil
}
