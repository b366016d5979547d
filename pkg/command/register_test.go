package command

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/driver"
	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/logging"
	"github.com/entrhq/pagekit/pkg/metrics"
	"github.com/entrhq/pagekit/pkg/pageobject"
)

func noop(*driver.Session, []any) (any, error) { return nil, nil }

func TestRegister_AllKinds(t *testing.T) {
	f := newFixture(t)
	catalog := NewCatalog().
		Command("click", noop, CallbackSlot{}).
		Assertion(Assert, "visible", noop, CallbackSlot{}).
		Assertion(Verify, "visible", noop, CallbackSlot{}).
		Assertion(Expect, "visible", noop, CallbackSlot{})

	require.NoError(t, Register(f.ctx, catalog))

	assert.Equal(t, []string{"assert.visible", "click", "expect.visible", "verify.visible"}, f.ctx.Commands())
	assert.True(t, f.ctx.Has(Plain, "click"))
	assert.True(t, f.ctx.Has(Verify, "visible"))
	assert.False(t, f.ctx.Has(Plain, "visible"))
}

func TestRegister_DuplicateIsRecordedAndReturned(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	var logs bytes.Buffer
	session := driver.NewSession(nil,
		driver.WithMetrics(collector),
		driver.WithLogger(logging.NewWriterLogger("test", &logs)))
	page := pageobject.NewPage("login")
	page.MustAddElement(pageobject.RootID, "submitButton", pageobject.Static("#submit"), locate.CSS)
	ctx, err := NewContext(session, page, pageobject.RootID)
	require.NoError(t, err)

	first := &recorder{}
	require.NoError(t, Register(ctx, NewCatalog().Command("click", first.fn, CallbackSlot{})))

	second := &recorder{}
	err = Register(ctx, NewCatalog().
		Command("submit", second.fn, CallbackSlot{}).
		Command("click", second.fn, CallbackSlot{}).
		Command("clear", second.fn, CallbackSlot{}))

	var dup *DuplicateCommandError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "click", dup.Name)
	assert.Equal(t, `command "click" is already registered on "login"`, err.Error())

	assert.Equal(t, 1, session.Errors().Count())
	assert.Contains(t, session.Errors().Traces()[0], "already registered")
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP pagekit_registration_errors_total Total number of rejected command registrations
# TYPE pagekit_registration_errors_total counter
pagekit_registration_errors_total 1
`), "pagekit_registration_errors_total"))
	assert.Contains(t, logs.String(), "[ERROR]")

	// Earlier entries stay; later entries are never attached.
	assert.True(t, ctx.Has(Plain, "submit"))
	assert.False(t, ctx.Has(Plain, "clear"))

	// The original registration still wins.
	_, err = ctx.Call("click", pageobject.NewRef("submitButton"))
	require.NoError(t, err)
	assert.Len(t, first.calls, 1)
	assert.Empty(t, second.calls)
}

func TestRegister_SameNameAcrossKinds(t *testing.T) {
	f := newFixture(t)
	err := Register(f.ctx, NewCatalog().
		Command("visible", noop, CallbackSlot{}).
		Assertion(Expect, "visible", noop, CallbackSlot{}))
	require.NoError(t, err)
	assert.Equal(t, 0, f.session.Errors().Count())
}

func TestRegister_WithFilter(t *testing.T) {
	f := newFixture(t)
	catalog := NewCatalog().
		Command("click", noop, CallbackSlot{}).
		Command("url", noop, CallbackSlot{}).
		Assertion(Expect, "visible", noop, CallbackSlot{})

	err := Register(f.ctx, catalog, WithFilter(func(def Definition) bool {
		return !strings.HasPrefix(def.QualifiedName(), "expect.")
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"click", "url"}, f.ctx.Commands())
}

func TestRegister_RequiresTargetAndCatalog(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, Register(nil, NewCatalog()))
	assert.Error(t, Register(f.ctx, nil))
}

func TestRegisterFrom(t *testing.T) {
	f := newFixture(t)

	var loadedFor string
	err := RegisterFrom(f.ctx, func(target *Context) (*Catalog, error) {
		loadedFor = target.Name()
		return NewCatalog().Command("click", noop, CallbackSlot{}), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "checkout", loadedFor)
	assert.True(t, f.ctx.Has(Plain, "click"))

	boom := errors.New("bad module")
	err = RegisterFrom(f.ctx, func(*Context) (*Catalog, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `failed to load commands for "checkout"`)

	assert.Error(t, RegisterFrom(nil, func(*Context) (*Catalog, error) { return NewCatalog(), nil }))
}

func TestRegister_SectionContextsAreIndependent(t *testing.T) {
	f := newFixture(t)
	cart, err := f.ctx.Section("cart")
	require.NoError(t, err)

	require.NoError(t, Register(f.ctx, NewCatalog().Command("click", noop, CallbackSlot{})))
	require.NoError(t, Register(cart, NewCatalog().Command("click", noop, CallbackSlot{})))

	assert.Equal(t, "cart", cart.Name())
	assert.Same(t, f.session, cart.Session())

	_, err = f.ctx.Section("payButton")
	var nf *pageobject.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestNewContext_Validation(t *testing.T) {
	f := newFixture(t)
	id := f.page.MustAddElement(pageobject.RootID, "logo", pageobject.Static("img.logo"), locate.CSS)

	_, err := NewContext(nil, f.page, pageobject.RootID)
	assert.Error(t, err)
	_, err = NewContext(f.session, nil, pageobject.RootID)
	assert.Error(t, err)
	_, err = NewContext(f.session, f.page, 99)
	assert.Error(t, err)
	_, err = NewContext(f.session, f.page, id)
	assert.ErrorContains(t, err, `cannot be registered on element "logo"`)
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	assert.Error(t, c.Add(Definition{Kind: Plain, Fn: noop}))
	assert.Error(t, c.Add(Definition{Name: "click", Kind: Kind(9), Fn: noop}))
	assert.Error(t, c.Add(Definition{Name: "click", Kind: Plain}))
	assert.Error(t, c.Add(Definition{Name: "click", Kind: Plain, Fn: noop, Callback: CallbackAt(-1)}))
	assert.Equal(t, 0, c.Len())

	c.Command("click", noop, CallbackAt(1)).Assertion(Verify, "present", noop, CallbackSlot{})
	assert.Equal(t, 2, c.Len())

	defs := c.Definitions()
	assert.Equal(t, "verify.present", defs[1].QualifiedName())
	i, ok := defs[0].Callback.Index()
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = defs[1].Callback.Index()
	assert.False(t, ok)

	plain := c.Filter(func(d Definition) bool { return d.Kind == Plain })
	assert.Equal(t, 1, plain.Len())
	assert.Panics(t, func() { c.Command("", noop, CallbackSlot{}) })
}

func TestParseKind(t *testing.T) {
	for ns, want := range map[string]Kind{"": Plain, "assert": Assert, "verify": Verify, "expect": Expect} {
		got, err := ParseKind(ns)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, ns, got.Namespace())
	}
	_, err := ParseKind("should")
	assert.Error(t, err)
	assert.True(t, Expect.Chainless())
	assert.False(t, Assert.Chainless())
}

func TestInvoke_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	session := driver.NewSession(nil, driver.WithMetrics(collector))
	page := pageobject.NewPage("login")
	page.MustAddElement(pageobject.RootID, "heading", pageobject.Static("//h1"), locate.XPath)
	ctx, err := NewContext(session, page, pageobject.RootID)
	require.NoError(t, err)
	require.NoError(t, Register(ctx, NewCatalog().Command("click", noop, CallbackSlot{})))

	_, err = ctx.Call("click", pageobject.NewRef("heading"))
	require.NoError(t, err)
	_, err = ctx.Call("click", "h1")
	require.NoError(t, err)

	expected := `
# HELP pagekit_command_invocations_total Total number of wrapped command invocations
# TYPE pagekit_command_invocations_total counter
pagekit_command_invocations_total{command="click",kind="command",mode="passthrough"} 1
pagekit_command_invocations_total{command="click",kind="command",mode="targeted"} 1
# HELP pagekit_strategy_switches_total Total number of locate strategy switches enqueued by targeted invocations
# TYPE pagekit_strategy_switches_total counter
pagekit_strategy_switches_total{strategy="xpath"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"pagekit_command_invocations_total", "pagekit_strategy_switches_total"))
}
