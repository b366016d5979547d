package harness

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/command"
	"github.com/entrhq/pagekit/pkg/config"
	"github.com/entrhq/pagekit/pkg/driver/drivertest"
	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/logging"
	"github.com/entrhq/pagekit/pkg/pageobject"
)

func loginPage() *pageobject.Page {
	page := pageobject.NewPage("login")
	form := page.MustAddSection(pageobject.RootID, "form", pageobject.Static("form#login"), locate.CSS)
	page.MustAddElement(form, "submit", pageobject.Static("button[type=submit]"), locate.CSS)
	page.MustAddElement(pageobject.RootID, "banner", pageobject.Static("//div[@role='alert']"), locate.XPath)
	return page
}

func TestHarness_RegistersFilteredCatalog(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Commands.Exclude = []string{"verify.*", "url"}

	h, err := New(cfg, WithLogger(logging.Discard("test")))
	require.NoError(t, err)
	require.NoError(t, h.StartWith(drivertest.New()))

	ctx, err := h.Page(loginPage())
	require.NoError(t, err)

	assert.True(t, ctx.Has(command.Plain, "click"))
	assert.True(t, ctx.Has(command.Assert, "visible"))
	assert.False(t, ctx.Has(command.Verify, "visible"))
	assert.False(t, ctx.Has(command.Plain, "url"))
	assert.Nil(t, h.Registry(), "metrics are disabled by default")
}

func TestHarness_SectionFlow(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Locate.Strategy = "xpath"
	cfg.Metrics.Enabled = true
	cfg.Logging.Verbosity = "debug"

	var logs bytes.Buffer
	logger := logging.NewWriterLogger("test", &logs)

	h, err := New(cfg, WithLogger(logger))
	require.NoError(t, err)

	backend := drivertest.New().
		Add("css selector(form#login) > css selector(button[type=submit])", &drivertest.Element{})
	require.NoError(t, h.StartWith(backend))
	assert.Equal(t, locate.XPath, h.Session().LocateStrategy())

	root, err := h.Page(loginPage())
	require.NoError(t, err)
	form, err := h.Section(root, "form")
	require.NoError(t, err)

	_, err = form.Call("click", pageobject.NewRef("submit"))
	require.NoError(t, err)
	require.NoError(t, h.Run(context.Background()))

	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, locate.Recursion, calls[0].Locator.Strategy)
	assert.Equal(t, locate.XPath, h.Session().LocateStrategy())

	rec := httptest.NewRecorder()
	metricsMux(h.Registry()).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `pagekit_strategy_switches_total{strategy="recursion"} 1`)
	assert.Contains(t, logs.String(), "[test.driver]")
	assert.NoError(t, h.Close())
}

func TestHarness_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Browser.Name = "netscape"
	_, err := New(cfg, WithLogger(logging.Discard("test")))
	assert.ErrorContains(t, err, "invalid configuration")

	h, err := New(nil, WithLogger(logging.Discard("test")))
	require.NoError(t, err)
	_, err = h.Page(loginPage())
	assert.ErrorContains(t, err, "not started")
	assert.ErrorContains(t, h.Run(context.Background()), "not started")

	require.NoError(t, h.StartWith(drivertest.New()))
	assert.Error(t, h.StartWith(drivertest.New()))
	assert.NoError(t, h.ServeMetrics(context.Background()), "no-op without metrics")
}
