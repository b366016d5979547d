package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.Invocation("click", "command", ModeTargeted)
	c.Invocation("click", "command", ModeTargeted)
	c.Invocation("url", "command", ModePassthrough)
	c.StrategySwitch("recursion")
	c.RegistrationError()
	c.Action("click", 0.01, nil)
	c.Action("click", 0.02, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.invocations.WithLabelValues("click", "command", ModeTargeted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.invocations.WithLabelValues("url", "command", ModePassthrough)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.strategySwitches.WithLabelValues("recursion")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.registrationErrors))
	assert.Equal(t, 2, testutil.CollectAndCount(c.actions))
}

func TestCollector_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.Invocation("click", "command", ModeTargeted)
	c.StrategySwitch("css selector")
	c.RegistrationError()
	c.Action("click", 1, nil)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	c.RegistrationError()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "pagekit_registration_errors_total 1"))
}
