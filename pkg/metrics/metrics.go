// Package metrics exposes Prometheus instrumentation for command dispatch.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Invocation modes.
const (
	ModeTargeted    = "targeted"
	ModePassthrough = "passthrough"
)

// Collector records dispatch activity. A nil *Collector records nothing.
type Collector struct {
	invocations        *prometheus.CounterVec
	strategySwitches   *prometheus.CounterVec
	registrationErrors prometheus.Counter
	actions            *prometheus.HistogramVec
}

// NewCollector creates a collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagekit_command_invocations_total",
				Help: "Total number of wrapped command invocations",
			},
			[]string{"command", "kind", "mode"},
		),
		strategySwitches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagekit_strategy_switches_total",
				Help: "Total number of locate strategy switches enqueued by targeted invocations",
			},
			[]string{"strategy"},
		),
		registrationErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pagekit_registration_errors_total",
				Help: "Total number of rejected command registrations",
			},
		),
		actions: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagekit_queue_action_duration_seconds",
				Help:    "Duration of queued driver actions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action", "outcome"},
		),
	}

	for _, collector := range []prometheus.Collector{
		c.invocations, c.strategySwitches, c.registrationErrors, c.actions,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Invocation counts one call of a wrapped command.
func (c *Collector) Invocation(command, kind, mode string) {
	if c == nil {
		return
	}
	c.invocations.WithLabelValues(command, kind, mode).Inc()
}

// StrategySwitch counts one enqueued strategy switch.
func (c *Collector) StrategySwitch(strategy string) {
	if c == nil {
		return
	}
	c.strategySwitches.WithLabelValues(strategy).Inc()
}

// RegistrationError counts one rejected registration.
func (c *Collector) RegistrationError() {
	if c == nil {
		return
	}
	c.registrationErrors.Inc()
}

// Action observes the duration of one queued action.
func (c *Collector) Action(name string, seconds float64, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.actions.WithLabelValues(name, outcome).Observe(seconds)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
