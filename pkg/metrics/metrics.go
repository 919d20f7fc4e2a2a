// Package metrics provides Prometheus instrumentation for an
// exploration run: steps taken, violations found, state/transition
// growth and the underlying HTTP traffic against the system under
// test. A *Recorder satisfies agent.StepRecorder structurally, so
// pkg/agent never imports this package.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/namanag97/venomqa-sub007/pkg/core"
)

// Config configures metrics collection.
type Config struct {
	// Enabled turns on metrics collection.
	Enabled bool `yaml:"enabled,omitempty"`

	// Endpoint is the path to expose metrics on.
	// Default: "/metrics"
	Endpoint string `yaml:"endpoint,omitempty"`

	// Namespace prefixes every metric name.
	// Default: "venomqa"
	Namespace string `yaml:"namespace,omitempty"`

	// ConstLabels are attached to every metric (e.g. run_id).
	ConstLabels map[string]string `yaml:"const_labels,omitempty"`
}

// SetDefaults fills in zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "/metrics"
	}
	if c.Namespace == "" {
		c.Namespace = "venomqa"
	}
}

// Recorder collects Prometheus metrics for one exploration run. A nil
// *Recorder is safe to call methods on (all become no-ops), so a
// caller can pass metrics.New(cfg) straight into agent.WithRecorder
// even when cfg.Enabled is false.
type Recorder struct {
	registry *prometheus.Registry

	stepsTotal       *prometheus.CounterVec
	stepDuration     *prometheus.HistogramVec
	actionErrors     *prometheus.CounterVec
	violationsTotal  *prometheus.CounterVec
	statesDiscovered prometheus.Counter
	transitionsTotal *prometheus.CounterVec
	rollbacksTotal   prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New builds a Recorder from cfg. It returns nil if cfg is nil or
// disabled, so zero-value wiring ("metrics off") doesn't require a
// separate code path at call sites.
func New(cfg *Config) *Recorder {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	cfg.SetDefaults()

	r := &Recorder{registry: prometheus.NewRegistry()}
	constLabels := prometheus.Labels(cfg.ConstLabels)

	r.stepsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   "agent",
		Name:        "steps_total",
		Help:        "Total number of exploration steps taken, by action.",
		ConstLabels: constLabels,
	}, []string{"action_name", "outcome"})

	r.stepDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   "agent",
		Name:        "step_duration_seconds",
		Help:        "Duration of a single action invocation.",
		Buckets:     prometheus.ExponentialBuckets(0.005, 2, 12),
		ConstLabels: constLabels,
	}, []string{"action_name"})

	r.actionErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   "agent",
		Name:        "action_errors_total",
		Help:        "Total number of actions whose assertion failed.",
		ConstLabels: constLabels,
	}, []string{"action_name"})

	r.violationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   "agent",
		Name:        "violations_total",
		Help:        "Total number of distinct invariant violations recorded.",
		ConstLabels: constLabels,
	}, []string{"invariant_name", "severity"})

	r.statesDiscovered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   "graph",
		Name:        "states_discovered_total",
		Help:        "Total number of distinct states discovered.",
		ConstLabels: constLabels,
	})

	r.transitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   "graph",
		Name:        "transitions_total",
		Help:        "Total number of transitions recorded, by action.",
		ConstLabels: constLabels,
	}, []string{"action_name"})

	r.rollbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   "world",
		Name:        "rollbacks_total",
		Help:        "Total number of checkpoint rollbacks performed.",
		ConstLabels: constLabels,
	})

	r.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "Total number of HTTP requests made against the system under test.",
		ConstLabels: constLabels,
	}, []string{"method", "status"})

	r.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   "http",
		Name:        "request_duration_seconds",
		Help:        "Duration of HTTP requests made against the system under test.",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: constLabels,
	}, []string{"method"})

	r.registry.MustRegister(
		r.stepsTotal, r.stepDuration, r.actionErrors, r.violationsTotal,
		r.statesDiscovered, r.transitionsTotal, r.rollbacksTotal,
		r.httpRequests, r.httpDuration,
	)
	return r
}

// RecordStep satisfies agent.StepRecorder.
func (r *Recorder) RecordStep(stateID, actionName string, result core.ActionResult, durationMS float64) {
	if r == nil {
		return
	}
	outcome := "ok"
	if !result.Success {
		outcome = "error"
		r.actionErrors.WithLabelValues(actionName).Inc()
	}
	r.stepsTotal.WithLabelValues(actionName, outcome).Inc()
	r.stepDuration.WithLabelValues(actionName).Observe(durationMS / 1000.0)
	r.transitionsTotal.WithLabelValues(actionName).Inc()
	r.statesDiscovered.Inc()

	method := actionNameMethod(result)
	if result.Response != nil {
		r.httpRequests.WithLabelValues(method, statusCodeLabel(result.Response.Status)).Inc()
	}
	r.httpDuration.WithLabelValues(method).Observe(durationMS / 1000.0)
}

// RecordViolation satisfies agent.StepRecorder.
func (r *Recorder) RecordViolation(v *core.Violation) {
	if r == nil {
		return
	}
	r.violationsTotal.WithLabelValues(v.InvariantName, v.Severity.String()).Inc()
}

// RecordRollback increments the rollback counter. The Agent doesn't
// call this itself (rollback is a world.World concern); a caller
// wiring world.World directly can call it from around World.Rollback.
func (r *Recorder) RecordRollback() {
	if r == nil {
		return
	}
	r.rollbacksTotal.Inc()
}

func statusCodeLabel(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

func actionNameMethod(result core.ActionResult) string {
	if result.Request == nil {
		return "unknown"
	}
	return result.Request.Method
}

// Handler returns the HTTP handler for the Prometheus scrape endpoint.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}
