package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the collectors exported on /metrics.
type Registry struct {
	NodesRegistered prometheus.Gauge
	EventsTotal     *prometheus.CounterVec
	BreakerToggles  prometheus.Counter
	AccessDenied    prometheus.Counter
	VisualUpdates   *prometheus.CounterVec
	UIUpdates       prometheus.Counter
	ToolOperations  *prometheus.CounterVec
	Overrides       *prometheus.CounterVec
	SimulatorTicks  prometheus.Counter
	SinkErrorsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every collector initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Registry{
		registry: reg,

		NodesRegistered: f.NewGauge(prometheus.GaugeOpts{
			Name: "power_node_nodes_registered",
			Help: "Number of nodes currently hosted",
		}),
		EventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "power_node_events_total",
			Help: "Events dispatched to nodes by event and outcome",
		}, []string{"event", "handled"}),
		BreakerToggles: f.NewCounter(prometheus.CounterOpts{
			Name: "power_node_breaker_toggles_total",
			Help: "Breaker toggles applied",
		}),
		AccessDenied: f.NewCounter(prometheus.CounterOpts{
			Name: "power_node_access_denied_total",
			Help: "Manual breaker requests rejected by the access check",
		}),
		VisualUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "power_node_visual_updates_total",
			Help: "Appearance updates emitted by key",
		}, []string{"key"}),
		UIUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "power_node_ui_updates_total",
			Help: "UI snapshots pushed",
		}),
		ToolOperations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "power_node_tool_operations_total",
			Help: "Timed tool operations by outcome",
		}, []string{"outcome"}),
		Overrides: f.NewCounterVec(prometheus.CounterOpts{
			Name: "power_node_overrides_total",
			Help: "Override events by kind and whether they had an effect",
		}, []string{"kind", "affected"}),
		SimulatorTicks: f.NewCounter(prometheus.CounterOpts{
			Name: "power_node_simulator_ticks_total",
			Help: "Simulator ticks processed",
		}),
		SinkErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "power_node_sink_errors_total",
			Help: "Failed writes to collaborators by sink",
		}, []string{"sink"}),
	}
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordEvent counts one dispatched event.
func (r *Registry) RecordEvent(event string, handled bool) {
	r.EventsTotal.WithLabelValues(event, boolLabel(handled)).Inc()
}

// RecordOverride counts one override event.
func (r *Registry) RecordOverride(kind string, affected bool) {
	r.Overrides.WithLabelValues(kind, boolLabel(affected)).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
