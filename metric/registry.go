// Package metric provides Prometheus metrics for the bridge
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the bridge's metrics on a dedicated Prometheus registry
type Registry struct {
	prom *prometheus.Registry

	// RequestsTotal counts gateway requests by operation and outcome
	RequestsTotal *prometheus.CounterVec

	// SessionRoundTrip observes the latency of session calls by operation
	SessionRoundTrip *prometheus.HistogramVec

	// DiscoveryDuration records how long the startup discovery pass took
	DiscoveryDuration prometheus.Gauge

	// VariablesDiscovered records the size of the variable index
	VariablesDiscovered prometheus.Gauge
}

// NewRegistry creates a metrics registry with the bridge's core metrics and
// the Go runtime collectors registered.
func NewRegistry() *Registry {
	prom := prometheus.NewRegistry()

	r := &Registry{
		prom: prom,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uabridge",
			Name:      "requests_total",
			Help:      "Gateway requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		SessionRoundTrip: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "uabridge",
			Name:      "session_round_trip_seconds",
			Help:      "Latency of OPC UA session calls by operation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		DiscoveryDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "uabridge",
			Name:      "discovery_duration_seconds",
			Help:      "Duration of the startup address-space discovery pass",
		}),
		VariablesDiscovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "uabridge",
			Name:      "variables_discovered",
			Help:      "Number of variables in the frozen index",
		}),
	}

	prom.MustRegister(
		r.RequestsTotal,
		r.SessionRoundTrip,
		r.DiscoveryDuration,
		r.VariablesDiscovered,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Handler returns the HTTP handler serving the metrics in text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{})
}
