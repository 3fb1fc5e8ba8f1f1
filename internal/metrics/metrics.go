package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dinein"

// Metrics holds every collector the service exports.
type Metrics struct {
	Transitions         *prometheus.CounterVec
	AuditWriteFailures  *prometheus.CounterVec
	ResolveDuration     prometheus.Histogram
	SnapshotSubscribers prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg. Tests pass a throwaway
// registry so counters start at zero.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order mutations that committed, by action.",
		}, []string{"action"}),
		AuditWriteFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "Audit appends that failed after the business mutation committed.",
		}, []string{"log"}),
		ResolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "occupancy_resolve_duration_seconds",
			Help:      "Time spent loading and resolving one restaurant floor.",
			Buckets:   prometheus.DefBuckets,
		}),
		SnapshotSubscribers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_subscribers",
			Help:      "Connected floor snapshot websocket clients.",
		}),
		gatherer: gatherer,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
