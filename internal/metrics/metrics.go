// Package metrics exposes Prometheus collectors for the sportfund API.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sportfund"

// Metrics holds every collector the service records into.
type Metrics struct {
	registry *prometheus.Registry

	statsUpserts        *prometheus.CounterVec
	discoveryLatency    *prometheus.HistogramVec
	purchaseTransitions *prometheus.CounterVec
	investments         prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates collectors on a private registry, along with the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		statsUpserts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "upserts_total",
			Help:      "Season stats upserts by sport and outcome.",
		}, []string{"sport", "outcome"}),
		discoveryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "query_duration_seconds",
			Help:      "Athlete discovery query latency by sort criterion.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sort"}),
		purchaseTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "purchase_requests",
			Name:      "status_transitions_total",
			Help:      "Purchase request status changes by target status.",
		}, []string{"status"}),
		investments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "investments",
			Name:      "recorded_total",
			Help:      "Investments recorded.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveStatsUpsert counts one upsert outcome (created, updated, unchanged).
func (m *Metrics) ObserveStatsUpsert(sport, outcome string) {
	if m == nil {
		return
	}
	m.statsUpserts.WithLabelValues(sport, outcome).Inc()
}

// ObserveDiscovery records the latency of one discovery query.
func (m *Metrics) ObserveDiscovery(sort string, d time.Duration) {
	if m == nil {
		return
	}
	m.discoveryLatency.WithLabelValues(sort).Observe(d.Seconds())
}

// ObservePurchaseTransition counts purchase requests moved to status.
func (m *Metrics) ObservePurchaseTransition(status string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.purchaseTransitions.WithLabelValues(status).Add(float64(n))
}

// ObserveInvestment counts one recorded investment.
func (m *Metrics) ObserveInvestment() {
	if m == nil {
		return
	}
	m.investments.Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
