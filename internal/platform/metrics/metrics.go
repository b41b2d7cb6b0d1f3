package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cmssync"

// Metrics holds service collectors. Nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	cmsRequests     *prometheus.CounterVec
	cmsRetries      *prometheus.CounterVec
	syncRuns        *prometheus.CounterVec
	syncedProducts  *prometheus.CounterVec
	fallbackResults *prometheus.CounterVec
	breakerOpen     prometheus.Gauge
}

// New returns Metrics registered in new registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cmsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cms",
			Name:      "requests_total",
			Help:      "Number of CMS requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		cmsRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cms",
			Name:      "retries_total",
			Help:      "Number of retried CMS requests by provider.",
		}, []string{"provider"}),
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Number of synchronization runs by outcome.",
		}, []string{"outcome"}),
		syncedProducts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "products_total",
			Help:      "Number of synchronized products by change kind.",
		}, []string{"change"}),
		fallbackResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fallback",
			Name:      "responses_total",
			Help:      "Number of fallback responses by data source.",
		}, []string{"source"}),
		breakerOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fallback",
			Name:      "circuit_breaker_open",
			Help:      "Whether CMS circuit breaker is open.",
		}),
	}

	m.registry.MustRegister(
		m.cmsRequests,
		m.cmsRetries,
		m.syncRuns,
		m.syncedProducts,
		m.fallbackResults,
		m.breakerOpen,
	)

	return m
}

// Registry returns registry holding service collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns http.Handler exposing registered metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CMSRequest counts single CMS request attempt.
func (m *Metrics) CMSRequest(provider, outcome string) {
	if m == nil {
		return
	}
	m.cmsRequests.WithLabelValues(provider, outcome).Inc()
}

// CMSRetry counts retried CMS request.
func (m *Metrics) CMSRetry(provider string) {
	if m == nil {
		return
	}
	m.cmsRetries.WithLabelValues(provider).Inc()
}

// SyncRun counts finished synchronization run.
func (m *Metrics) SyncRun(success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.syncRuns.WithLabelValues(outcome).Inc()
}

// SyncedProducts counts products added, updated and removed by synchronization run.
func (m *Metrics) SyncedProducts(added, updated, removed int) {
	if m == nil {
		return
	}
	m.syncedProducts.WithLabelValues("added").Add(float64(added))
	m.syncedProducts.WithLabelValues("updated").Add(float64(updated))
	m.syncedProducts.WithLabelValues("removed").Add(float64(removed))
}

// FallbackResponse counts response served from source.
func (m *Metrics) FallbackResponse(source string) {
	if m == nil {
		return
	}
	m.fallbackResults.WithLabelValues(source).Inc()
}

// BreakerOpen sets circuit breaker gauge.
func (m *Metrics) BreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.breakerOpen.Set(1)
		return
	}
	m.breakerOpen.Set(0)
}
