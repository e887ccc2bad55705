// Package metrics records paging activity as Prometheus metrics.
//
// Metrics:
//   - pagedlist_fetches_total{kind, outcome} (Counter): Completed fetches by kind and outcome (ok, error, timeout)
//   - pagedlist_fetch_duration_seconds{kind} (Histogram): Fetch latency by kind
//   - pagedlist_fetch_items_total{kind} (Counter): Items returned by successful fetches
//   - pagedlist_guard_rejections_total{kind} (Counter): Load requests dropped by the in-flight or exhausted guard
//   - pagedlist_fetches_in_flight{kind} (Gauge): Fetches currently running
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CrestNiraj12/pagedlist/paging"
)

const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Metrics implements paging.Recorder on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	fetchesTotal    *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	fetchItems      *prometheus.CounterVec
	guardRejections *prometheus.CounterVec
	inFlight        *prometheus.GaugeVec
}

var _ paging.Recorder = (*Metrics)(nil)

// New creates the metric vectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		fetchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pagedlist_fetches_total",
			Help: "Completed page fetches by kind and outcome",
		}, []string{"kind", "outcome"}),
		fetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pagedlist_fetch_duration_seconds",
			Help:    "Page fetch duration by kind",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"kind"}),
		fetchItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pagedlist_fetch_items_total",
			Help: "Items returned by successful fetches",
		}, []string{"kind"}),
		guardRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pagedlist_guard_rejections_total",
			Help: "Load requests dropped because a fetch was in flight or the list was exhausted",
		}, []string{"kind"}),
		inFlight: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pagedlist_fetches_in_flight",
			Help: "Fetches currently running",
		}, []string{"kind"}),
	}
}

// FetchStarted marks a fetch as in flight.
func (m *Metrics) FetchStarted(kind paging.FetchKind) {
	m.inFlight.WithLabelValues(string(kind)).Inc()
}

// FetchFinished records the outcome of a fetch.
func (m *Metrics) FetchFinished(kind paging.FetchKind, count int, err error, elapsed time.Duration) {
	k := string(kind)
	m.inFlight.WithLabelValues(k).Dec()
	m.fetchDuration.WithLabelValues(k).Observe(elapsed.Seconds())
	m.fetchesTotal.WithLabelValues(k, outcome(err)).Inc()
	if err == nil {
		m.fetchItems.WithLabelValues(k).Add(float64(count))
	}
}

// GuardRejected counts a dropped load request.
func (m *Metrics) GuardRejected(kind paging.FetchKind) {
	m.guardRejections.WithLabelValues(string(kind)).Inc()
}

// Registry exposes the registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}
