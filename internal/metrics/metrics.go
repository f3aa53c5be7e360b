// Package metrics instruments the HTTP server and couple pages with
// Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "nossoday"

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	inflight prometheus.Gauge

	streams        prometheus.Gauge
	couplesCreated *prometheus.CounterVec
	checkouts      prometheus.Counter
}

// New creates a registry with Go runtime and process collectors plus the
// server's own metrics.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "A histogram of HTTP request latencies.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{LabelStatusCode, LabelMethod, LabelRoute},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "A counter of HTTP requests served.",
			},
			[]string{LabelStatusCode, LabelMethod, LabelRoute},
		),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "A gauge of in-flight HTTP requests.",
		}),
		streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "counter",
			Name:      "active_streams",
			Help:      "Live elapsed-time event streams currently open.",
		}),
		couplesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "couples",
				Name:      "created_total",
				Help:      "Couple pages created, by plan.",
			},
			[]string{LabelPlan},
		),
		checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "sessions_created_total",
			Help:      "Checkout sessions started.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.duration,
		m.requests,
		m.inflight,
		m.streams,
		m.couplesCreated,
		m.checkouts,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts, latencies and in-flight requests.
// Requests are labelled with the chi route pattern rather than the raw
// path so couple IDs do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	route := promhttp.WithLabelFromCtx(LabelRoute, routePattern)

	h := promhttp.InstrumentHandlerDuration(m.duration, next, route)
	h = promhttp.InstrumentHandlerCounter(m.requests, h, route)
	return promhttp.InstrumentHandlerInFlight(m.inflight, h)
}

func routePattern(ctx context.Context) string {
	rctx := chi.RouteContext(ctx)
	if rctx == nil {
		return "unmatched"
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return "unmatched"
}

// StreamOpened marks a live counter stream as open. The returned func
// marks it closed.
func (m *Metrics) StreamOpened() func() {
	m.streams.Inc()
	return m.streams.Dec
}

// CoupleCreated counts a new couple page.
func (m *Metrics) CoupleCreated(plan string) {
	if plan == "" {
		plan = "none"
	}
	m.couplesCreated.WithLabelValues(plan).Inc()
}

// CheckoutStarted counts a new checkout session.
func (m *Metrics) CheckoutStarted() {
	m.checkouts.Inc()
}
