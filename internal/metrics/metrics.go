// Package metrics provides Prometheus metrics for the onboarding API.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	UpstreamCallsTotal   *prometheus.CounterVec
	UpstreamCallDuration *prometheus.HistogramVec
	DBConnectsTotal      *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboard_http_requests_total",
				Help: "Total HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "onboard_http_request_duration_seconds",
				Help:    "HTTP request duration by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"method", "route"},
		),
		UpstreamCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboard_upstream_calls_total",
				Help: "Calls to GitHub and the language model by service, operation and outcome.",
			},
			[]string{"service", "operation", "outcome"},
		),
		UpstreamCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "onboard_upstream_call_duration_seconds",
				Help:    "Upstream call duration by service and operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "operation"},
		),
		DBConnectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboard_db_connects_total",
				Help: "Database connection attempts by outcome.",
			},
			[]string{"outcome"},
		),
		registry: reg,
	}

	reg.MustRegister(m.HTTPRequestsTotal)
	reg.MustRegister(m.HTTPRequestDuration)
	reg.MustRegister(m.UpstreamCallsTotal)
	reg.MustRegister(m.UpstreamCallDuration)
	reg.MustRegister(m.DBConnectsTotal)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTP counts a finished request and observes its duration.
func (m *Metrics) RecordHTTP(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordUpstream counts an upstream call. outcome is "ok" or "error".
func (m *Metrics) RecordUpstream(service, operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.UpstreamCallsTotal.WithLabelValues(service, operation, outcome).Inc()
	m.UpstreamCallDuration.WithLabelValues(service, operation).Observe(seconds)
}

// RecordDBConnect counts a connection attempt.
func (m *Metrics) RecordDBConnect(outcome string) {
	if m == nil {
		return
	}
	m.DBConnectsTotal.WithLabelValues(outcome).Inc()
}

// Outcome maps an error to the outcome label.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
