// Package metrics holds the Prometheus collectors exported on /metrics.
//
// Collectors are registered on a private registry rather than the global
// default so tests can build independent instances.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Notification delivery outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
	OutcomeRetried   = "retried"
	OutcomeDropped   = "dropped"
)

// Metrics bundles every collector the service records into.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal counts handled requests.
	// Labels: method, route (chi route pattern), status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration measures handler latency.
	// Labels: method, route
	HTTPRequestDuration *prometheus.HistogramVec

	NotificationsDelivered prometheus.Counter
	NotificationsFailed    prometheus.Counter
	NotificationsRetried   prometheus.Counter
	NotificationsDropped   prometheus.Counter
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		NotificationsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_delivered_total",
			Help: "Notifications appended to a recipient's list.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Failed notification append attempts.",
		}),
		NotificationsRetried: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_retried_total",
			Help: "Notification appends scheduled for another attempt.",
		}),
		NotificationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_dropped_total",
			Help: "Notifications abandoned after exhausting retries or on a full queue.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.NotificationsDelivered,
		m.NotificationsFailed,
		m.NotificationsRetried,
		m.NotificationsDropped,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// NotificationOutcome increments the counter for one delivery outcome.
// Unknown outcomes are ignored.
func (m *Metrics) NotificationOutcome(outcome string) {
	switch outcome {
	case OutcomeDelivered:
		m.NotificationsDelivered.Inc()
	case OutcomeFailed:
		m.NotificationsFailed.Inc()
	case OutcomeRetried:
		m.NotificationsRetried.Inc()
	case OutcomeDropped:
		m.NotificationsDropped.Inc()
	}
}
