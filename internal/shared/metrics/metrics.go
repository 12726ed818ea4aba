package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Collaboration metrics
	ShareLinksTotal     prometheus.Counter
	CollabJoinsTotal    *prometheus.CounterVec
	ActiveCollaborators prometheus.Gauge

	// Auth metrics
	AuthEventsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered on reg.
// Passing prometheus.DefaultRegisterer is the normal production path; tests
// pass their own registry to avoid duplicate registration.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "etherx"
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		ShareLinksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "collab",
				Name:      "share_links_total",
				Help:      "Total number of share links created",
			},
		),
		CollabJoinsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "collab",
				Name:      "joins_total",
				Help:      "Total number of join attempts via share link",
			},
			[]string{"result"}, // joined, not_found, expired
		),
		ActiveCollaborators: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "collab",
				Name:      "active_collaborators",
				Help:      "Active collaborators observed on the last roster read",
			},
		),

		AuthEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "events_total",
				Help:      "Total number of auth events",
			},
			[]string{"event", "result"}, // login/register/refresh, ok/failed
		),
	}
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordJoin records the outcome of a join attempt.
func (m *Metrics) RecordJoin(result string) {
	m.CollabJoinsTotal.WithLabelValues(result).Inc()
}

// RecordAuthEvent records an auth event outcome.
func (m *Metrics) RecordAuthEvent(event, result string) {
	m.AuthEventsTotal.WithLabelValues(event, result).Inc()
}
