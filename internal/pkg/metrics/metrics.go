package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors exported by the service.
// Each instance owns its registry so tests can build routers repeatedly.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	mutationsTotal      *prometheus.CounterVec
	mutationsInFlight   prometheus.Gauge
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_server_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		mutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_mutations_total",
			Help: "Confirmed admin mutations by action and outcome",
		}, []string{"action", "outcome"}),
		mutationsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "admin_mutations_in_flight",
			Help: "Admin mutations currently awaiting the backend",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.mutationsTotal,
		m.mutationsInFlight,
	)

	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// shouldSkip returns true if the path should not be recorded.
func shouldSkip(path string) bool {
	for _, skip := range []string{"/metrics", "/health"} {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}
	return false
}

// GinMiddleware instruments gin handlers.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if shouldSkip(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// MutationStarted marks an admin mutation as in flight and returns the
// function that records its outcome.
func (m *Metrics) MutationStarted(action string) func(err error) {
	if m == nil {
		return func(error) {}
	}
	m.mutationsInFlight.Inc()
	return func(err error) {
		m.mutationsInFlight.Dec()
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		m.mutationsTotal.WithLabelValues(action, outcome).Inc()
	}
}
