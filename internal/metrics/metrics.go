// Package metrics collects and exposes Prometheus metrics for the account service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "account"

// Collector is the Prometheus implementation used by the HTTP layer and the auth service.
type Collector struct {
	authOutcomes  *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	rateLimited   *prometheus.CounterVec
	accessDenials *prometheus.CounterVec
	registerer    prometheus.Registerer
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_outcomes_total",
			Help:      "Authentication operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter by route.",
		}, []string{"route"}),
		accessDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Guarded requests denied by the authorization enforcer.",
		}, []string{"code"}),
		registerer: reg,
	}
	reg.MustRegister(c.authOutcomes, c.httpRequests, c.httpDuration, c.rateLimited, c.accessDenials)
	return c
}

// AuthOutcome counts one login, refresh or check result.
func (c *Collector) AuthOutcome(operation, outcome string) {
	c.authOutcomes.WithLabelValues(operation, outcome).Inc()
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(route, method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordRateLimited counts a request rejected with 429.
func (c *Collector) RecordRateLimited(route string) {
	c.rateLimited.WithLabelValues(route).Inc()
}

// RecordAccessDenied counts an enforcer denial by error code.
func (c *Collector) RecordAccessDenied(code string) {
	c.accessDenials.WithLabelValues(code).Inc()
}

// RegisterGaugeFunc registers a gauge whose value is read from f at scrape time,
// e.g. the number of live refresh tokens.
func (c *Collector) RegisterGaugeFunc(name, help string, f func() float64) {
	c.registerer.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, f))
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
