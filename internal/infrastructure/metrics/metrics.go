package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Billing run kinds
const (
	RunKindInvoice  = "invoice"
	RunKindEarnings = "earnings"
)

var (
	billingRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_runs_total",
		Help: "Number of billing aggregation runs by kind.",
	}, []string{"kind"})

	billingRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billing_run_duration_seconds",
		Help:    "Duration of billing aggregation runs by kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	unconfiguredWarningsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_unconfigured_warnings_total",
		Help: "Number of trips encountered whose driver had no rate configuration for the trip's service level.",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Number of HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// ObserveBillingRun records one completed billing aggregation run
func ObserveBillingRun(kind string, duration time.Duration) {
	billingRunsTotal.WithLabelValues(kind).Inc()
	billingRunDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// AddUnconfiguredWarnings counts unconfigured-service-level warnings
func AddUnconfiguredWarnings(n int) {
	if n > 0 {
		unconfiguredWarningsTotal.Add(float64(n))
	}
}

// ObserveHTTPRequest records one served HTTP request
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
