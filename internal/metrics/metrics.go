package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring service health and performance
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)

	ReceiptValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_validations_total",
			Help: "Total number of receipt validations by environment and result",
		},
		[]string{"environment", "result"},
	)

	EntitlementChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_checks_total",
			Help: "Total number of entitlement evaluations by result",
		},
		[]string{"entitled"},
	)

	AppleVerifyRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apple_verify_request_duration_seconds",
			Help:    "Duration of outbound verifyReceipt requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	RateLimitedRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ReceiptValidationsTotal)
	prometheus.MustRegister(EntitlementChecksTotal)
	prometheus.MustRegister(AppleVerifyRequestDuration)
	prometheus.MustRegister(RateLimitedRequestsTotal)
}
