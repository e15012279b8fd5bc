// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the parley service.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parley_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parley_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parley_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)

	// AuditRecordsTotal counts pending audit records written.
	AuditRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parley_audit_records_total",
			Help: "Pending audit records created",
		},
	)

	// AuditStatusWriteFailuresTotal counts failed after-phase audit
	// status writes. A non-zero rate means audit records are stuck in
	// the pending state and should be investigated.
	AuditStatusWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parley_audit_status_write_failures_total",
			Help: "Failed audit status updates",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		RateLimitRejectedTotal,
		AuditRecordsTotal,
		AuditStatusWriteFailuresTotal,
	)
}
