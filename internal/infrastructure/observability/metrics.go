package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP request count and latency, labelled by the raw route.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Upload pipeline outcomes: accepted, rejected or failed.
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Total number of product image uploads by outcome",
		},
		[]string{"status"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(RequestCounter, RequestDuration, UploadsTotal)
}
