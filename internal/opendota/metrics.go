package opendota

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metalab_opendota_requests_total",
		Help: "OpenDota API requests by endpoint and status code",
	}, []string{"endpoint", "status"})

	rateLimitRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metalab_opendota_rate_limit_retries_total",
		Help: "Requests retried after an HTTP 429",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "metalab_opendota_request_duration_seconds",
		Help:    "Latency of OpenDota API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)
