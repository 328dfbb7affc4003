// Package metrics holds the Prometheus collectors for the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutordesk_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tutordesk_http_request_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutordesk_mutations_total",
		Help: "Successful state mutations by collection.",
	}, []string{"collection"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tutordesk_rate_limited_total",
		Help: "Requests rejected by the per-IP rate limiter.",
	})
)
