package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// RequestDurationSeconds tracks venue API latency by endpoint.
	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "betzbotz_gateway_request_duration_seconds",
			Help:    "Duration of venue API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// RequestErrorsTotal tracks venue API failures by endpoint.
	RequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betzbotz_gateway_request_errors_total",
			Help: "Total number of failed venue API requests",
		},
		[]string{"endpoint"},
	)

	// OrdersSubmittedTotal tracks accepted order submissions by side.
	OrdersSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betzbotz_gateway_orders_submitted_total",
			Help: "Total number of orders accepted by the CLOB",
		},
		[]string{"side"},
	)
)
