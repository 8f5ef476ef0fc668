package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// TradesStoredTotal counts closed trades written, by backend.
	TradesStoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betzbotz_storage_trades_stored_total",
			Help: "Total number of closed trades written to storage",
		},
		[]string{"backend"},
	)
)
