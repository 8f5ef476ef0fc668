package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// MarketsScannedTotal counts markets returned by the venue across all
	// scan cycles, including duplicates.
	MarketsScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betzbotz_scanner_markets_scanned_total",
		Help: "Total number of markets returned by the venue",
	})

	// OpportunitiesFoundTotal counts markets that produced a trade candidate.
	OpportunitiesFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betzbotz_scanner_opportunities_found_total",
		Help: "Total number of trade opportunities surfaced by the filter",
	})

	// MarketsRejectedTotal counts filter rejections by stage.
	MarketsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betzbotz_scanner_markets_rejected_total",
			Help: "Total number of markets rejected by the filter",
		},
		[]string{"stage"},
	)

	// ScanDurationSeconds tracks scan cycle latency.
	ScanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "betzbotz_scanner_scan_duration_seconds",
		Help:    "Duration of market scan cycles",
		Buckets: prometheus.DefBuckets,
	})

	// ScanErrorsTotal counts scan cycles that failed to fetch markets.
	ScanErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betzbotz_scanner_scan_errors_total",
		Help: "Total number of failed market fetches",
	})
)
