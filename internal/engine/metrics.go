package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// BuysExecutedTotal counts positions opened.
	BuysExecutedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betzbotz_engine_buys_executed_total",
		Help: "Total number of positions opened",
	})

	// SellsExecutedTotal counts confirmed sells by kind (full or partial).
	SellsExecutedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betzbotz_engine_sells_executed_total",
			Help: "Total number of confirmed sells",
		},
		[]string{"kind"},
	)

	// TierTriggersTotal counts take-profit tier activations by tier.
	TierTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "betzbotz_engine_tier_triggers_total",
			Help: "Total number of take-profit tier activations",
		},
		[]string{"tier"},
	)

	// PositionsOpen is the current number of open positions.
	PositionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "betzbotz_engine_positions_open",
		Help: "Current number of open positions",
	})

	// RealizedPnL is the accumulated PnL from fully closed positions.
	RealizedPnL = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "betzbotz_engine_realized_pnl_usd",
		Help: "Accumulated realized PnL in USD",
	})

	// SweepDurationSeconds tracks take-profit sweep latency.
	SweepDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "betzbotz_engine_sweep_duration_seconds",
		Help:    "Duration of take-profit sweeps",
		Buckets: prometheus.DefBuckets,
	})
)
