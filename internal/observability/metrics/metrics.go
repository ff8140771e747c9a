// Package metrics exposes the Prometheus instrumentation for core
// operations: funding updates, liquidation steps, and AMM fills (spec.md
// §6, C13 — ambient observability carried regardless of the spec's
// Non-goals on outer surfaces).
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type engineMetrics struct {
	operations *prometheus.CounterVec
	errors     *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	throttles  *prometheus.CounterVec

	fundingRate       *prometheus.GaugeVec
	liquidationVolume *prometheus.CounterVec
	feePoolBalance    *prometheus.GaugeVec
}

var (
	once     sync.Once
	registry *engineMetrics
)

// Engine returns the lazily-initialized engine metrics registry.
func Engine() *engineMetrics {
	once.Do(func() {
		registry = &engineMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "percore",
				Subsystem: "engine",
				Name:      "operations_total",
				Help:      "Total core operations segmented by operation name and outcome.",
			}, []string{"operation", "outcome"}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "percore",
				Subsystem: "engine",
				Name:      "errors_total",
				Help:      "Total core operation errors segmented by operation and error kind.",
			}, []string{"operation", "kind"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "percore",
				Subsystem: "engine",
				Name:      "operation_duration_seconds",
				Help:      "Latency distribution for core operations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"operation"}),
			throttles: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "percore",
				Subsystem: "engine",
				Name:      "throttles_total",
				Help:      "Count of operations rejected by a throttling policy.",
			}, []string{"operation", "reason"}),
			fundingRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "percore",
				Subsystem: "funding",
				Name:      "rate",
				Help:      "Last computed funding rate per market, FundingRatePrecision-scaled.",
			}, []string{"market_index"}),
			liquidationVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "percore",
				Subsystem: "liquidation",
				Name:      "transfer_quote_total",
				Help:      "Cumulative quote value transferred by liquidation steps.",
			}, []string{"market_index", "mode"}),
			feePoolBalance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "percore",
				Subsystem: "amm",
				Name:      "fee_pool_balance",
				Help:      "Current fee_pool_balance per market, QuotePrecision-scaled.",
			}, []string{"market_index"}),
		}
		prometheus.MustRegister(
			registry.operations,
			registry.errors,
			registry.latency,
			registry.throttles,
			registry.fundingRate,
			registry.liquidationVolume,
			registry.feePoolBalance,
		)
	})
	return registry
}

// Observe records the outcome of a core operation and its latency; the
// error's taxonomy kind is recorded separately by ObserveError.
func (m *engineMetrics) Observe(operation, outcome string, seconds float64) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(seconds)
}

// ObserveError records an operation failure's taxonomy kind.
func (m *engineMetrics) ObserveError(operation, kind string) {
	m.errors.WithLabelValues(operation, kind).Inc()
}

// ObserveThrottle records a throttled operation attempt.
func (m *engineMetrics) ObserveThrottle(operation, reason string) {
	m.throttles.WithLabelValues(operation, reason).Inc()
}

// SetFundingRate publishes a market's latest computed funding rate.
func (m *engineMetrics) SetFundingRate(marketIndex string, rate float64) {
	m.fundingRate.WithLabelValues(marketIndex).Set(rate)
}

// AddLiquidationVolume accumulates the quote value transferred by a
// liquidation step.
func (m *engineMetrics) AddLiquidationVolume(marketIndex, mode string, quote float64) {
	m.liquidationVolume.WithLabelValues(marketIndex, mode).Add(quote)
}

// SetFeePoolBalance publishes a market's current fee pool balance.
func (m *engineMetrics) SetFeePoolBalance(marketIndex string, balance float64) {
	m.feePoolBalance.WithLabelValues(marketIndex).Set(balance)
}
