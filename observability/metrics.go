// Package observability exposes the ingestion pipeline's runtime counters,
// gauges, and histograms through prometheus/client_golang, registered once
// at startup and served on /metrics by the router.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FetchMetrics tracks non-2xx outcomes of the upstream HTTP fetcher
// (spec.md §4.2 "Every non-2xx increments a counter labeled by (status,
// class)").
type FetchMetrics struct {
	nonOK *prometheus.CounterVec
}

// NewFetchMetrics registers the fetch counter vector against registry.
func NewFetchMetrics(registry prometheus.Registerer) *FetchMetrics {
	f := promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "ladder_pipeline_fetch_non_ok_total",
		Help: "Non-2xx HTTP responses from the upstream game-data API, by status and retry class.",
	}, []string{"status", "class"})
	return &FetchMetrics{nonOK: f}
}

// NonOK records one non-2xx response.
func (m *FetchMetrics) NonOK(status int, class string) {
	m.nonOK.WithLabelValues(strconv.Itoa(status), class).Inc()
}

// LimiterMetrics tracks the observed permit rate per shard/location.
type LimiterMetrics struct {
	rate *prometheus.GaugeVec
}

// NewLimiterMetrics registers the rate-limiter gauge vector against registry.
func NewLimiterMetrics(registry prometheus.Registerer) *LimiterMetrics {
	g := promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
		Name: "ladder_pipeline_limiter_rate_per_second",
		Help: "Observed permit rate of the rate limiter's telemetry wrapper, per shard.",
	}, []string{"shard"})
	return &LimiterMetrics{rate: g}
}

// Callback adapts the gauge to a ratelimit.RateCallback shape without
// importing the ratelimit package here, keeping this package dependency-free
// of the domain layer it instruments.
func (m *LimiterMetrics) Callback() func(shard string, ratePerSecond float64) {
	return func(shard string, rate float64) {
		m.rate.WithLabelValues(shard).Set(rate)
	}
}

// StoreMetrics tracks the ClickHouse persistence layer's batch behavior
// (spec.md §4.10).
type StoreMetrics struct {
	batchSize     *prometheus.HistogramVec
	batchDuration *prometheus.HistogramVec
	rollbacks     *prometheus.CounterVec
}

// NewStoreMetrics registers the store histogram/counter vectors against
// registry.
func NewStoreMetrics(registry prometheus.Registerer) *StoreMetrics {
	return &StoreMetrics{
		batchSize: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ladder_pipeline_store_batch_rows",
			Help:    "Row count of batches flushed to ClickHouse, by table.",
			Buckets: []float64{10, 100, 1000, 5000, 20000, 50000, 200000},
		}, []string{"table"}),
		batchDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ladder_pipeline_store_flush_duration_seconds",
			Help:    "Wall time to flush one batch to ClickHouse, by table.",
			Buckets: prometheus.DefBuckets,
		}, []string{"table"}),
		rollbacks: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ladder_pipeline_store_rollbacks_total",
			Help: "Run-id rollbacks issued against ClickHouse tables, by table and outcome.",
		}, []string{"table", "outcome"}),
	}
}

// ObserveBatch records one flushed batch's size and duration.
func (m *StoreMetrics) ObserveBatch(table string, rows int, seconds float64) {
	m.batchSize.WithLabelValues(table).Observe(float64(rows))
	m.batchDuration.WithLabelValues(table).Observe(seconds)
}

// Rollback records one rollback attempt's outcome ("ok" or "failed").
func (m *StoreMetrics) Rollback(table, outcome string) {
	m.rollbacks.WithLabelValues(table, outcome).Inc()
}

// RunnerMetrics tracks the recurring runner's cycle outcomes (spec.md §4.12).
type RunnerMetrics struct {
	cycles       *prometheus.CounterVec
	cycleSeconds prometheus.Histogram
	backoff      prometheus.Gauge
}

// NewRunnerMetrics registers the runner counter/histogram/gauge against
// registry.
func NewRunnerMetrics(registry prometheus.Registerer) *RunnerMetrics {
	return &RunnerMetrics{
		cycles: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ladder_pipeline_runner_cycles_total",
			Help: "Completed pipeline cycles, by outcome (ok, failed).",
		}, []string{"outcome"}),
		cycleSeconds: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "ladder_pipeline_runner_cycle_duration_seconds",
			Help:    "Wall time of one full players/match-ids/match-data cycle.",
			Buckets: []float64{30, 60, 300, 600, 1800, 3600, 7200, 21600},
		}),
		backoff: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "ladder_pipeline_runner_backoff_seconds",
			Help: "Current backoff duration applied after the last failed cycle (0 when healthy).",
		}),
	}
}

// Cycle records a completed cycle's outcome and duration.
func (m *RunnerMetrics) Cycle(ok bool, seconds float64) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.cycles.WithLabelValues(outcome).Inc()
	m.cycleSeconds.Observe(seconds)
}

// SetBackoff records the backoff duration currently in effect.
func (m *RunnerMetrics) SetBackoff(seconds float64) {
	m.backoff.Set(seconds)
}
