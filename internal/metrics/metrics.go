// Package metrics provides the centralized Prometheus registry for the
// analytics service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysesComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nova_titan",
		Name:      "analyses_computed_total",
		Help:      "Total number of prop analyses computed",
	})
	AnalysesRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nova_titan",
		Name:      "analyses_rejected_total",
		Help:      "Total number of prop records rejected at the ingestion boundary",
	})
	PicksRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nova_titan",
		Name:      "picks_recorded_total",
		Help:      "Total number of picks recorded",
	})
	PicksSettledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nova_titan",
		Name:      "picks_settled_total",
		Help:      "Total number of picks settled",
	})
	ParlaysEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nova_titan",
		Name:      "parlays_evaluated_total",
		Help:      "Total number of parlays evaluated",
	})
	CorrelationWarningsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nova_titan",
		Name:      "correlation_warnings_total",
		Help:      "Total number of correlation warnings raised",
	})
	FeedFetchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nova_titan",
		Name:      "feed_fetches_total",
		Help:      "Total number of stats feed fetches",
	})
	FeedErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nova_titan",
		Name:      "feed_errors_total",
		Help:      "Total number of failed stats feed fetches",
	})
)

// Gauge metrics
var (
	TrackedPicks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nova_titan",
		Name:      "tracked_picks",
		Help:      "Number of picks currently tracked",
	})
	CurrentWinRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nova_titan",
		Name:      "current_win_rate",
		Help:      "Win rate across settled picks, pushes excluded",
	})
	CumulativeProfit = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nova_titan",
		Name:      "cumulative_profit",
		Help:      "Cumulative realized profit in stake units",
	})
	RecommendedPicks = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nova_titan",
		Name:      "recommended_picks",
		Help:      "Size of the latest streak board, by section",
	}, []string{"section"})
	BoardAverageSafety = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nova_titan",
		Name:      "board_average_safety",
		Help:      "Mean safety score across the latest analyzed board",
	})
	FeedCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nova_titan",
		Name:      "feed_cache_hit_ratio",
		Help:      "Prop cache hit ratio since process start",
	})
)

// Histogram metrics
var (
	BatchAnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nova_titan",
		Name:      "batch_analysis_duration_seconds",
		Help:      "Duration of batch prop analysis in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	FeedFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nova_titan",
		Name:      "feed_fetch_duration_seconds",
		Help:      "Duration of stats feed fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nova_titan",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AnalysesComputedTotal)
		registry.MustRegister(AnalysesRejectedTotal)
		registry.MustRegister(PicksRecordedTotal)
		registry.MustRegister(PicksSettledTotal)
		registry.MustRegister(ParlaysEvaluatedTotal)
		registry.MustRegister(CorrelationWarningsTotal)
		registry.MustRegister(FeedFetchesTotal)
		registry.MustRegister(FeedErrorsTotal)

		registry.MustRegister(TrackedPicks)
		registry.MustRegister(CurrentWinRate)
		registry.MustRegister(CumulativeProfit)
		registry.MustRegister(RecommendedPicks)
		registry.MustRegister(BoardAverageSafety)
		registry.MustRegister(FeedCacheHitRatio)

		registry.MustRegister(BatchAnalysisDuration)
		registry.MustRegister(FeedFetchDuration)
		registry.MustRegister(BacktestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBatchAnalysis records a batch analysis run.
func RecordBatchAnalysis(analyzed, rejected int, durationSeconds float64) {
	AnalysesComputedTotal.Add(float64(analyzed))
	AnalysesRejectedTotal.Add(float64(rejected))
	BatchAnalysisDuration.Observe(durationSeconds)
}

// RecordPickRecorded records a pick commit event.
func RecordPickRecorded() {
	PicksRecordedTotal.Inc()
}

// RecordPickSettled records a settlement event.
func RecordPickSettled() {
	PicksSettledTotal.Inc()
}

// RecordParlayEvaluation records a parlay evaluation and its warnings.
func RecordParlayEvaluation(warningCount int) {
	ParlaysEvaluatedTotal.Inc()
	CorrelationWarningsTotal.Add(float64(warningCount))
}

// RecordFeedFetch records a stats feed fetch.
func RecordFeedFetch(durationSeconds float64, failed bool) {
	FeedFetchesTotal.Inc()
	FeedFetchDuration.Observe(durationSeconds)
	if failed {
		FeedErrorsTotal.Inc()
	}
}

// UpdateTrackedPicks updates the tracked picks gauge.
func UpdateTrackedPicks(count int) {
	TrackedPicks.Set(float64(count))
}

// UpdateWinRate updates the current win rate gauge.
func UpdateWinRate(rate float64) {
	CurrentWinRate.Set(rate)
}

// UpdateCumulativeProfit updates the cumulative profit gauge.
func UpdateCumulativeProfit(profit float64) {
	CumulativeProfit.Set(profit)
}

// UpdateBoardSafety updates the mean board safety gauge.
func UpdateBoardSafety(avgSafety float64) {
	BoardAverageSafety.Set(avgSafety)
}

// UpdateCacheHitRatio updates the prop cache hit ratio gauge.
func UpdateCacheHitRatio(hits, misses int64) {
	total := hits + misses
	if total == 0 {
		return
	}
	FeedCacheHitRatio.Set(float64(hits) / float64(total))
}

// UpdateStreakBoard updates the streak board section gauges.
func UpdateStreakBoard(recommended, combos, avoid int) {
	RecommendedPicks.WithLabelValues("recommended").Set(float64(recommended))
	RecommendedPicks.WithLabelValues("combos").Set(float64(combos))
	RecommendedPicks.WithLabelValues("avoid").Set(float64(avoid))
}
