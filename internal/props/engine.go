// Package props implements the prop analysis engine: deterministic,
// closed-form analysis of one player prop's historical line. Analyses are
// pure functions of their input record and safe to run concurrently.
package props

import (
	"fmt"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// Engine converts prop records into structured analyses
type Engine struct {
	cfg config.AnalysisConfig
}

// NewEngine creates an analysis engine with the given thresholds
func NewEngine(cfg config.AnalysisConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Analyze computes the full analysis for one prop record. The record is
// validated at this boundary; malformed history degrades to zero-valued
// metrics and an avoid call, but an invalid line fails fast.
func (e *Engine) Analyze(record *models.PropRecord) (*models.PropAnalysis, error) {
	if record == nil {
		return nil, fmt.Errorf("prop analysis: %w", models.ErrInvalidLine)
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("prop analysis: %w", err)
	}

	metrics := e.calculateMetrics(record)
	risk := assessRisk(record, metrics, e.cfg)
	recommendation := e.recommend(record, metrics)
	safety := calculateSafetyScore(metrics.Consistency, metrics.Variance, metrics.HitRate)
	confidence := calculateConfidence(metrics.Consistency, metrics.Variance, metrics.HitRate, safety)

	return &models.PropAnalysis{
		Player:         record.Player,
		PropCategory:   record.PropCategory,
		Line:           record.Line,
		Team:           record.Team,
		Recommendation: recommendation,
		Confidence:     confidence,
		Metrics:        metrics,
		Context:        buildContext(record),
		Risk:           risk,
		History:        buildHistory(record),
		SafetyScore:    safety,
	}, nil
}

// AnalyzeBatch analyzes a batch of records, skipping invalid ones and
// reporting them through the returned error slice index
func (e *Engine) AnalyzeBatch(records []*models.PropRecord) ([]*models.PropAnalysis, []error) {
	analyses := make([]*models.PropAnalysis, 0, len(records))
	var errs []error
	for _, record := range records {
		analysis, err := e.Analyze(record)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		analyses = append(analyses, analysis)
	}
	return analyses, errs
}

func (e *Engine) calculateMetrics(record *models.PropRecord) models.AnalysisMetrics {
	games := record.LastTenGames
	consistency := calculateConsistency(games, record.Line, e.cfg.ConsistencyBand)
	recentAverage := calculateRecentAverage(games)

	return models.AnalysisMetrics{
		Consistency:   consistency,
		Variance:      calculateVariance(games),
		Trend:         classifyTrend(recentAverage, record.SeasonAverage, e.cfg.TrendThreshold),
		RecentAverage: recentAverage,
		SeasonAverage: record.SeasonAverage,
		HitRate:       calculateHitRate(games, record.Line),
		FloorGameRate: consistency,
	}
}

// recommend applies the directional policy in priority order: safety gate,
// history gate, line gap, hit-rate tie-break, trend tie-break, avoid.
func (e *Engine) recommend(record *models.PropRecord, metrics models.AnalysisMetrics) models.Recommendation {
	safety := calculateSafetyScore(metrics.Consistency, metrics.Variance, metrics.HitRate)
	if safety < e.cfg.MinSafetyScore {
		return models.RecommendationAvoid
	}
	if record.GamesPlayed() < e.cfg.MinGames {
		return models.RecommendationAvoid
	}

	gap := metrics.RecentAverage - record.Line
	if gap > e.cfg.LineGapThreshold {
		return models.RecommendationHigher
	}
	if gap < -e.cfg.LineGapThreshold {
		return models.RecommendationLower
	}

	if metrics.HitRate > e.cfg.HitRateHigh {
		return models.RecommendationHigher
	}
	if metrics.HitRate < e.cfg.HitRateLow {
		return models.RecommendationLower
	}

	if gap > 0 && metrics.Trend == models.TrendIncreasing {
		return models.RecommendationHigher
	}
	if gap < 0 && metrics.Trend == models.TrendDecreasing {
		return models.RecommendationLower
	}

	return models.RecommendationAvoid
}

func buildContext(record *models.PropRecord) models.MatchupContext {
	usage := 0.0
	if record.UsageRate != nil {
		usage = *record.UsageRate
	}
	status := record.InjuryStatus
	if status == "" {
		status = models.InjuryHealthy
	}

	return models.MatchupContext{
		MatchupRating: rateMatchup(record),
		PaceNote:      paceNote(record),
		UsageRate:     usage,
		MinutesTrend:  minutesTrend(record),
		InjuryStatus:  status,
		RestDays:      record.RestDays,
	}
}

// rateMatchup grades the opponent using the head-to-head history when
// available, neutral otherwise
func rateMatchup(record *models.PropRecord) string {
	if len(record.VsOpponentHistory) == 0 {
		return "neutral"
	}
	avg := average(record.VsOpponentHistory)
	switch {
	case avg > record.Line:
		return "favorable"
	case avg < record.Line:
		return "tough"
	default:
		return "neutral"
	}
}

func paceNote(record *models.PropRecord) string {
	if record.RestDays <= 1 {
		return "back-to-back, pace may dip"
	}
	return "normal rest, no pace concern"
}

func minutesTrend(record *models.PropRecord) string {
	switch {
	case record.MinutesOrSnapShare >= 75:
		return "heavy workload"
	case record.MinutesOrSnapShare >= 50:
		return "stable"
	default:
		return "limited role"
	}
}

func buildHistory(record *models.PropRecord) models.PropHistory {
	lastFive := record.LastTenGames
	if len(lastFive) > 5 {
		lastFive = lastFive[len(lastFive)-5:]
	}

	homeAvg := record.SeasonAverage
	if record.HomeAverage != nil {
		homeAvg = *record.HomeAverage
	}
	awayAvg := record.SeasonAverage
	if record.AwayAverage != nil {
		awayAvg = *record.AwayAverage
	}

	return models.PropHistory{
		VsOpponent:  describeOpponentHistory(record),
		LastFive:    append([]float64{}, lastFive...),
		HomeAverage: homeAvg,
		AwayAverage: awayAvg,
	}
}

func describeOpponentHistory(record *models.PropRecord) string {
	n := len(record.VsOpponentHistory)
	if n == 0 {
		return fmt.Sprintf("no meetings vs %s on record", record.Opponent)
	}
	return fmt.Sprintf("%.1f avg over %d meetings vs %s", average(record.VsOpponentHistory), n, record.Opponent)
}
