package props

import (
	"fmt"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// assessRisk builds the warning list, the supporting factors, and the
// aggregate risk level for one analyzed prop
func assessRisk(record *models.PropRecord, metrics models.AnalysisMetrics, cfg config.AnalysisConfig) models.RiskAssessment {
	warnings := collectWarnings(record, metrics, cfg)
	factors := collectFactors(record, metrics)

	return models.RiskAssessment{
		Level:    classifyRiskLevel(record, warnings, factors),
		Factors:  factors,
		Warnings: warnings,
	}
}

func collectWarnings(record *models.PropRecord, metrics models.AnalysisMetrics, cfg config.AnalysisConfig) []string {
	var warnings []string

	if metrics.Consistency < cfg.ConsistencyWarning {
		warnings = append(warnings, fmt.Sprintf("low consistency: only %.0f%% of recent games near the line", metrics.Consistency*100))
	}
	if metrics.Variance > cfg.VarianceWarning {
		warnings = append(warnings, fmt.Sprintf("high variance: %.1f game-to-game swing", metrics.Variance))
	}
	if record.InjuryStatus != models.InjuryHealthy && record.InjuryStatus != "" {
		warnings = append(warnings, fmt.Sprintf("injury status: %s", record.InjuryStatus))
	}
	if record.GamesPlayed() < cfg.MinGames {
		warnings = append(warnings, fmt.Sprintf("limited history: %d of %d games required", record.GamesPlayed(), cfg.MinGames))
	}

	return warnings
}

func collectFactors(record *models.PropRecord, metrics models.AnalysisMetrics) []string {
	var factors []string

	if metrics.Consistency >= 0.6 {
		factors = append(factors, "consistent production near the line")
	}
	if metrics.Variance > 0 && metrics.Variance < 2.0 {
		factors = append(factors, "low game-to-game volatility")
	}
	if metrics.HitRate >= 0.7 {
		factors = append(factors, "strong over rate in recent games")
	} else if metrics.HitRate <= 0.3 && record.GamesPlayed() > 0 {
		factors = append(factors, "strong under rate in recent games")
	}
	if metrics.Trend == models.TrendIncreasing && metrics.RecentAverage > record.Line {
		factors = append(factors, "recent form trending over the line")
	}
	if metrics.Trend == models.TrendDecreasing && metrics.RecentAverage < record.Line {
		factors = append(factors, "recent form trending under the line")
	}
	if record.InjuryStatus == models.InjuryHealthy && record.RestDays >= 2 {
		factors = append(factors, "healthy with rest advantage")
	}
	if record.GamesPlayed() == 10 {
		factors = append(factors, "full ten-game sample")
	}

	return factors
}

// classifyRiskLevel maps warnings and factors to the aggregate bucket.
// Avoid dominates, then high, then low; everything else is medium.
func classifyRiskLevel(record *models.PropRecord, warnings, factors []string) models.RiskLevel {
	switch {
	case len(warnings) >= 3 || record.InjuryStatus == models.InjuryOut:
		return models.RiskAvoid
	case len(warnings) >= 2:
		return models.RiskHigh
	case len(warnings) == 0 && len(factors) >= 2:
		return models.RiskLow
	default:
		return models.RiskMedium
	}
}
