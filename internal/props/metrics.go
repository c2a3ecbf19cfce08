package props

import (
	"math"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// calculateConsistency returns the fraction of games landing within the
// configured band of the line
func calculateConsistency(games []float64, line, band float64) float64 {
	if len(games) == 0 {
		return 0
	}
	inBand := 0
	for _, v := range games {
		if math.Abs(v-line) <= band {
			inBand++
		}
	}
	return float64(inBand) / float64(len(games))
}

// calculateVariance returns the sample standard deviation of the series,
// 0 when fewer than 2 samples exist
func calculateVariance(games []float64) float64 {
	if len(games) < 2 {
		return 0
	}
	mean := average(games)
	sumSq := 0.0
	for _, v := range games {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(games)-1))
}

// calculateRecentAverage returns the mean of the last 5 games, falling back
// to whatever is available if fewer
func calculateRecentAverage(games []float64) float64 {
	if len(games) == 0 {
		return 0
	}
	start := len(games) - 5
	if start < 0 {
		start = 0
	}
	return average(games[start:])
}

// calculateHitRate returns the fraction of games strictly exceeding the line
func calculateHitRate(games []float64, line float64) float64 {
	if len(games) == 0 {
		return 0
	}
	over := 0
	for _, v := range games {
		if v > line {
			over++
		}
	}
	return float64(over) / float64(len(games))
}

// classifyTrend compares recent form to the season baseline
func classifyTrend(recentAverage, seasonAverage, threshold float64) models.Trend {
	if seasonAverage == 0 {
		return models.TrendStable
	}
	delta := (recentAverage - seasonAverage) / seasonAverage
	switch {
	case delta > threshold:
		return models.TrendIncreasing
	case delta < -threshold:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// calculateSafetyScore combines consistency, variance, and hit-rate edge
// into the composite 0-100 safety figure
func calculateSafetyScore(consistency, variance, hitRate float64) int {
	varianceScore := 0.5
	if variance > 0 {
		varianceScore = math.Min(1, 5/variance)
	}
	edge := math.Abs(hitRate-0.5) * 2

	score := int(math.Round(100 * (0.4*consistency + 0.3*varianceScore + 0.3*edge)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// calculateConfidence derives the 0-95 confidence figure
func calculateConfidence(consistency, variance, hitRate float64, safetyScore int) float64 {
	confidence := 30*consistency +
		math.Max(0, (5-variance)*5) +
		40*math.Abs(hitRate-0.5) +
		0.3*float64(safetyScore)

	if confidence < 0 {
		return 0
	}
	if confidence > 95 {
		return 95
	}
	return confidence
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
