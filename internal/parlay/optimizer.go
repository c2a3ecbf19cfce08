package parlay

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// Optimizer analyzes combined wagers for correlation risk
type Optimizer struct {
	cfg    config.ParlayConfig
	logger *logrus.Logger
}

// NewOptimizer creates a parlay optimizer
func NewOptimizer(cfg config.ParlayConfig, logger *logrus.Logger) *Optimizer {
	return &Optimizer{cfg: cfg, logger: logger}
}

// Analyze assesses an ordered list of legs. Zero or one leg degrades to a
// trivial analysis rather than failing; invalid odds fail fast. Exceeding
// the soft leg cap is logged, not rejected. The optional pool of analyses
// feeds the safer-alternative suggestions.
func (o *Optimizer) Analyze(legs []models.ParlayLeg, pool []*models.PropAnalysis) (*models.ParlayAnalysis, error) {
	for _, leg := range legs {
		if leg.Odds == 0 {
			return nil, fmt.Errorf("parlay analysis: %w: %s", models.ErrInvalidOdds, leg.Describe())
		}
	}

	if len(legs) > o.cfg.SoftLegCap && o.logger != nil {
		o.logger.WithFields(logrus.Fields{
			"leg_count": len(legs),
			"soft_cap":  o.cfg.SoftLegCap,
		}).Warn("Parlay exceeds the recommended leg cap")
	}

	warnings, avgCorrelation := o.detectCorrelations(legs)
	naive := naiveJointProbability(legs)
	adjusted := o.adjustProbability(naive, warnings)

	analysis := &models.ParlayAnalysis{
		Legs:                legs,
		Warnings:            warnings,
		NaiveProbability:    naive,
		AdjustedProbability: adjusted,
		AdjustmentPct:       adjustmentPct(naive, adjusted),
		ExpectedValue:       expectedValue(adjusted, len(legs)),
		IndependenceScore:   independenceScore(avgCorrelation, legs),
		RiskScore:           riskScore(legs, warnings),
		Recommendations:     o.recommendations(legs, warnings),
		Alternatives:        o.alternatives(legs, pool),
	}

	return analysis, nil
}

// detectCorrelations walks every leg pair, collecting warnings for pairs
// above the threshold and the mean absolute pairwise correlation
func (o *Optimizer) detectCorrelations(legs []models.ParlayLeg) ([]models.CorrelationWarning, float64) {
	var warnings []models.CorrelationWarning
	pairCount := 0
	correlationSum := 0.0

	for i := 0; i < len(legs); i++ {
		for j := i + 1; j < len(legs); j++ {
			correlation := pairCorrelation(legs[i], legs[j])
			pairCount++
			correlationSum += math.Abs(correlation)

			if math.Abs(correlation) > o.cfg.WarningThreshold {
				warnings = append(warnings, buildWarning(legs[i], legs[j], correlation))
			}
		}
	}

	if pairCount == 0 {
		return warnings, 0
	}
	return warnings, correlationSum / float64(pairCount)
}

// adjustProbability discounts the naive joint probability once per
// positively-correlated warning. Negative correlations are surfaced but
// never inflate the figure; the conservative side of the estimate wins.
func (o *Optimizer) adjustProbability(naive float64, warnings []models.CorrelationWarning) float64 {
	adjusted := naive
	for _, w := range warnings {
		if w.Type == models.CorrelationPositive {
			adjusted *= 1 - math.Abs(w.Correlation)*o.cfg.AdjustmentFactor
		}
	}
	return adjusted
}

func adjustmentPct(naive, adjusted float64) float64 {
	if naive == 0 {
		return 0
	}
	return (adjusted - naive) / naive * 100
}

// expectedValue prices the parlay against the standard payout table
func expectedValue(adjustedProbability float64, legCount int) float64 {
	if legCount < 2 {
		return 0
	}
	return adjustedProbability*parlayPayout(legCount) - 1
}

// independenceScore starts from the mean absolute pairwise correlation and
// deducts 10 points per extra leg stacked into the same game
func independenceScore(avgCorrelation float64, legs []models.ParlayLeg) int {
	score := 100 - int(math.Round(100*avgCorrelation)) - sameGamePenalty(legs)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func sameGamePenalty(legs []models.ParlayLeg) int {
	perGame := legsPerGame(legs)
	penalty := 0
	for _, count := range perGame {
		if count > 1 {
			penalty += 10 * (count - 1)
		}
	}
	return penalty
}

// riskScore grows with leg count, warning count, and stacked games,
// capped at 100
func riskScore(legs []models.ParlayLeg, warnings []models.CorrelationWarning) int {
	stackedGames := 0
	for _, count := range legsPerGame(legs) {
		if count > 1 {
			stackedGames++
		}
	}

	score := 15*len(legs) + 10*len(warnings) + 20*stackedGames
	if score > 100 {
		return 100
	}
	return score
}

func legsPerGame(legs []models.ParlayLeg) map[string]int {
	perGame := make(map[string]int, len(legs))
	for _, leg := range legs {
		perGame[leg.GameID]++
	}
	return perGame
}

func (o *Optimizer) recommendations(legs []models.ParlayLeg, warnings []models.CorrelationWarning) []string {
	if len(warnings) == 0 {
		return nil
	}

	recs := []string{"spread legs across independent games to keep the advertised odds honest"}
	for _, w := range warnings {
		if w.Type == models.CorrelationNegative {
			recs = append(recs, "remove one side of the opposing outcomes: they cannot both land")
			break
		}
	}
	return recs
}

// alternatives proposes high-safety picks not already present in the slip
func (o *Optimizer) alternatives(legs []models.ParlayLeg, pool []*models.PropAnalysis) []models.AlternativeLeg {
	if len(pool) == 0 {
		return nil
	}

	inSlip := make(map[string]bool, len(legs))
	for _, leg := range legs {
		inSlip[leg.Player+"|"+leg.Market] = true
	}

	var alternatives []models.AlternativeLeg
	for _, a := range pool {
		if a == nil || a.SafetyScore < o.cfg.AlternativeMinSafety || a.Recommendation == models.RecommendationAvoid {
			continue
		}
		if inSlip[a.Player+"|"+a.PropCategory] {
			continue
		}

		alternatives = append(alternatives, models.AlternativeLeg{
			Player:       a.Player,
			PropCategory: a.PropCategory,
			Line:         a.Line,
			Side:         a.Recommendation,
			SafetyScore:  a.SafetyScore,
			GameID:       a.GameID,
		})
		if len(alternatives) >= o.cfg.MaxAlternatives {
			break
		}
	}
	return alternatives
}
