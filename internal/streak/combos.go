package streak

import (
	"math"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// comboWeights decay per pick position to model diminishing confidence as
// a bundle grows; the fifth weight applies to every later pick too
var comboWeights = []float64{1.0, 0.9, 0.85, 0.8, 0.75}

// buildCombos assembles the fixed-size bundles from the top of the safe
// pool: a 2-pick ultra safe, a 3-pick balanced, and a 4-pick high reward
// that only ships when its average safety clears the configured gate
func (o *Optimizer) buildCombos(safe []*models.PropAnalysis) []Combo {
	ranked := rankPicks(safe)

	var combos []Combo
	if combo, ok := o.makeCombo(ranked, 2, "Ultra Safe Duo", "two steadiest picks on the board"); ok {
		combos = append(combos, combo)
	}
	if combo, ok := o.makeCombo(ranked, 3, "Balanced Trio", "safety with a better payout"); ok {
		combos = append(combos, combo)
	}
	if combo, ok := o.makeCombo(ranked, 4, "High Reward", "four legs, gated on average safety"); ok {
		if combo.CombinedSafety >= o.cfg.HighRewardAvgSafety {
			combos = append(combos, combo)
		}
	}
	return combos
}

func (o *Optimizer) makeCombo(ranked []RankedPick, size int, name, description string) (Combo, bool) {
	if len(ranked) < size {
		return Combo{}, false
	}

	picks := make([]*models.PropAnalysis, size)
	for i := 0; i < size; i++ {
		picks[i] = ranked[i].Analysis
	}

	return Combo{
		Name:            name,
		Description:     description,
		Picks:           picks,
		CombinedSafety:  meanSafety(picks),
		ExpectedHitRate: jointHitRate(picks),
	}, true
}

// BuildCustomStreak assembles a bundle of the requested size from picks
// clearing the tier's safety threshold. It fails with ErrInsufficientPicks
// when fewer qualifying analyses exist than requested.
func (o *Optimizer) BuildCustomStreak(analyses []*models.PropAnalysis, count int, tier RiskTier) (*Combo, error) {
	threshold := o.tierThreshold(tier)

	var qualifying []*models.PropAnalysis
	for _, a := range analyses {
		if a != nil && a.IsSafe(threshold) {
			qualifying = append(qualifying, a)
		}
	}

	if len(qualifying) < count {
		return nil, &ErrInsufficientPicks{Requested: count, Available: len(qualifying), Tier: tier}
	}

	ranked := rankPicks(qualifying)
	picks := make([]*models.PropAnalysis, count)
	for i := 0; i < count; i++ {
		picks[i] = ranked[i].Analysis
	}

	return &Combo{
		Name:            string(tier),
		Description:     "custom streak",
		Picks:           picks,
		CombinedSafety:  WeightedCombinedSafety(picks),
		ExpectedHitRate: jointHitRate(picks),
	}, nil
}

func (o *Optimizer) tierThreshold(tier RiskTier) int {
	switch tier {
	case TierUltraSafe:
		return o.cfg.UltraSafeThreshold
	case TierSafe:
		return o.cfg.SafeThreshold
	default:
		return o.cfg.ModerateThreshold
	}
}

// WeightedCombinedSafety scores an ordered pick list with decaying
// positional weights, modelling the extra fragility of longer bundles
func WeightedCombinedSafety(picks []*models.PropAnalysis) int {
	if len(picks) == 0 {
		return 0
	}

	weightedSum := 0.0
	weightTotal := 0.0
	for i, pick := range picks {
		w := comboWeights[len(comboWeights)-1]
		if i < len(comboWeights) {
			w = comboWeights[i]
		}
		weightedSum += w * float64(pick.SafetyScore)
		weightTotal += w
	}
	return int(math.Round(weightedSum / weightTotal))
}

// meanSafety is the plain arithmetic mean of member safety scores, rounded
func meanSafety(picks []*models.PropAnalysis) int {
	if len(picks) == 0 {
		return 0
	}
	sum := 0
	for _, pick := range picks {
		sum += pick.SafetyScore
	}
	return int(math.Round(float64(sum) / float64(len(picks))))
}

// jointHitRate is the product of member hit rates. It assumes the picks
// are statistically independent, which correlated legs violate; treat it
// as an upper bound.
func jointHitRate(picks []*models.PropAnalysis) float64 {
	rate := 1.0
	for _, pick := range picks {
		rate *= pick.Metrics.HitRate
	}
	return rate
}
