// Package parlay implements the parlay correlation optimizer: pairwise
// correlation detection between legs of a combined wager and the
// correlation-adjusted joint probability behind the advertised odds.
package parlay

import (
	"math"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// payoutByLegCount is the fixed leg-count-to-American-odds lookup used to
// price a standard parlay
var payoutByLegCount = map[int]int{
	2: 260,
	3: 600,
	4: 1100,
	5: 2000,
}

// ImpliedProbability converts American odds to an implied win probability
func ImpliedProbability(americanOdds int) float64 {
	if americanOdds == 0 {
		return 0
	}
	if americanOdds > 0 {
		return 100.0 / (float64(americanOdds) + 100.0)
	}
	abs := math.Abs(float64(americanOdds))
	return abs / (abs + 100.0)
}

// DecimalPayout converts American odds to a decimal payout multiplier
// (stake included)
func DecimalPayout(americanOdds int) float64 {
	if americanOdds > 0 {
		return 1.0 + float64(americanOdds)/100.0
	}
	if americanOdds < 0 {
		return 1.0 + 100.0/math.Abs(float64(americanOdds))
	}
	return 1.0
}

// parlayPayout returns the decimal payout for a parlay of the given size.
// Sizes beyond the table clamp to its nearest entry.
func parlayPayout(legCount int) float64 {
	if legCount < 2 {
		return 1.0
	}
	if legCount > 5 {
		legCount = 5
	}
	return DecimalPayout(payoutByLegCount[legCount])
}

// naiveJointProbability is the product of each leg's implied probability,
// the figure the advertised odds imply
func naiveJointProbability(legs []models.ParlayLeg) float64 {
	if len(legs) == 0 {
		return 0
	}
	p := 1.0
	for _, leg := range legs {
		p *= ImpliedProbability(leg.Odds)
	}
	return p
}
