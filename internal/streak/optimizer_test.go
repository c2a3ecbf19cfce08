package streak

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

func testOptimizer() *Optimizer {
	return NewOptimizer(config.DefaultStreakConfig(), config.DefaultAnalysisConfig(), nil)
}

func analysis(player string, safety int, confidence, hitRate float64) *models.PropAnalysis {
	return &models.PropAnalysis{
		Player:         player,
		PropCategory:   "points",
		Line:           20.5,
		Recommendation: models.RecommendationHigher,
		Confidence:     confidence,
		SafetyScore:    safety,
		Metrics: models.AnalysisMetrics{
			Consistency: 0.6,
			Variance:    1.5,
			HitRate:     hitRate,
		},
		Risk: models.RiskAssessment{Level: models.RiskLow},
	}
}

func safeBatch() []*models.PropAnalysis {
	return []*models.PropAnalysis{
		analysis("A", 92, 88, 0.9),
		analysis("B", 88, 80, 0.8),
		analysis("C", 85, 75, 0.8),
		analysis("D", 81, 70, 0.7),
		analysis("E", 78, 60, 0.6),
	}
}

func TestOptimizeFiltersAndRanks(t *testing.T) {
	batch := safeBatch()
	// Same safety as B but lower confidence; must rank after B
	tied := analysis("B2", 88, 60, 0.8)
	// Below the 75 safety floor
	weak := analysis("weak", 70, 90, 0.9)
	// Safety fine but risk says avoid
	risky := analysis("risky", 90, 90, 0.9)
	risky.Risk.Level = models.RiskAvoid
	// Recommendation avoid never qualifies
	avoided := analysis("avoided", 90, 90, 0.9)
	avoided.Recommendation = models.RecommendationAvoid

	report := testOptimizer().Optimize(append(batch, tied, weak, risky, avoided))

	require.Len(t, report.Recommended, 6)
	assert.Equal(t, "A", report.Recommended[0].Analysis.Player)
	assert.Equal(t, "🥇", report.Recommended[0].Label)
	assert.Equal(t, "🥈", report.Recommended[1].Label)
	assert.Equal(t, "🥉", report.Recommended[2].Label)
	assert.Equal(t, "#4", report.Recommended[3].Label)
	assert.Equal(t, "B", report.Recommended[1].Analysis.Player)
	assert.Equal(t, "B2", report.Recommended[2].Analysis.Player)
}

func TestOptimizeBuildsFixedCombos(t *testing.T) {
	report := testOptimizer().Optimize(safeBatch())

	require.Len(t, report.SafeCombos, 3)

	duo := report.SafeCombos[0]
	assert.Equal(t, "Ultra Safe Duo", duo.Name)
	require.Len(t, duo.Picks, 2)
	assert.Equal(t, 90, duo.CombinedSafety) // mean of 92 and 88
	assert.InDelta(t, 0.72, duo.ExpectedHitRate, 1e-9)

	trio := report.SafeCombos[1]
	require.Len(t, trio.Picks, 3)
	assert.Equal(t, 88, trio.CombinedSafety) // round(265/3)

	quad := report.SafeCombos[2]
	require.Len(t, quad.Picks, 4)
	assert.Equal(t, 87, quad.CombinedSafety) // round(346/4) clears the 80 gate
}

func TestHighRewardComboGatedOnAverageSafety(t *testing.T) {
	batch := []*models.PropAnalysis{
		analysis("A", 80, 70, 0.8),
		analysis("B", 79, 70, 0.8),
		analysis("C", 78, 70, 0.8),
		analysis("D", 76, 70, 0.8),
	}

	report := testOptimizer().Optimize(batch)

	// Average safety 78 misses the 80 gate, so only the duo and trio ship
	require.Len(t, report.SafeCombos, 2)
	assert.Equal(t, "Ultra Safe Duo", report.SafeCombos[0].Name)
	assert.Equal(t, "Balanced Trio", report.SafeCombos[1].Name)
}

func TestAvoidListCapAndReasons(t *testing.T) {
	var batch []*models.PropAnalysis
	for i := 0; i < 8; i++ {
		a := analysis("avoid", 40+i, 50, 0.5)
		a.Metrics.Variance = 5.0
		batch = append(batch, a)
	}
	lowConsistency := analysis("lowc", 55, 50, 0.5)
	lowConsistency.Metrics.Consistency = 0.2
	batch = append(batch, lowConsistency)

	report := testOptimizer().Optimize(batch)

	require.Len(t, report.AvoidToday, 5)
	// Most severe first: lowest safety score leads
	assert.Equal(t, 40, report.AvoidToday[0].Analysis.SafetyScore)
	// Variance outranks consistency in the reason priority
	assert.Contains(t, report.AvoidToday[0].Reason, "volatile")
}

func TestAvoidReasonPriority(t *testing.T) {
	o := testOptimizer()

	volatile := analysis("v", 50, 50, 0.5)
	volatile.Metrics.Variance = 4.2
	volatile.Metrics.Consistency = 0.1
	assert.Contains(t, o.avoidReason(volatile), "volatile")

	inconsistent := analysis("i", 50, 50, 0.5)
	inconsistent.Metrics.Consistency = 0.1
	assert.Contains(t, o.avoidReason(inconsistent), "inconsistent")

	warned := analysis("w", 50, 50, 0.5)
	warned.Risk.Warnings = []string{"injury status: questionable"}
	assert.Equal(t, "injury status: questionable", o.avoidReason(warned))
}

func TestBuildCustomStreak(t *testing.T) {
	combo, err := testOptimizer().BuildCustomStreak(safeBatch(), 3, TierSafe)
	require.NoError(t, err)
	require.Len(t, combo.Picks, 3)
	assert.Equal(t, "A", combo.Picks[0].Player)

	// Weighted mean of 92, 88, 85 with weights 1.0, 0.9, 0.85
	assert.Equal(t, 89, combo.CombinedSafety)
}

func TestBuildCustomStreakInsufficientPicks(t *testing.T) {
	_, err := testOptimizer().BuildCustomStreak(safeBatch(), 3, TierUltraSafe)
	require.Error(t, err)

	var insufficient *ErrInsufficientPicks
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available) // only A clears 90
	assert.Equal(t, TierUltraSafe, insufficient.Tier)
}

func TestWeightedCombinedSafetyCapsLateWeights(t *testing.T) {
	picks := make([]*models.PropAnalysis, 7)
	for i := range picks {
		picks[i] = analysis("p", 80, 70, 0.8)
	}

	// Uniform scores stay put regardless of the weighting
	assert.Equal(t, 80, WeightedCombinedSafety(picks))
	assert.Equal(t, 0, WeightedCombinedSafety(nil))
}

func TestOptimizeEmptyBatch(t *testing.T) {
	report := testOptimizer().Optimize(nil)
	assert.Empty(t, report.Recommended)
	assert.Empty(t, report.SafeCombos)
	assert.Empty(t, report.AvoidToday)
}
