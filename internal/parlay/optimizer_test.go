package parlay

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

func newTestOptimizer() *Optimizer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewOptimizer(config.DefaultParlayConfig(), logger)
}

func leg(player, market string, side models.LegSide, odds int, gameID, team string) models.ParlayLeg {
	return models.ParlayLeg{
		Player: player,
		Market: market,
		Line:   20.5,
		Side:   side,
		Odds:   odds,
		GameID: gameID,
		Team:   team,
	}
}

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		odds     int
		expected float64
	}{
		{150, 0.4},
		{-150, 0.6},
		{100, 0.5},
		{-110, 110.0 / 210.0},
		{0, 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, ImpliedProbability(tt.odds), 1e-9, "odds %d", tt.odds)
	}
}

func TestDecimalPayout(t *testing.T) {
	assert.InDelta(t, 3.6, DecimalPayout(260), 1e-9)
	assert.InDelta(t, 1.5, DecimalPayout(-200), 1e-9)
	assert.InDelta(t, 1.0, DecimalPayout(0), 1e-9)
}

func TestParlayPayoutClampsToTable(t *testing.T) {
	assert.InDelta(t, 3.6, parlayPayout(2), 1e-9)
	assert.InDelta(t, 7.0, parlayPayout(3), 1e-9)
	assert.InDelta(t, 12.0, parlayPayout(4), 1e-9)
	assert.InDelta(t, 21.0, parlayPayout(5), 1e-9)
	assert.InDelta(t, 21.0, parlayPayout(8), 1e-9, "oversized slips price at the five-leg row")
	assert.InDelta(t, 1.0, parlayPayout(1), 1e-9)
}

func TestAnalyzeIndependentLegs(t *testing.T) {
	o := newTestOptimizer()
	legs := []models.ParlayLeg{
		leg("Player A", "points", models.SideOver, -110, "game-1", "AAA"),
		leg("Player B", "rebounds", models.SideOver, -110, "game-2", "BBB"),
		leg("Player C", "assists", models.SideUnder, -110, "game-3", "CCC"),
	}

	analysis, err := o.Analyze(legs, nil)
	require.NoError(t, err)

	assert.Empty(t, analysis.Warnings)
	assert.Equal(t, 100, analysis.IndependenceScore)
	assert.Equal(t, 45, analysis.RiskScore)
	assert.InDelta(t, analysis.NaiveProbability, analysis.AdjustedProbability, 1e-12,
		"independent legs take no correlation haircut")
	assert.InDelta(t, 0, analysis.AdjustmentPct, 1e-9)

	p := 110.0 / 210.0
	naive := p * p * p
	assert.InDelta(t, naive, analysis.NaiveProbability, 1e-9)
	assert.InDelta(t, naive*7.0-1, analysis.ExpectedValue, 1e-9)
	assert.Empty(t, analysis.Recommendations)
}

func TestAnalyzePasserReceiverStack(t *testing.T) {
	o := newTestOptimizer()
	legs := []models.ParlayLeg{
		leg("QB One", "Passing Yards", models.SideOver, -115, "game-1", "AAA"),
		leg("WR Two", "Receiving Yards", models.SideOver, -110, "game-1", "AAA"),
	}

	analysis, err := o.Analyze(legs, nil)
	require.NoError(t, err)

	require.Len(t, analysis.Warnings, 1)
	w := analysis.Warnings[0]
	assert.Equal(t, models.CorrelationPositive, w.Type)
	assert.InDelta(t, 0.68, w.Correlation, 1e-9)

	// one pair at |0.68| and a second leg stacked into the same game
	assert.Equal(t, 100-68-10, analysis.IndependenceScore)
	assert.Equal(t, 15*2+10+20, analysis.RiskScore)

	// positive correlation shrinks the naive probability by factor*|rho|
	assert.InDelta(t, analysis.NaiveProbability*(1-0.3*0.68), analysis.AdjustedProbability, 1e-12)
	assert.InDelta(t, -20.4, analysis.AdjustmentPct, 1e-9)
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestAnalyzeOpposingOutcomes(t *testing.T) {
	o := newTestOptimizer()
	legs := []models.ParlayLeg{
		leg("Player A", "points", models.SideOver, -110, "game-1", "AAA"),
		leg("Player B", "points", models.SideUnder, -110, "game-1", "BBB"),
		leg("Player C", "assists", models.SideOver, -110, "game-2", "CCC"),
	}

	analysis, err := o.Analyze(legs, nil)
	require.NoError(t, err)

	require.Len(t, analysis.Warnings, 1)
	w := analysis.Warnings[0]
	assert.Equal(t, models.CorrelationNegative, w.Type)
	assert.InDelta(t, -0.42, w.Correlation, 1e-9)

	// negative correlation warns but never inflates the adjusted figure
	assert.InDelta(t, analysis.NaiveProbability, analysis.AdjustedProbability, 1e-12)

	// three legs, one warning, one stacked game
	assert.Equal(t, 75, analysis.RiskScore)
	// mean |rho| over pairs (0.42, 0, 0) = 0.14, plus the same-game deduction
	assert.Equal(t, 100-14-10, analysis.IndependenceScore)

	require.Len(t, analysis.Recommendations, 2)
	assert.Contains(t, analysis.Recommendations[1], "opposing")
}

func TestAnalyzeRiskOrdering(t *testing.T) {
	o := newTestOptimizer()

	independent := []models.ParlayLeg{
		leg("Player A", "points", models.SideOver, -110, "game-1", "AAA"),
		leg("Player B", "points", models.SideOver, -110, "game-2", "BBB"),
		leg("Player C", "assists", models.SideOver, -110, "game-3", "CCC"),
	}
	stacked := []models.ParlayLeg{
		leg("Player A", "points", models.SideOver, -110, "game-1", "AAA"),
		leg("Player B", "points", models.SideUnder, -110, "game-1", "BBB"),
		leg("Player C", "assists", models.SideOver, -110, "game-2", "CCC"),
	}

	base, err := o.Analyze(independent, nil)
	require.NoError(t, err)
	risky, err := o.Analyze(stacked, nil)
	require.NoError(t, err)

	assert.Greater(t, risky.RiskScore, base.RiskScore)
	assert.Less(t, risky.IndependenceScore, base.IndependenceScore)
}

func TestAnalyzeRejectsZeroOdds(t *testing.T) {
	o := newTestOptimizer()
	legs := []models.ParlayLeg{
		leg("Player A", "points", models.SideOver, 0, "game-1", "AAA"),
	}

	_, err := o.Analyze(legs, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidOdds))
}

func TestAnalyzeSoftLegCapLogsNotRejects(t *testing.T) {
	o := newTestOptimizer()

	var legs []models.ParlayLeg
	for i := 0; i < 6; i++ {
		legs = append(legs, leg(
			"Player "+string(rune('A'+i)), "points", models.SideOver, -110,
			"game-"+string(rune('1'+i)), "T"+string(rune('A'+i)),
		))
	}

	analysis, err := o.Analyze(legs, nil)
	require.NoError(t, err, "slips over the cap are warned about, not refused")
	assert.Len(t, analysis.Legs, 6)
	assert.Equal(t, 90, analysis.RiskScore)
}

func TestAnalyzeDegradedSingleLeg(t *testing.T) {
	o := newTestOptimizer()
	legs := []models.ParlayLeg{
		leg("Player A", "points", models.SideOver, -150, "game-1", "AAA"),
	}

	analysis, err := o.Analyze(legs, nil)
	require.NoError(t, err)

	assert.Empty(t, analysis.Warnings)
	assert.InDelta(t, 0.6, analysis.NaiveProbability, 1e-9)
	assert.InDelta(t, 0, analysis.ExpectedValue, 1e-9, "single legs are not priced as a parlay")
	assert.Equal(t, 100, analysis.IndependenceScore)
}

func TestAnalyzeSuggestsAlternatives(t *testing.T) {
	o := newTestOptimizer()
	legs := []models.ParlayLeg{
		leg("Player A", "points", models.SideOver, -110, "game-1", "AAA"),
		leg("Player B", "points", models.SideOver, -110, "game-1", "AAA"),
	}

	pool := []*models.PropAnalysis{
		{Player: "Player A", PropCategory: "points", SafetyScore: 95, Recommendation: models.RecommendationHigher},
		{Player: "Player X", PropCategory: "rebounds", SafetyScore: 91, Recommendation: models.RecommendationHigher, GameID: "game-3"},
		{Player: "Player Y", PropCategory: "assists", SafetyScore: 70, Recommendation: models.RecommendationHigher},
		{Player: "Player Z", PropCategory: "points", SafetyScore: 84, Recommendation: models.RecommendationAvoid},
		{Player: "Player W", PropCategory: "points", SafetyScore: 82, Recommendation: models.RecommendationLower, GameID: "game-4"},
	}

	analysis, err := o.Analyze(legs, pool)
	require.NoError(t, err)

	require.Len(t, analysis.Alternatives, 2)
	assert.Equal(t, "Player X", analysis.Alternatives[0].Player, "slip members and low-safety picks are skipped")
	assert.Equal(t, "Player W", analysis.Alternatives[1].Player)
}

func TestPairCorrelationTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		a, b     models.ParlayLeg
		expected float64
	}{
		{
			name:     "cross game is independent",
			a:        leg("A", "points", models.SideOver, -110, "game-1", "AAA"),
			b:        leg("B", "points", models.SideOver, -110, "game-2", "BBB"),
			expected: 0,
		},
		{
			name:     "same player opposite sides",
			a:        leg("A", "points", models.SideOver, -110, "game-1", "AAA"),
			b:        leg("A", "points", models.SideUnder, -110, "game-1", "AAA"),
			expected: corrOpposing,
		},
		{
			name:     "higher normalizes onto over",
			a:        leg("A", "points", models.SideHigher, -110, "game-1", "AAA"),
			b:        leg("A", "points", models.SideLower, -110, "game-1", "AAA"),
			expected: corrOpposing,
		},
		{
			name:     "same team different players",
			a:        leg("A", "points", models.SideOver, -110, "game-1", "AAA"),
			b:        leg("B", "rebounds", models.SideOver, -110, "game-1", "AAA"),
			expected: corrSameTeam,
		},
		{
			name:     "same player different markets",
			a:        leg("A", "points", models.SideOver, -110, "game-1", "AAA"),
			b:        leg("A", "rebounds", models.SideOver, -110, "game-1", "AAA"),
			expected: corrSamePlayer,
		},
		{
			name:     "passer receiver stack",
			a:        leg("QB", "Passing Yards", models.SideOver, -110, "game-1", "AAA"),
			b:        leg("WR", "receptions", models.SideOver, -110, "game-1", "AAA"),
			expected: corrPasserReceiver,
		},
		{
			name:     "same game residual pace",
			a:        leg("A", "points", models.SideOver, -110, "game-1", "AAA"),
			b:        leg("B", "points", models.SideOver, -110, "game-1", "BBB"),
			expected: corrResidualPace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, pairCorrelation(tt.a, tt.b), 1e-9)
		})
	}
}
