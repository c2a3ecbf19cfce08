//go:build e2e

package e2e

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/repository"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/service"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/statsfeed"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/streak"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/tracker"
	"github.com/tzsmit/nova-titan-widget-sub004/test/helpers"
)

const testAPIKey = "e2e-test-key"

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "nova-titan-analytics",
			Environment: "development",
			LogLevel:    "error",
		},
		StatsFeed: config.StatsFeedConfig{
			BaseURL:            baseURL,
			APIKey:             testAPIKey,
			TimeoutSeconds:     5,
			MaxRetries:         1,
			RateLimitPerSecond: 100,
			CacheTTLSeconds:    60,
			CacheMaxSize:       100,
		},
		Analysis: config.DefaultAnalysisConfig(),
		Streak:   config.DefaultStreakConfig(),
		Parlay:   config.DefaultParlayConfig(),
	}
}

// TestFullPipeline exercises the whole path a real deployment takes:
// provider HTTP board, concurrent analysis, streak report, parlay
// evaluation, and pick settlement through the tracker.
func TestFullPipeline(t *testing.T) {
	helpers.SkipIfShort(t)

	board := []models.PropRecord{
		helpers.SteadyRecord("Player A", "points", 22.5, 0.5),
		helpers.SteadyRecord("Player B", "rebounds", 8.5, 0.75),
		helpers.SteadyRecord("Player C", "assists", 6.5, 0.9),
	}
	server := helpers.MockStatsFeedServer(t, testAPIKey, board)

	cfg := testConfig(server.URL)
	log := helpers.NewTestLogger()
	ctx := helpers.CreateTestContext(t, 30*time.Second)

	fetcher := statsfeed.NewFetcher(cfg.StatsFeed, log)
	defer fetcher.Close()

	tr, err := tracker.NewTracker(ctx, repository.NewMemoryPickStore(), log)
	require.NoError(t, err)

	svc := service.NewAnalyticsService(cfg, fetcher, tr, log)

	// Board refresh over the real HTTP client and normalization path.
	refreshed, err := svc.RefreshBoard(ctx, "nba")
	require.NoError(t, err)
	require.Len(t, refreshed.Analyses, 3)
	require.NotNil(t, refreshed.Streak)

	for _, analysis := range refreshed.Analyses {
		assert.Equal(t, models.RecommendationHigher, analysis.Recommendation)
		assert.GreaterOrEqual(t, analysis.SafetyScore, 80)
	}
	assert.Len(t, refreshed.Streak.Recommended, 3)

	// Custom streak from the refreshed board.
	combo, err := svc.BuildCustomStreak(2, streak.TierSafe)
	require.NoError(t, err)
	assert.Len(t, combo.Picks, 2)

	// Parlay evaluation draws alternatives from the same board.
	analysis, err := svc.EvaluateParlay([]models.ParlayLeg{
		{Player: "Player A", Market: "points", Line: 22.5, Side: models.SideHigher, Odds: -110, GameID: "g1", Team: "DEN"},
		{Player: "Player B", Market: "rebounds", Line: 8.5, Side: models.SideHigher, Odds: -115, GameID: "g2", Team: "DEN"},
	})
	require.NoError(t, err)
	assert.Empty(t, analysis.Warnings)
	assert.Equal(t, 100, analysis.IndependenceScore)

	// Record a pick from the board and settle it as a win.
	id, err := svc.CommitPick(ctx, models.PickRecord{
		Player:       "Player A",
		PropCategory: "points",
		Line:         22.5,
		Pick:         models.RecommendationHigher,
		Odds:         -110,
		Stake:        100,
		SafetyScore:  refreshed.Analyses[0].SafetyScore,
		Confidence:   refreshed.Analyses[0].Confidence,
	})
	require.NoError(t, err)

	settled, err := svc.SettlePick(ctx, id, 30)
	require.NoError(t, err)
	assert.Equal(t, models.PickWin, settled.Result)
	assert.InDelta(t, 90.91, settled.Profit, 0.001)

	stats := svc.PerformanceStats()
	assert.Equal(t, 1, stats.TotalPicks)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1.0, stats.WinRate)

	result := svc.Backtest(30)
	assert.Equal(t, 1, result.Picks)
	assert.Equal(t, 1.0, result.WinRate)
}

// TestPipelineFeedFailure verifies a failing provider leaves the prior
// board intact and surfaces the typed feed error.
func TestPipelineFeedFailure(t *testing.T) {
	helpers.SkipIfShort(t)

	board := []models.PropRecord{helpers.SteadyRecord("Player A", "points", 22.5, 0.5)}
	server := helpers.MockStatsFeedServer(t, testAPIKey, board)

	cfg := testConfig(server.URL)
	log := helpers.NewTestLogger()
	ctx := helpers.CreateTestContext(t, 30*time.Second)

	fetcher := statsfeed.NewFetcher(cfg.StatsFeed, log)
	defer fetcher.Close()

	tr, err := tracker.NewTracker(ctx, repository.NewMemoryPickStore(), log)
	require.NoError(t, err)

	svc := service.NewAnalyticsService(cfg, fetcher, tr, log)

	first, err := svc.RefreshBoard(ctx, "nba")
	require.NoError(t, err)

	// Kill the provider and refresh again. The stale board must survive.
	server.Close()
	_, err = svc.RefreshBoard(ctx, "nba")
	require.Error(t, err)

	assert.Same(t, first, svc.Board())
}
