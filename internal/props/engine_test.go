package props

import (
	"reflect"
	"testing"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

func testEngine() *Engine {
	return NewEngine(config.DefaultAnalysisConfig())
}

func validRecord() *models.PropRecord {
	return &models.PropRecord{
		Player:             "Player X",
		PropCategory:       "points",
		Line:               24.5,
		Team:               "BOS",
		Opponent:           "MIA",
		LastTenGames:       []float64{28, 26, 30, 22, 27, 29, 25, 31, 24, 26},
		SeasonAverage:      26.8,
		MinutesOrSnapShare: 34,
		InjuryStatus:       models.InjuryHealthy,
		RestDays:           2,
	}
}

func TestAnalyzeRejectsInvalidLine(t *testing.T) {
	record := validRecord()
	record.Line = 0

	if _, err := testEngine().Analyze(record); err == nil {
		t.Fatal("expected error for non-positive line")
	}
}

func TestAnalyzeRejectsNegativeGameValue(t *testing.T) {
	record := validRecord()
	record.LastTenGames = []float64{10, -3, 12}

	if _, err := testEngine().Analyze(record); err == nil {
		t.Fatal("expected error for negative game value")
	}
}

func TestAnalyzeEmptyHistoryDegradesToAvoid(t *testing.T) {
	record := validRecord()
	record.LastTenGames = nil

	analysis, err := testEngine().Analyze(record)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.Metrics.Consistency != 0 {
		t.Errorf("expected consistency 0, got %v", analysis.Metrics.Consistency)
	}
	if analysis.Metrics.Variance != 0 {
		t.Errorf("expected variance 0, got %v", analysis.Metrics.Variance)
	}
	if analysis.Metrics.HitRate != 0 {
		t.Errorf("expected hit rate 0, got %v", analysis.Metrics.HitRate)
	}
	if analysis.Recommendation != models.RecommendationAvoid {
		t.Errorf("expected AVOID, got %s", analysis.Recommendation)
	}
}

func TestAnalyzeShortHistoryNeverLowRisk(t *testing.T) {
	record := validRecord()
	record.LastTenGames = []float64{26, 27, 25, 26}

	analysis, err := testEngine().Analyze(record)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.Recommendation != models.RecommendationAvoid {
		t.Errorf("expected AVOID with fewer than 5 games, got %s", analysis.Recommendation)
	}
	if analysis.Risk.Level == models.RiskLow {
		t.Error("short-history analysis must not be rated low risk")
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	engine := testEngine()
	record := validRecord()

	first, err := engine.Analyze(record)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := engine.Analyze(record)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical analyses, got\n%+v\n%+v", first, second)
	}
}

func TestAnalyzeBoundsHold(t *testing.T) {
	records := []*models.PropRecord{
		validRecord(),
		{Player: "A", PropCategory: "rebounds", Team: "DEN", Line: 8.5, SeasonAverage: 9,
			LastTenGames: []float64{9, 9, 9, 9, 9, 9, 9, 9, 9, 9}, InjuryStatus: models.InjuryHealthy},
		{Player: "B", PropCategory: "assists", Team: "GSW", Line: 5.5, SeasonAverage: 4,
			LastTenGames: []float64{0, 12, 1, 11, 0, 14, 2, 9, 0, 13}, InjuryStatus: models.InjuryQuestionable},
		{Player: "C", PropCategory: "passing_yards", Team: "KC", Line: 250.5, SeasonAverage: 0,
			LastTenGames: []float64{300, 180}, InjuryStatus: models.InjuryOut},
	}

	engine := testEngine()
	for _, record := range records {
		analysis, err := engine.Analyze(record)
		if err != nil {
			t.Fatalf("Analyze(%s) failed: %v", record.Player, err)
		}
		if analysis.SafetyScore < 0 || analysis.SafetyScore > 100 {
			t.Errorf("%s: safety score %d out of range", record.Player, analysis.SafetyScore)
		}
		if analysis.Confidence < 0 || analysis.Confidence > 95 {
			t.Errorf("%s: confidence %v out of range", record.Player, analysis.Confidence)
		}
	}
}

func TestAnalyzeInjuredOutIsAvoidRisk(t *testing.T) {
	record := validRecord()
	record.InjuryStatus = models.InjuryOut

	analysis, err := testEngine().Analyze(record)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.Risk.Level != models.RiskAvoid {
		t.Errorf("expected risk AVOID for player ruled out, got %s", analysis.Risk.Level)
	}
}

// Scoring walkthrough for the reference points scenario: the ten-game
// series hits the over 8 times (hit rate 0.8) and averages 27.0 over the
// last five, but only two games land within a point of the 24.5 line, so
// consistency 0.2 holds the composite safety score at 56 and the safety
// gate turns the strong directional signal into an avoid call.
func TestAnalyzePointsLineScenario(t *testing.T) {
	analysis, err := testEngine().Analyze(validRecord())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	m := analysis.Metrics
	if m.HitRate != 0.8 {
		t.Errorf("expected hit rate 0.8, got %v", m.HitRate)
	}
	if m.RecentAverage != 27.0 {
		t.Errorf("expected recent average 27.0, got %v", m.RecentAverage)
	}
	if m.Consistency != 0.2 {
		t.Errorf("expected consistency 0.2, got %v", m.Consistency)
	}
	if analysis.SafetyScore != 56 {
		t.Errorf("expected safety score 56, got %d", analysis.SafetyScore)
	}
	if analysis.Recommendation != models.RecommendationAvoid {
		t.Errorf("expected AVOID from the safety gate, got %s", analysis.Recommendation)
	}
}

func TestAnalyzeHitRateTieBreak(t *testing.T) {
	// Series clustered tightly around the line so the gap stays inside
	// ±1.5, with enough overs to trip the 0.7 hit-rate tie-break
	record := validRecord()
	record.Line = 25.0
	record.LastTenGames = []float64{25.5, 26, 25.5, 26, 25.5, 26, 25.5, 26, 24, 24.5}
	record.SeasonAverage = 25.5

	analysis, err := testEngine().Analyze(record)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.Metrics.HitRate <= 0.7 {
		t.Fatalf("fixture broken: hit rate %v not above 0.7", analysis.Metrics.HitRate)
	}
	if analysis.Recommendation != models.RecommendationHigher {
		t.Errorf("expected HIGHER from hit-rate tie-break, got %s", analysis.Recommendation)
	}
}

func TestAnalyzeLineGapLower(t *testing.T) {
	record := validRecord()
	record.Line = 30.0
	record.LastTenGames = []float64{29.5, 30, 29.5, 30.5, 30, 27, 27.5, 28, 27, 27.5}
	record.SeasonAverage = 28.6

	analysis, err := testEngine().Analyze(record)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.Recommendation != models.RecommendationLower {
		t.Errorf("expected LOWER from line gap, got %s", analysis.Recommendation)
	}
}

func TestAnalyzeBatchSkipsInvalidRecords(t *testing.T) {
	bad := validRecord()
	bad.Line = -1

	analyses, errs := testEngine().AnalyzeBatch([]*models.PropRecord{validRecord(), bad})
	if len(analyses) != 1 {
		t.Errorf("expected 1 analysis, got %d", len(analyses))
	}
	if len(errs) != 1 {
		t.Errorf("expected 1 error, got %d", len(errs))
	}
}
