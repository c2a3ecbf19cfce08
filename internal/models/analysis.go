package models

// Recommendation represents the directional call for a prop
type Recommendation string

const (
	RecommendationHigher Recommendation = "HIGHER"
	RecommendationLower  Recommendation = "LOWER"
	RecommendationAvoid  Recommendation = "AVOID"
)

// Trend classifies recent form against the season baseline
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// RiskLevel represents the aggregate risk bucket for a prop
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
	RiskAvoid  RiskLevel = "AVOID"
)

// AnalysisMetrics holds the deterministic per-prop metrics
type AnalysisMetrics struct {
	Consistency   float64 `json:"consistency"`     // fraction of games within ±1 of the line
	Variance      float64 `json:"variance"`        // sample standard deviation of the series
	Trend         Trend   `json:"trend"`
	RecentAverage float64 `json:"recent_average"`  // mean of the last 5 games
	SeasonAverage float64 `json:"season_average"`
	HitRate       float64 `json:"hit_rate"`        // fraction of games strictly over the line
	FloorGameRate float64 `json:"floor_game_rate"`
}

// MatchupContext carries situational factors surfaced alongside the metrics
type MatchupContext struct {
	MatchupRating string       `json:"matchup_rating"`
	PaceNote      string       `json:"pace_note"`
	UsageRate     float64      `json:"usage_rate"`
	MinutesTrend  string       `json:"minutes_trend"`
	InjuryStatus  InjuryStatus `json:"injury_status"`
	RestDays      int          `json:"rest_days"`
}

// RiskAssessment summarizes warnings and supporting factors for a prop
type RiskAssessment struct {
	Level    RiskLevel `json:"level"`
	Factors  []string  `json:"factors"`
	Warnings []string  `json:"warnings"`
}

// PropHistory summarizes the historical context shown with a recommendation
type PropHistory struct {
	VsOpponent   string    `json:"vs_opponent"`
	LastFive     []float64 `json:"last_five"`
	HomeAverage  float64   `json:"home_average"`
	AwayAverage  float64   `json:"away_average"`
}

// PropAnalysis is the immutable output of the analysis engine. It is
// reconstructed on demand from a PropRecord and never mutated in place.
type PropAnalysis struct {
	Player         string          `json:"player"`
	PropCategory   string          `json:"prop_category"`
	Line           float64         `json:"line"`
	Team           string          `json:"team"`
	GameID         string          `json:"game_id,omitempty"`
	Recommendation Recommendation  `json:"recommendation"`
	Confidence     float64         `json:"confidence"` // [0, 95]
	Metrics        AnalysisMetrics `json:"metrics"`
	Context        MatchupContext  `json:"context"`
	Risk           RiskAssessment  `json:"risk"`
	History        PropHistory     `json:"history"`
	SafetyScore    int             `json:"safety_score"` // [0, 100]
}

// IsSafe reports whether the analysis clears the given safety threshold
// and is neither recommendation-avoid nor risk-avoid
func (a *PropAnalysis) IsSafe(minSafety int) bool {
	return a.SafetyScore >= minSafety &&
		a.Recommendation != RecommendationAvoid &&
		a.Risk.Level != RiskAvoid
}
