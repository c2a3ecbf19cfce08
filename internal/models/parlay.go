package models

// LegSide represents the chosen side of a parlay leg
type LegSide string

const (
	SideOver   LegSide = "over"
	SideUnder  LegSide = "under"
	SideHigher LegSide = "higher"
	SideLower  LegSide = "lower"
)

// ParlayLeg represents one user-selected outcome inside a combined wager
type ParlayLeg struct {
	Player string  `json:"player" validate:"required"`
	Market string  `json:"market" validate:"required"` // prop category or game-outcome market
	Line   float64 `json:"line"`
	Side   LegSide `json:"side" validate:"required,oneof=over under higher lower"`
	Odds   int     `json:"odds" validate:"required"` // quoted American odds
	GameID string  `json:"game_id" validate:"required"`
	Team   string  `json:"team"`
}

// Describe returns the human-readable leg identity used in warnings
func (l ParlayLeg) Describe() string {
	return l.Player + " " + l.Market + " " + string(l.Side)
}

// CorrelationType tags the polarity of a detected relationship
type CorrelationType string

const (
	CorrelationPositive CorrelationType = "positive"
	CorrelationNegative CorrelationType = "negative"
)

// CorrelationWarning represents a detected relationship between two legs
type CorrelationWarning struct {
	LegA        string          `json:"leg_a"`
	LegB        string          `json:"leg_b"`
	Correlation float64         `json:"correlation"` // signed, [-1, 1]
	Message     string          `json:"message"`
	Type        CorrelationType `json:"type"`
}

// AlternativeLeg is a suggested replacement drawn from high-safety analyses
type AlternativeLeg struct {
	Player       string         `json:"player"`
	PropCategory string         `json:"prop_category"`
	Line         float64        `json:"line"`
	Side         Recommendation `json:"side"`
	SafetyScore  int            `json:"safety_score"`
	GameID       string         `json:"game_id,omitempty"`
}

// ParlayAnalysis is the correlation-adjusted assessment of a combined wager
type ParlayAnalysis struct {
	Legs                []ParlayLeg          `json:"legs"`
	Warnings            []CorrelationWarning `json:"warnings"`
	NaiveProbability    float64              `json:"naive_probability"`
	AdjustedProbability float64              `json:"adjusted_probability"` // "true odds"
	AdjustmentPct       float64              `json:"adjustment_pct"`       // % difference from naive
	ExpectedValue       float64              `json:"expected_value"`
	IndependenceScore   int                  `json:"independence_score"` // [0, 100]
	RiskScore           int                  `json:"risk_score"`         // [0, 100]
	Recommendations     []string             `json:"recommendations"`
	Alternatives        []AlternativeLeg     `json:"alternatives"`
}
