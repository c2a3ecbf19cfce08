package models

import (
	"time"

	"github.com/google/uuid"
)

// PickResult represents a pick's settlement state
type PickResult string

const (
	PickWin     PickResult = "WIN"
	PickLoss    PickResult = "LOSS"
	PickPush    PickResult = "PUSH"
	PickPending PickResult = "PENDING"
)

// PickRecord represents a tracked, dated bet. It is created when a user
// commits a pick, mutated exactly once by settlement, and never deleted
// except by an explicit bulk clear.
type PickRecord struct {
	ID            uuid.UUID      `json:"id" validate:"required,uuid4"`
	Player        string         `json:"player" validate:"required"`
	PropCategory  string         `json:"prop_category" validate:"required"`
	Line          float64        `json:"line" validate:"required,gt=0"`
	Pick          Recommendation `json:"pick" validate:"required,oneof=HIGHER LOWER"`
	Odds          int            `json:"odds" validate:"required"` // American odds at pick time
	Stake         float64        `json:"stake" validate:"required,gt=0"`
	SafetyScore   int            `json:"safety_score" validate:"gte=0,lte=100"`
	Confidence    float64        `json:"confidence" validate:"gte=0,lte=95"`
	PlacedAt      time.Time      `json:"placed_at"`
	Result        PickResult     `json:"result"`
	ObservedValue *float64       `json:"observed_value,omitempty"`
	Profit        float64        `json:"profit"`
	SettledAt     *time.Time     `json:"settled_at,omitempty"`
}

// IsSettled reports whether the pick has a realized outcome
func (p *PickRecord) IsSettled() bool {
	return p.Result != PickPending && p.Result != ""
}

// SafetyBucket returns the reporting bucket label for the pick's recorded
// safety score (90-100, 80-89, 70-79, <70)
func (p *PickRecord) SafetyBucket() string {
	switch {
	case p.SafetyScore >= 90:
		return "90-100"
	case p.SafetyScore >= 80:
		return "80-89"
	case p.SafetyScore >= 70:
		return "70-79"
	default:
		return "<70"
	}
}
