package models

import (
	"fmt"
	"math"
	"time"
)

// InjuryStatus represents a player's availability designation
type InjuryStatus string

const (
	InjuryHealthy      InjuryStatus = "healthy"
	InjuryQuestionable InjuryStatus = "questionable"
	InjuryOut          InjuryStatus = "out"
)

// PropRecord represents one player prop with its historical statistical line.
// It is the strict input contract of the analysis engine; ingestion adapters
// are responsible for normalizing provider payloads into this shape.
type PropRecord struct {
	Player       string    `json:"player" validate:"required"`
	PropCategory string    `json:"prop_category" validate:"required"` // e.g. "points", "rebounds", "passing_yards"
	Line         float64   `json:"line" validate:"required,gt=0"`
	Team         string    `json:"team" validate:"required"`
	Opponent     string    `json:"opponent"`
	GameDate     time.Time `json:"game_date"`
	IsHome       bool      `json:"is_home"`

	// LastTenGames holds the most recent per-game observed values in
	// chronological order, oldest first. Length 0-10.
	LastTenGames []float64 `json:"last_ten_games" validate:"max=10,dive,gte=0"`

	SeasonAverage     float64   `json:"season_average" validate:"gte=0"`
	HomeAverage       *float64  `json:"home_average,omitempty"`
	AwayAverage       *float64  `json:"away_average,omitempty"`
	VsOpponentHistory []float64 `json:"vs_opponent_history,omitempty"`

	MinutesOrSnapShare float64      `json:"minutes_or_snap_share"`
	UsageRate          *float64     `json:"usage_rate,omitempty"`
	InjuryStatus       InjuryStatus `json:"injury_status" validate:"omitempty,oneof=healthy questionable out"`
	RestDays           int          `json:"rest_days"`
}

// Validate performs the fast-fail invariant checks that belong at the
// ingestion boundary. Metric calculations assume a validated record.
func (r *PropRecord) Validate() error {
	if r.Line <= 0 || math.IsNaN(r.Line) || math.IsInf(r.Line, 0) {
		return fmt.Errorf("%w: line %v for %s %s", ErrInvalidLine, r.Line, r.Player, r.PropCategory)
	}
	for i, v := range r.LastTenGames {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: game value %v at index %d for %s", ErrInvalidGameValue, v, i, r.Player)
		}
	}
	if r.SeasonAverage < 0 || math.IsNaN(r.SeasonAverage) || math.IsInf(r.SeasonAverage, 0) {
		return fmt.Errorf("%w: season average %v for %s", ErrInvalidGameValue, r.SeasonAverage, r.Player)
	}
	return nil
}

// GamesPlayed returns the number of historical games available
func (r *PropRecord) GamesPlayed() int {
	return len(r.LastTenGames)
}

// SplitAverage returns the home or away average matching the game venue,
// falling back to the season average when the split is missing
func (r *PropRecord) SplitAverage() float64 {
	if r.IsHome && r.HomeAverage != nil {
		return *r.HomeAverage
	}
	if !r.IsHome && r.AwayAverage != nil {
		return *r.AwayAverage
	}
	return r.SeasonAverage
}
