// Package streak implements the streak optimizer: it filters a batch of
// prop analyses down to the safe ones, ranks them, and assembles
// pre-built multi-pick combinations.
package streak

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// RiskTier selects the safety threshold for a custom streak
type RiskTier string

const (
	TierUltraSafe RiskTier = "ultra-safe"
	TierSafe      RiskTier = "safe"
	TierModerate  RiskTier = "moderate"
)

// RankedPick is one recommended analysis with its standing in the batch
type RankedPick struct {
	Rank     int                  `json:"rank"`
	Label    string               `json:"label"`
	Analysis *models.PropAnalysis `json:"analysis"`
}

// Combo is a pre-built multi-pick bundle. ExpectedHitRate is the product
// of member hit rates and assumes independence across picks; callers must
// treat it as an upper bound, not a guarantee.
type Combo struct {
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Picks           []*models.PropAnalysis `json:"picks"`
	CombinedSafety  int                    `json:"combined_safety"`
	ExpectedHitRate float64                `json:"expected_hit_rate"`
}

// AvoidEntry is one rejected analysis with the reason it should be skipped
type AvoidEntry struct {
	Analysis *models.PropAnalysis `json:"analysis"`
	Reason   string               `json:"reason"`
}

// Report is the optimizer's full output for one batch
type Report struct {
	Recommended []RankedPick `json:"recommended"`
	SafeCombos  []Combo      `json:"safe_combos"`
	AvoidToday  []AvoidEntry `json:"avoid_today"`
}

// ErrInsufficientPicks reports a custom streak request that exceeds the
// qualifying pool. It is a recoverable, user-facing condition.
type ErrInsufficientPicks struct {
	Requested int
	Available int
	Tier      RiskTier
}

func (e *ErrInsufficientPicks) Error() string {
	return fmt.Sprintf("not enough %s picks: requested %d, only %d qualify", e.Tier, e.Requested, e.Available)
}

// Optimizer builds streak recommendations from analyzed props. The avoid
// list reuses the analysis warning thresholds so both layers flag the
// same props.
type Optimizer struct {
	cfg      config.StreakConfig
	analysis config.AnalysisConfig
	logger   *logrus.Logger
}

// NewOptimizer creates a streak optimizer
func NewOptimizer(cfg config.StreakConfig, analysis config.AnalysisConfig, logger *logrus.Logger) *Optimizer {
	return &Optimizer{cfg: cfg, analysis: analysis, logger: logger}
}

// Optimize filters, ranks, and bundles a batch of analyses
func (o *Optimizer) Optimize(analyses []*models.PropAnalysis) *Report {
	safe := o.filterSafe(analyses)
	ranked := rankPicks(safe)

	report := &Report{
		Recommended: ranked,
		SafeCombos:  o.buildCombos(safe),
		AvoidToday:  o.buildAvoidList(analyses),
	}

	if o.logger != nil {
		o.logger.WithFields(logrus.Fields{
			"batch_size":  len(analyses),
			"recommended": len(report.Recommended),
			"combos":      len(report.SafeCombos),
			"avoid":       len(report.AvoidToday),
		}).Info("Streak optimization complete")
	}

	return report
}

// filterSafe keeps analyses clearing the safety threshold that are neither
// recommendation-avoid nor risk-avoid
func (o *Optimizer) filterSafe(analyses []*models.PropAnalysis) []*models.PropAnalysis {
	safe := make([]*models.PropAnalysis, 0, len(analyses))
	for _, a := range analyses {
		if a != nil && a.IsSafe(o.cfg.MinSafetyScore) {
			safe = append(safe, a)
		}
	}
	return safe
}

// rankPicks sorts descending by (safety score, confidence) and assigns
// rank labels with medals for the top three
func rankPicks(analyses []*models.PropAnalysis) []RankedPick {
	sorted := append([]*models.PropAnalysis{}, analyses...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SafetyScore != sorted[j].SafetyScore {
			return sorted[i].SafetyScore > sorted[j].SafetyScore
		}
		return sorted[i].Confidence > sorted[j].Confidence
	})

	ranked := make([]RankedPick, len(sorted))
	for i, a := range sorted {
		ranked[i] = RankedPick{Rank: i + 1, Label: rankLabel(i + 1), Analysis: a}
	}
	return ranked
}

func rankLabel(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("#%d", rank)
	}
}

// buildAvoidList collects the rejected tail: high variance, low
// consistency, or sub-threshold safety, capped to the most severe entries
func (o *Optimizer) buildAvoidList(analyses []*models.PropAnalysis) []AvoidEntry {
	var flagged []*models.PropAnalysis
	for _, a := range analyses {
		if a == nil {
			continue
		}
		if a.Metrics.Variance > o.analysis.VarianceWarning ||
			a.Metrics.Consistency < o.analysis.ConsistencyWarning ||
			a.SafetyScore < o.analysis.MinSafetyScore {
			flagged = append(flagged, a)
		}
	}

	// Most severe first: lowest safety score
	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].SafetyScore < flagged[j].SafetyScore
	})
	if len(flagged) > o.cfg.AvoidListCap {
		flagged = flagged[:o.cfg.AvoidListCap]
	}

	entries := make([]AvoidEntry, len(flagged))
	for i, a := range flagged {
		entries[i] = AvoidEntry{Analysis: a, Reason: o.avoidReason(a)}
	}
	return entries
}

// avoidReason picks the most specific explanation, in priority order:
// variance, consistency, then the first risk warning
func (o *Optimizer) avoidReason(a *models.PropAnalysis) string {
	switch {
	case a.Metrics.Variance > o.analysis.VarianceWarning:
		return fmt.Sprintf("volatile: %.1f swing game to game", a.Metrics.Variance)
	case a.Metrics.Consistency < o.analysis.ConsistencyWarning:
		return fmt.Sprintf("inconsistent: only %.0f%% of games near the line", a.Metrics.Consistency*100)
	case len(a.Risk.Warnings) > 0:
		return a.Risk.Warnings[0]
	default:
		return fmt.Sprintf("safety score %d below threshold", a.SafetyScore)
	}
}
