package tracker

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// BacktestResult summarizes a retrospective window of settled picks
type BacktestResult struct {
	Days             int     `json:"days"`
	Picks            int     `json:"picks"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	Pushes           int     `json:"pushes"`
	WinRate          float64 `json:"win_rate"`
	ROI              string  `json:"roi"`
	BestCategory     string  `json:"best_category"`
	WorstCategory    string  `json:"worst_category"`
	CalibrationScore float64 `json:"calibration_score"` // 100 minus mean absolute calibration error
}

// BacktestAlgorithm replays the settled picks placed within the last
// `days` days. An empty window degrades to a zero-valued result rather
// than failing.
func (t *Tracker) BacktestAlgorithm(days int) *BacktestResult {
	cutoff := t.now().AddDate(0, 0, -days)

	var window []models.PickRecord
	for _, p := range t.Picks() {
		if p.IsSettled() && !p.PlacedAt.Before(cutoff) {
			window = append(window, p)
		}
	}

	result := &BacktestResult{Days: days, Picks: len(window), ROI: "0.00%"}
	if len(window) == 0 {
		return result
	}

	staked := decimal.Zero
	profit := decimal.Zero
	for _, p := range window {
		staked = staked.Add(decimal.NewFromFloat(p.Stake))
		profit = profit.Add(decimal.NewFromFloat(p.Profit))
		switch p.Result {
		case models.PickWin:
			result.Wins++
		case models.PickLoss:
			result.Losses++
		case models.PickPush:
			result.Pushes++
		}
	}

	result.WinRate = winRate(result.Wins, result.Losses)
	result.ROI = roiString(profit, staked)
	result.BestCategory, result.WorstCategory = extremeCategories(window)
	result.CalibrationScore = calibrationScore(window)
	return result
}

// extremeCategories picks the best and worst performing prop categories by
// win rate, breaking ties alphabetically via the sorted breakdown
func extremeCategories(window []models.PickRecord) (best, worst string) {
	breakdown := categoryBreakdown(window)
	if len(breakdown) == 0 {
		return "", ""
	}

	bestStats, worstStats := breakdown[0], breakdown[0]
	for _, cs := range breakdown[1:] {
		if cs.WinRate > bestStats.WinRate {
			bestStats = cs
		}
		if cs.WinRate < worstStats.WinRate {
			worstStats = cs
		}
	}
	return bestStats.Category, worstStats.Category
}

// calibrationScore is 100 minus the mean absolute error between each
// confidence decile's midpoint and its observed win rate, both on the
// 0-100 scale, floored at zero
func calibrationScore(window []models.PickRecord) float64 {
	series := calibrationSeries(window)
	if len(series) == 0 {
		return 0
	}

	totalErr := 0.0
	for _, cp := range series {
		totalErr += math.Abs(cp.PredictedMidpoint - cp.ObservedWinRate*100)
	}

	score := 100 - totalErr/float64(len(series))
	if score < 0 {
		return 0
	}
	return score
}
