package tracker

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// CategoryStats is a per-prop-type outcome breakdown
type CategoryStats struct {
	Category string  `json:"category"`
	Picks    int     `json:"picks"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Pushes   int     `json:"pushes"`
	WinRate  float64 `json:"win_rate"`
}

// BucketStats is a per-safety-bucket outcome breakdown
type BucketStats struct {
	Bucket  string  `json:"bucket"`
	Picks   int     `json:"picks"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

// DailyPoint is one day of the win-rate series, keyed by pick date
type DailyPoint struct {
	Date    string  `json:"date"`
	Settled int     `json:"settled"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// ProfitPoint is one step of the cumulative profit curve, in settlement
// order
type ProfitPoint struct {
	SettledAt        time.Time `json:"settled_at"`
	Profit           float64   `json:"profit"`
	CumulativeProfit float64   `json:"cumulative_profit"`
}

// CalibrationPoint compares a confidence decile's midpoint against the
// observed win rate of the picks filed under it
type CalibrationPoint struct {
	Bucket            string  `json:"bucket"`
	PredictedMidpoint float64 `json:"predicted_midpoint"`
	Picks             int     `json:"picks"`
	ObservedWinRate   float64 `json:"observed_win_rate"`
}

// PerformanceStats aggregates every settled pick
type PerformanceStats struct {
	TotalPicks     int     `json:"total_picks"`
	Settled        int     `json:"settled"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	Pushes         int     `json:"pushes"`
	WinRate        float64 `json:"win_rate"`
	TotalStaked    float64 `json:"total_staked"`
	TotalProfit    float64 `json:"total_profit"`
	ROI            string  `json:"roi"`
	CurrentStreak  int     `json:"current_streak"` // positive = win run, negative = loss run
	LongestWinRun  int     `json:"longest_win_run"`
	LongestLossRun int     `json:"longest_loss_run"`

	ByCategory     []CategoryStats    `json:"by_category"`
	BySafetyBucket []BucketStats      `json:"by_safety_bucket"`
	Daily          []DailyPoint       `json:"daily"`
	ProfitCurve    []ProfitPoint      `json:"profit_curve"`
	Calibration    []CalibrationPoint `json:"calibration"`
}

var safetyBucketOrder = []string{"90-100", "80-89", "70-79", "<70"}

// GetPerformanceStats aggregates the current record set. Pending picks
// count only toward the total; pushes are excluded from every win-rate
// denominator and skipped when measuring streak continuity.
func (t *Tracker) GetPerformanceStats() *PerformanceStats {
	picks := t.Picks()

	stats := &PerformanceStats{TotalPicks: len(picks)}
	staked := decimal.Zero
	profit := decimal.Zero

	var settled []models.PickRecord
	for _, p := range picks {
		if !p.IsSettled() {
			continue
		}
		settled = append(settled, p)
		stats.Settled++
		staked = staked.Add(decimal.NewFromFloat(p.Stake))
		profit = profit.Add(decimal.NewFromFloat(p.Profit))

		switch p.Result {
		case models.PickWin:
			stats.Wins++
		case models.PickLoss:
			stats.Losses++
		case models.PickPush:
			stats.Pushes++
		}
	}

	stats.WinRate = winRate(stats.Wins, stats.Losses)
	stats.TotalStaked = staked.Round(2).InexactFloat64()
	stats.TotalProfit = profit.Round(2).InexactFloat64()
	stats.ROI = roiString(profit, staked)
	stats.CurrentStreak, stats.LongestWinRun, stats.LongestLossRun = streaks(settled)
	stats.ByCategory = categoryBreakdown(settled)
	stats.BySafetyBucket = bucketBreakdown(settled)
	stats.Daily = dailySeries(settled)
	stats.ProfitCurve = profitCurve(settled)
	stats.Calibration = calibrationSeries(settled)

	return stats
}

func winRate(wins, losses int) float64 {
	if wins+losses == 0 {
		return 0
	}
	return float64(wins) / float64(wins+losses)
}

// roiString formats profit over stake as a signed percentage. Gains carry
// an explicit plus sign, losses keep the natural minus.
func roiString(profit, staked decimal.Decimal) string {
	if staked.IsZero() {
		return "0.00%"
	}

	roi := profit.Div(staked).Mul(decimal.NewFromInt(100)).Round(2)
	if roi.Sign() > 0 {
		return "+" + roi.StringFixed(2) + "%"
	}
	return roi.StringFixed(2) + "%"
}

// streaks walks settled picks in placement order, skipping pushes
func streaks(settled []models.PickRecord) (current, longestWin, longestLoss int) {
	ordered := make([]models.PickRecord, len(settled))
	copy(ordered, settled)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PlacedAt.Before(ordered[j].PlacedAt)
	})

	winRun, lossRun := 0, 0
	for _, p := range ordered {
		switch p.Result {
		case models.PickWin:
			winRun++
			lossRun = 0
			current = winRun
		case models.PickLoss:
			lossRun++
			winRun = 0
			current = -lossRun
		default:
			continue
		}
		if winRun > longestWin {
			longestWin = winRun
		}
		if lossRun > longestLoss {
			longestLoss = lossRun
		}
	}
	return current, longestWin, longestLoss
}

func categoryBreakdown(settled []models.PickRecord) []CategoryStats {
	byCategory := make(map[string]*CategoryStats)
	for _, p := range settled {
		cs, ok := byCategory[p.PropCategory]
		if !ok {
			cs = &CategoryStats{Category: p.PropCategory}
			byCategory[p.PropCategory] = cs
		}
		cs.Picks++
		switch p.Result {
		case models.PickWin:
			cs.Wins++
		case models.PickLoss:
			cs.Losses++
		case models.PickPush:
			cs.Pushes++
		}
	}

	out := make([]CategoryStats, 0, len(byCategory))
	for _, cs := range byCategory {
		cs.WinRate = winRate(cs.Wins, cs.Losses)
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func bucketBreakdown(settled []models.PickRecord) []BucketStats {
	byBucket := make(map[string]*BucketStats)
	for _, p := range settled {
		bucket := p.SafetyBucket()
		bs, ok := byBucket[bucket]
		if !ok {
			bs = &BucketStats{Bucket: bucket}
			byBucket[bucket] = bs
		}
		bs.Picks++
		switch p.Result {
		case models.PickWin:
			bs.Wins++
		case models.PickLoss:
			bs.Losses++
		}
	}

	var out []BucketStats
	for _, bucket := range safetyBucketOrder {
		if bs, ok := byBucket[bucket]; ok {
			bs.WinRate = winRate(bs.Wins, bs.Losses)
			out = append(out, *bs)
		}
	}
	return out
}

func dailySeries(settled []models.PickRecord) []DailyPoint {
	byDay := make(map[string]*DailyPoint)
	for _, p := range settled {
		day := p.PlacedAt.Format("2006-01-02")
		dp, ok := byDay[day]
		if !ok {
			dp = &DailyPoint{Date: day}
			byDay[day] = dp
		}
		if p.Result == models.PickPush {
			continue
		}
		dp.Settled++
		if p.Result == models.PickWin {
			dp.Wins++
		}
	}

	out := make([]DailyPoint, 0, len(byDay))
	for _, dp := range byDay {
		if dp.Settled > 0 {
			dp.WinRate = float64(dp.Wins) / float64(dp.Settled)
		}
		out = append(out, *dp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func profitCurve(settled []models.PickRecord) []ProfitPoint {
	ordered := make([]models.PickRecord, 0, len(settled))
	for _, p := range settled {
		if p.SettledAt != nil {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SettledAt.Before(*ordered[j].SettledAt)
	})

	curve := make([]ProfitPoint, 0, len(ordered))
	running := decimal.Zero
	for _, p := range ordered {
		running = running.Add(decimal.NewFromFloat(p.Profit))
		curve = append(curve, ProfitPoint{
			SettledAt:        *p.SettledAt,
			Profit:           p.Profit,
			CumulativeProfit: running.Round(2).InexactFloat64(),
		})
	}
	return curve
}

// calibrationSeries buckets picks by confidence decile and reports each
// bucket's observed win rate against its midpoint
func calibrationSeries(settled []models.PickRecord) []CalibrationPoint {
	byDecile := make(map[int]*CalibrationPoint)
	for _, p := range settled {
		if p.Result == models.PickPush {
			continue
		}
		decile := int(p.Confidence / 10)
		if decile > 9 {
			decile = 9
		}

		cp, ok := byDecile[decile]
		if !ok {
			lo := decile * 10
			cp = &CalibrationPoint{
				Bucket:            fmt.Sprintf("%d-%d", lo, lo+9),
				PredictedMidpoint: float64(lo) + 5,
			}
			byDecile[decile] = cp
		}
		cp.Picks++
		if p.Result == models.PickWin {
			cp.ObservedWinRate++ // win count until the final divide
		}
	}

	deciles := make([]int, 0, len(byDecile))
	for d := range byDecile {
		deciles = append(deciles, d)
	}
	sort.Ints(deciles)

	out := make([]CalibrationPoint, 0, len(deciles))
	for _, d := range deciles {
		cp := byDecile[d]
		cp.ObservedWinRate = cp.ObservedWinRate / float64(cp.Picks)
		out = append(out, *cp)
	}
	return out
}
