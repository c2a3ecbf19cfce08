// Package service composes the stats feed, analysis engine, optimizers,
// and tracker into the surface the UI layer consumes.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/logger"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/metrics"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/parlay"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/props"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/streak"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/tracker"
)

const defaultWorkers = 8

// PropFetcher abstracts the stats feed so tests can substitute fixtures.
type PropFetcher interface {
	FetchProps(ctx context.Context, sport string) ([]models.PropRecord, error)
}

// Board is the latest analyzed view of the prop slate.
type Board struct {
	Sport       string                 `json:"sport"`
	RefreshedAt time.Time              `json:"refreshed_at"`
	Analyses    []*models.PropAnalysis `json:"analyses"`
	Streak      *streak.Report         `json:"streak"`
}

// AnalyticsService wires the feed into the analytics pipeline and keeps
// the latest board for the UI.
type AnalyticsService struct {
	engine  *props.Engine
	streak  *streak.Optimizer
	parlay  *parlay.Optimizer
	tracker *tracker.Tracker
	fetcher PropFetcher
	logger  *logrus.Logger
	audit   *logger.AuditLogger
	workers int
	mu      sync.RWMutex
	board   *Board
}

// NewAnalyticsService creates the composed analytics service
func NewAnalyticsService(cfg *config.Config, fetcher PropFetcher, tr *tracker.Tracker, log *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{
		engine:  props.NewEngine(cfg.Analysis),
		streak:  streak.NewOptimizer(cfg.Streak, cfg.Analysis, log),
		parlay:  parlay.NewOptimizer(cfg.Parlay, log),
		tracker: tr,
		fetcher: fetcher,
		logger:  log,
		audit:   logger.NewAuditLogger(log),
		workers: defaultWorkers,
	}
}

// RefreshBoard fetches the current prop slate, analyzes it, and rebuilds
// the streak report. The previous board survives a failed refresh.
func (s *AnalyticsService) RefreshBoard(ctx context.Context, sport string) (*Board, error) {
	fetchStart := time.Now()
	records, err := s.fetcher.FetchProps(ctx, sport)
	metrics.RecordFeedFetch(time.Since(fetchStart).Seconds(), err != nil)
	if err != nil {
		return nil, fmt.Errorf("refreshing board for %s: %w", sport, err)
	}

	analyzeStart := time.Now()
	analyses, rejected := s.analyzeConcurrently(ctx, records)
	metrics.RecordBatchAnalysis(len(analyses), rejected, time.Since(analyzeStart).Seconds())

	report := s.streak.Optimize(analyses)
	metrics.UpdateStreakBoard(len(report.Recommended), len(report.SafeCombos), len(report.AvoidToday))
	metrics.UpdateBoardSafety(averageSafety(analyses))

	board := &Board{
		Sport:       sport,
		RefreshedAt: time.Now(),
		Analyses:    analyses,
		Streak:      report,
	}

	s.mu.Lock()
	s.board = board
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"sport":       sport,
		"analyzed":    len(analyses),
		"rejected":    rejected,
		"recommended": len(report.Recommended),
	}).Info("Prop board refreshed")

	return board, nil
}

func averageSafety(analyses []*models.PropAnalysis) float64 {
	if len(analyses) == 0 {
		return 0
	}
	sum := 0
	for _, a := range analyses {
		sum += a.SafetyScore
	}
	return float64(sum) / float64(len(analyses))
}

// Board returns the most recent refresh, or nil before the first one
func (s *AnalyticsService) Board() *Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// analyzeConcurrently runs the pure analysis engine over the batch with a
// bounded worker pool. Records for different players are independent, so
// order only needs restoring at the end.
func (s *AnalyticsService) analyzeConcurrently(ctx context.Context, records []models.PropRecord) ([]*models.PropAnalysis, int) {
	results := make([]*models.PropAnalysis, len(records))
	rejected := 0

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for i := range records {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			analysis, err := s.engine.Analyze(&records[idx])
			if err != nil {
				s.logger.WithError(err).WithField("player", records[idx].Player).
					Warn("Rejected prop record")
				mu.Lock()
				rejected++
				mu.Unlock()
				return
			}
			results[idx] = analysis
		}(i)
	}
	wg.Wait()

	analyses := make([]*models.PropAnalysis, 0, len(results))
	for _, a := range results {
		if a != nil {
			analyses = append(analyses, a)
		}
	}
	return analyses, rejected
}

// BuildCustomStreak builds a custom-size streak from the current board
func (s *AnalyticsService) BuildCustomStreak(count int, tier streak.RiskTier) (*streak.Combo, error) {
	board := s.Board()
	if board == nil {
		return nil, fmt.Errorf("no board available, refresh first")
	}
	return s.streak.BuildCustomStreak(board.Analyses, count, tier)
}

// EvaluateParlay analyzes a user slip, drawing safer alternatives from the
// current board when one exists
func (s *AnalyticsService) EvaluateParlay(legs []models.ParlayLeg) (*models.ParlayAnalysis, error) {
	var pool []*models.PropAnalysis
	if board := s.Board(); board != nil {
		pool = board.Analyses
	}

	analysis, err := s.parlay.Analyze(legs, pool)
	if err != nil {
		return nil, err
	}

	metrics.RecordParlayEvaluation(len(analysis.Warnings))
	s.audit.LogParlayEvaluated(len(analysis.Legs), len(analysis.Warnings),
		analysis.IndependenceScore, analysis.RiskScore,
		analysis.NaiveProbability, analysis.AdjustedProbability)
	return analysis, nil
}

// CommitPick records a pick with the tracker and refreshes the gauges
func (s *AnalyticsService) CommitPick(ctx context.Context, pick models.PickRecord) (uuid.UUID, error) {
	id, err := s.tracker.AddPick(ctx, pick)
	if err != nil {
		return uuid.Nil, err
	}

	metrics.RecordPickRecorded()
	s.syncTrackerGauges()
	return id, nil
}

// SettlePick settles a pick against its observed value
func (s *AnalyticsService) SettlePick(ctx context.Context, id uuid.UUID, observedValue float64) (*models.PickRecord, error) {
	settled, err := s.tracker.UpdatePickResult(ctx, id, observedValue)
	if err != nil {
		return nil, err
	}

	metrics.RecordPickSettled()
	s.syncTrackerGauges()
	return settled, nil
}

// PerformanceStats exposes the tracker's aggregate view
func (s *AnalyticsService) PerformanceStats() *tracker.PerformanceStats {
	return s.tracker.GetPerformanceStats()
}

// Backtest replays the recorded pick window
func (s *AnalyticsService) Backtest(days int) *tracker.BacktestResult {
	start := time.Now()
	result := s.tracker.BacktestAlgorithm(days)
	metrics.BacktestDuration.Observe(time.Since(start).Seconds())
	return result
}

func (s *AnalyticsService) syncTrackerGauges() {
	stats := s.tracker.GetPerformanceStats()
	metrics.UpdateTrackedPicks(stats.TotalPicks)
	metrics.UpdateWinRate(stats.WinRate)
	metrics.UpdateCumulativeProfit(stats.TotalProfit)
}
