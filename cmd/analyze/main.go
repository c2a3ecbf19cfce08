// Package main provides a CLI for analyzing a prop slate from a JSON file.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/logger"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/props"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/streak"
)

func main() {
	var (
		input    = flag.String("input", "", "Path to a JSON file holding an array of prop records")
		count    = flag.Int("streak-count", 0, "Build a custom streak of this size instead of the full board")
		tier     = flag.String("tier", "safe", "Custom streak risk tier: ultra-safe, safe, moderate")
		logLevel = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()

	appLog := logger.NewLogger(*logLevel, "development")

	if *input == "" {
		appLog.Fatal("-input is required")
	}

	records := loadRecords(*input, appLog)

	engine := props.NewEngine(config.DefaultAnalysisConfig())
	analyses, errs := engine.AnalyzeBatch(records)
	for _, err := range errs {
		appLog.WithError(err).Warn("Skipped invalid record")
	}

	optimizer := streak.NewOptimizer(config.DefaultStreakConfig(), config.DefaultAnalysisConfig(), appLog)

	if *count > 0 {
		combo, err := optimizer.BuildCustomStreak(analyses, *count, streak.RiskTier(*tier))
		if err != nil {
			appLog.WithError(err).Fatal("Could not build custom streak")
		}
		printJSON(combo, appLog)
		return
	}

	report := optimizer.Optimize(analyses)
	printJSON(struct {
		Analyses []*models.PropAnalysis `json:"analyses"`
		Streak   *streak.Report         `json:"streak"`
	}{analyses, report}, appLog)
}

func loadRecords(path string, appLog *logrus.Logger) []*models.PropRecord {
	data, err := os.ReadFile(path)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to read input file")
	}

	var records []*models.PropRecord
	if err := json.Unmarshal(data, &records); err != nil {
		appLog.WithError(err).Fatal("Failed to parse input file")
	}
	return records
}

func printJSON(v interface{}, appLog *logrus.Logger) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		appLog.WithError(err).Fatal("Failed to encode output")
	}
}
