// Package main provides the entry point for the analytics service daemon.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/database"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/health"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/logger"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/metrics"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/repository"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/scheduler"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/service"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/statsfeed"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/tracker"
)

var version = "dev"

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Nova Titan analytics service starting")

	metrics.InitRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	store := repository.NewPostgresPickStore(db)
	tr, err := tracker.NewTracker(ctx, store, appLog)
	if err != nil {
		// degraded but usable: the tracker starts from an empty record set
		appLog.WithError(err).Error("Pick history unavailable, continuing with an empty record set")
	}

	fetcher := statsfeed.NewFetcher(cfg.StatsFeed, appLog)
	defer fetcher.Close()

	analytics := service.NewAnalyticsService(cfg, fetcher, tr, appLog)

	sport := os.Getenv("NOVA_TITAN_SPORT")
	if sport == "" {
		sport = "nba"
	}

	sched := scheduler.NewScheduler(analytics, appLog)
	if err := sched.ScheduleSeasonRefresh(cfg.StatsFeed.SeasonRefreshSchedule, sport); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule season refresh")
	}
	if err := sched.ScheduleLiveRefresh(cfg.StatsFeed.LiveRefreshIntervalSeconds, sport); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule live refresh")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Port:        strconv.Itoa(cfg.Metrics.Port),
		MetricsPath: cfg.Metrics.Path,
		Logger:      appLog,
		DB:          db,
		BoardAge: func() (time.Duration, bool) {
			board := analytics.Board()
			if board == nil {
				return 0, false
			}
			return time.Since(board.RefreshedAt), true
		},
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	// first refresh up front so the board is populated before the cron fires
	refreshCtx, refreshCancel := context.WithTimeout(ctx, 2*time.Minute)
	if _, err := analytics.RefreshBoard(refreshCtx, sport); err != nil {
		appLog.WithError(err).Warn("Initial board refresh failed, waiting for the scheduler")
	}
	refreshCancel()

	appLog.WithFields(logrus.Fields{
		"sport":    sport,
		"schedule": cfg.StatsFeed.SeasonRefreshSchedule,
		"next_run": sched.GetNextRun(),
	}).Info("Analytics service is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	appLog.Info("Analytics service shut down successfully")
}
