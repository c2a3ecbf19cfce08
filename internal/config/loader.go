// Package config provides configuration management for the Nova Titan analytics core.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with defaults for every tunable
// threshold, so a minimal config file (or none at all) yields the
// production-tuned analysis behavior.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// Missing file: continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("NOVA_TITAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "nova-titan-analytics")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("stats_feed.timeout_seconds", 30)
	v.SetDefault("stats_feed.max_retries", 3)
	v.SetDefault("stats_feed.rate_limit_per_second", 10.0)
	v.SetDefault("stats_feed.cache_ttl_seconds", 3600)
	v.SetDefault("stats_feed.cache_max_size", 500)
	v.SetDefault("stats_feed.season_refresh_schedule", "0 * * * *")
	v.SetDefault("stats_feed.live_refresh_interval_seconds", 60)

	analysis := DefaultAnalysisConfig()
	v.SetDefault("analysis.min_safety_score", analysis.MinSafetyScore)
	v.SetDefault("analysis.min_games", analysis.MinGames)
	v.SetDefault("analysis.line_gap_threshold", analysis.LineGapThreshold)
	v.SetDefault("analysis.hit_rate_high", analysis.HitRateHigh)
	v.SetDefault("analysis.hit_rate_low", analysis.HitRateLow)
	v.SetDefault("analysis.trend_threshold", analysis.TrendThreshold)
	v.SetDefault("analysis.consistency_band", analysis.ConsistencyBand)
	v.SetDefault("analysis.variance_warning", analysis.VarianceWarning)
	v.SetDefault("analysis.consistency_warning", analysis.ConsistencyWarning)

	streak := DefaultStreakConfig()
	v.SetDefault("streak.min_safety_score", streak.MinSafetyScore)
	v.SetDefault("streak.high_reward_avg_safety", streak.HighRewardAvgSafety)
	v.SetDefault("streak.ultra_safe_threshold", streak.UltraSafeThreshold)
	v.SetDefault("streak.safe_threshold", streak.SafeThreshold)
	v.SetDefault("streak.moderate_threshold", streak.ModerateThreshold)
	v.SetDefault("streak.avoid_list_cap", streak.AvoidListCap)

	parlay := DefaultParlayConfig()
	v.SetDefault("parlay.soft_leg_cap", parlay.SoftLegCap)
	v.SetDefault("parlay.warning_threshold", parlay.WarningThreshold)
	v.SetDefault("parlay.adjustment_factor", parlay.AdjustmentFactor)
	v.SetDefault("parlay.alternative_min_safety", parlay.AlternativeMinSafety)
	v.SetDefault("parlay.max_alternatives", parlay.MaxAlternatives)
}
