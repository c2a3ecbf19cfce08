// Package config provides configuration management for the Nova Titan analytics core.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	StatsFeed StatsFeedConfig `mapstructure:"stats_feed" validate:"required"`
	Analysis  AnalysisConfig  `mapstructure:"analysis" validate:"required"`
	Streak    StreakConfig    `mapstructure:"streak" validate:"required"`
	Parlay    ParlayConfig    `mapstructure:"parlay" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// StatsFeedConfig represents the external sports-data provider configuration
type StatsFeedConfig struct {
	BaseURL                    string  `mapstructure:"base_url" validate:"required,url"`
	APIKey                     string  `mapstructure:"api_key"`
	TimeoutSeconds             int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries                 int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimitPerSecond         float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	CacheTTLSeconds            int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize               int     `mapstructure:"cache_max_size" validate:"required,gt=0"`
	SeasonRefreshSchedule      string  `mapstructure:"season_refresh_schedule" validate:"required"`
	LiveRefreshIntervalSeconds int     `mapstructure:"live_refresh_interval_seconds" validate:"required,gt=0"`
}

// AnalysisConfig holds the hand-tuned thresholds of the prop analysis engine.
// Defaults match the tuned production values; they are configuration, not
// constants to retune in code.
type AnalysisConfig struct {
	MinSafetyScore       int     `mapstructure:"min_safety_score" validate:"gte=0,lte=100"`
	MinGames             int     `mapstructure:"min_games" validate:"gt=0"`
	LineGapThreshold     float64 `mapstructure:"line_gap_threshold" validate:"gt=0"`
	HitRateHigh          float64 `mapstructure:"hit_rate_high" validate:"gt=0,lte=1"`
	HitRateLow           float64 `mapstructure:"hit_rate_low" validate:"gte=0,lt=1"`
	TrendThreshold       float64 `mapstructure:"trend_threshold" validate:"gt=0"`
	ConsistencyBand      float64 `mapstructure:"consistency_band" validate:"gt=0"`
	VarianceWarning      float64 `mapstructure:"variance_warning" validate:"gt=0"`
	ConsistencyWarning   float64 `mapstructure:"consistency_warning" validate:"gt=0,lt=1"`
}

// StreakConfig holds streak optimizer thresholds
type StreakConfig struct {
	MinSafetyScore      int `mapstructure:"min_safety_score" validate:"gte=0,lte=100"`
	HighRewardAvgSafety int `mapstructure:"high_reward_avg_safety" validate:"gte=0,lte=100"`
	UltraSafeThreshold  int `mapstructure:"ultra_safe_threshold" validate:"gte=0,lte=100"`
	SafeThreshold       int `mapstructure:"safe_threshold" validate:"gte=0,lte=100"`
	ModerateThreshold   int `mapstructure:"moderate_threshold" validate:"gte=0,lte=100"`
	AvoidListCap        int `mapstructure:"avoid_list_cap" validate:"gt=0"`
}

// ParlayConfig holds parlay correlation optimizer settings
type ParlayConfig struct {
	SoftLegCap           int     `mapstructure:"soft_leg_cap" validate:"gt=1"`
	WarningThreshold     float64 `mapstructure:"warning_threshold" validate:"gt=0,lte=1"`
	AdjustmentFactor     float64 `mapstructure:"adjustment_factor" validate:"gt=0,lte=1"`
	AlternativeMinSafety int     `mapstructure:"alternative_min_safety" validate:"gte=0,lte=100"`
	MaxAlternatives      int     `mapstructure:"max_alternatives" validate:"gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// DefaultAnalysisConfig returns the production-tuned analysis thresholds
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MinSafetyScore:     60,
		MinGames:           5,
		LineGapThreshold:   1.5,
		HitRateHigh:        0.7,
		HitRateLow:         0.3,
		TrendThreshold:     0.10,
		ConsistencyBand:    1.0,
		VarianceWarning:    3.5,
		ConsistencyWarning: 0.4,
	}
}

// DefaultStreakConfig returns the production-tuned streak thresholds
func DefaultStreakConfig() StreakConfig {
	return StreakConfig{
		MinSafetyScore:      75,
		HighRewardAvgSafety: 80,
		UltraSafeThreshold:  90,
		SafeThreshold:       80,
		ModerateThreshold:   70,
		AvoidListCap:        5,
	}
}

// DefaultParlayConfig returns the production-tuned parlay settings
func DefaultParlayConfig() ParlayConfig {
	return ParlayConfig{
		SoftLegCap:           5,
		WarningThreshold:     0.3,
		AdjustmentFactor:     0.3,
		AlternativeMinSafety: 80,
		MaxAlternatives:      3,
	}
}
