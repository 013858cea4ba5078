// Package config provides configuration management for the BioBoost
// bankroll engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Bankroll BankrollConfig `mapstructure:"bankroll" validate:"required"`
	Scoring  ScoringConfig  `mapstructure:"scoring" validate:"required"`
	Parlay   ParlayConfig   `mapstructure:"parlay" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
	Health   HealthConfig   `mapstructure:"health" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// BankrollConfig represents stake sizing and ledger configuration
type BankrollConfig struct {
	RiskTolerance       float64 `mapstructure:"risk_tolerance" validate:"required,gt=0,lte=1"`
	KellyCap            float64 `mapstructure:"kelly_cap" validate:"required,gt=0,lte=1"`
	MinStake            float64 `mapstructure:"min_stake" validate:"gte=0"`
	MaxStake            float64 `mapstructure:"max_stake" validate:"gte=0"`
	RetentionLimit      int     `mapstructure:"retention_limit" validate:"required,gt=0"`
	WriteTimeoutSeconds int     `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	// InMemory selects the in-memory ledger store instead of PostgreSQL,
	// for demo mode and tests
	InMemory bool `mapstructure:"in_memory"`
}

// ScoringConfig represents BioBoost factor weighting and score caching
type ScoringConfig struct {
	SleepWeight          float64 `mapstructure:"sleep_weight" validate:"gte=0,lte=1"`
	TestosteroneWeight   float64 `mapstructure:"testosterone_weight" validate:"gte=0,lte=1"`
	CortisolWeight       float64 `mapstructure:"cortisol_weight" validate:"gte=0,lte=1"`
	HydrationWeight      float64 `mapstructure:"hydration_weight" validate:"gte=0,lte=1"`
	InjuryRecoveryWeight float64 `mapstructure:"injury_recovery_weight" validate:"gte=0,lte=1"`
	CacheTTLSeconds      int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// WeightSum returns the total factor weight
func (s ScoringConfig) WeightSum() float64 {
	return s.SleepWeight + s.TestosteroneWeight + s.CortisolWeight +
		s.HydrationWeight + s.InjuryRecoveryWeight
}

// ParlayConfig represents parlay recommendation thresholds
type ParlayConfig struct {
	TwoLegMinEV   float64 `mapstructure:"two_leg_min_ev" validate:"gte=0"`
	ThreeLegMinEV float64 `mapstructure:"three_leg_min_ev" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health check server configuration
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// ReconcileSchedule is the cron expression for the periodic ledger
// reconciliation job run by the serve daemon
const ReconcileSchedule = "*/5 * * * *"

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// WriteTimeout returns the ledger write timeout as a duration
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Bankroll.WriteTimeoutSeconds) * time.Second
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
