// Package config provides configuration management for the BioBoost
// bankroll engine.
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

	// Expand environment variables in the configuration (${VAR} syntax)
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

// LoadWithDefaults loads configuration with default values for optional
// fields; a missing config file is not an error, defaults and environment
// variables apply instead
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

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// newViper creates a viper instance with the environment binding applied
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BIOBOOST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults applies reasonable defaults for every optional setting
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bioboost")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "bioboost")
	v.SetDefault("database.user", "bioboost")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("bankroll.risk_tolerance", 0.5)
	v.SetDefault("bankroll.kelly_cap", 0.05)
	v.SetDefault("bankroll.min_stake", 1)
	v.SetDefault("bankroll.max_stake", 500)
	v.SetDefault("bankroll.retention_limit", 1000)
	v.SetDefault("bankroll.write_timeout_seconds", 10)

	v.SetDefault("scoring.sleep_weight", 0.30)
	v.SetDefault("scoring.testosterone_weight", 0.40)
	v.SetDefault("scoring.cortisol_weight", 0.15)
	v.SetDefault("scoring.hydration_weight", 0.10)
	v.SetDefault("scoring.injury_recovery_weight", 0.05)
	v.SetDefault("scoring.cache_ttl_seconds", 300)

	v.SetDefault("parlay.two_leg_min_ev", 0.08)
	v.SetDefault("parlay.three_leg_min_ev", 0.15)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("health.port", 8081)
}
