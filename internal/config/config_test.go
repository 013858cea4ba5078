// Package config provides configuration management for the BioBoost
// bankroll engine.
package config

import (
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath     = "testdata/valid_config.yaml"
	expansionConfigPath = "testdata/expansion_config.yaml"
)

func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "bioboost", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 0.5, cfg.Bankroll.RiskTolerance)
	assert.Equal(t, 0.05, cfg.Bankroll.KellyCap)
	assert.Equal(t, 1000, cfg.Bankroll.RetentionLimit)
	assert.InDelta(t, 1.0, cfg.Scoring.WeightSum(), 1e-9)
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load("testdata/nonexistent_config.yaml")
	assert.Error(t, err)
}

func TestLoadConfigExpandsEnvironmentVariables(t *testing.T) {
	os.Setenv("BIOBOOST_TEST_SECRET", "expanded_secret_value")
	defer os.Unsetenv("BIOBOOST_TEST_SECRET")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded_secret_value", cfg.Database.Password)
}

func TestLoadWithDefaultsNoFile(t *testing.T) {
	cfg, err := LoadWithDefaults("testdata/nonexistent_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "bioboost", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 0.5, cfg.Bankroll.RiskTolerance)
	assert.Equal(t, 0.05, cfg.Bankroll.KellyCap)
	assert.Equal(t, 1000, cfg.Bankroll.RetentionLimit)
	assert.Equal(t, 300, cfg.Scoring.CacheTTLSeconds)
	assert.Equal(t, 0.08, cfg.Parlay.TwoLegMinEV)
	assert.Equal(t, 0.15, cfg.Parlay.ThreeLegMinEV)
	assert.Equal(t, 8081, cfg.Health.Port)

	require.NoError(t, Validate(cfg))
}

func TestLoadWithDefaultsEnvOverride(t *testing.T) {
	os.Setenv("BIOBOOST_APP_NAME", "bioboost-staging")
	os.Setenv("BIOBOOST_BANKROLL_KELLY_CAP", "0.03")
	defer func() {
		os.Unsetenv("BIOBOOST_APP_NAME")
		os.Unsetenv("BIOBOOST_BANKROLL_KELLY_CAP")
	}()

	cfg, err := LoadWithDefaults("testdata/nonexistent_config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "bioboost-staging", cfg.App.Name)
	assert.Equal(t, 0.03, cfg.Bankroll.KellyCap)
}

func TestValidateValidConfig(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	assert.NoError(t, Validate(cfg))
}

func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.App.Environment = "invalid"
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Environment")
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.App.LogLevel = "verbose"
	assert.Error(t, Validate(cfg))
}

func TestValidateWeightSumExceedsOne(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.Scoring.SleepWeight = 0.95
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights")
}

func TestValidateStakeBounds(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.Bankroll.MinStake = 600
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_stake")
}

func TestValidateParlayThresholdOrdering(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.Parlay.ThreeLegMinEV = 0.05
	assert.Error(t, Validate(cfg))
}

func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.App.Environment = "production"
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SSL")

	cfg.Database.SSLMode = "require"
	assert.NoError(t, Validate(cfg))
}

func TestValidateProductionForbidsInMemory(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "require"
	cfg.Bankroll.InMemory = true
	assert.Error(t, Validate(cfg))
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	dsn := cfg.GetDatabaseDSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "bioboost_test")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestParseSecretDataFromString(t *testing.T) {
	secretString := `{"database_password":"pw","database_user":"admin"}`
	secrets, err := parseSecretData(&secretsmanager.GetSecretValueOutput{
		SecretString: &secretString,
	})
	require.NoError(t, err)
	assert.Equal(t, "pw", secrets.DatabasePassword)
	assert.Equal(t, "admin", secrets.DatabaseUser)
}

func TestParseSecretDataEmpty(t *testing.T) {
	_, err := parseSecretData(&secretsmanager.GetSecretValueOutput{})
	assert.Error(t, err)
}

func TestOverlaySecretsOnConfig(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	overlaySecretsOnConfig(cfg, &SecretsOverlay{DatabasePassword: "rotated"})
	assert.Equal(t, "rotated", cfg.Database.Password)
	assert.Equal(t, "bioboost", cfg.Database.User, "empty overlay fields leave config untouched")
}
