// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/household-split/internal/logging"
	"fjacquet/household-split/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Viper.
const EnvPrefix = "SPLIT"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	// Settings are the defaults applied when a payload carries no settings.
	Settings struct {
		IdentificationColumn string  `mapstructure:"identification_column" yaml:"identification_column"`
		OwnerPattern         string  `mapstructure:"owner_pattern" yaml:"owner_pattern"`
		SpousePattern        string  `mapstructure:"spouse_pattern" yaml:"spouse_pattern"`
		OwnerRatio           float64 `mapstructure:"owner_ratio" yaml:"owner_ratio"`
		SpouseRatio          float64 `mapstructure:"spouse_ratio" yaml:"spouse_ratio"`
		AmountSign           string  `mapstructure:"amount_sign" yaml:"amount_sign"`
	} `mapstructure:"settings" yaml:"settings"`

	Settlement struct {
		Epsilon float64 `mapstructure:"epsilon" yaml:"epsilon"`
		// RoundPlaces rounds the owner's part of shared expenses; -1 disables it.
		RoundPlaces int `mapstructure:"round_places" yaml:"round_places"`
	} `mapstructure:"settlement" yaml:"settlement"`

	Batch struct {
		Workers int    `mapstructure:"workers" yaml:"workers"`
		Pattern string `mapstructure:"pattern" yaml:"pattern"`
	} `mapstructure:"batch" yaml:"batch"`

	Output struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"output" yaml:"output"`
}

// InitializeConfig loads configuration from defaults, the first config.yaml
// found in the standard locations and SPLIT_* environment variables.
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile is InitializeConfig with an explicit config file.
// An empty path searches the standard locations.
func InitializeConfigFromFile(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.household-split")
		v.AddConfigPath(".household-split")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("settings.identification_column", models.DefaultIdentificationColumn)
	v.SetDefault("settings.owner_pattern", "")
	v.SetDefault("settings.spouse_pattern", "")
	v.SetDefault("settings.owner_ratio", 50.0)
	v.SetDefault("settings.spouse_ratio", 50.0)
	v.SetDefault("settings.amount_sign", string(models.AmountSignAsIs))

	v.SetDefault("settlement.epsilon", 0.000001)
	v.SetDefault("settlement.round_places", -1)

	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.pattern", "*.json")

	v.SetDefault("output.format", "json")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Settlement.Epsilon < 0 || config.Settlement.Epsilon >= 1 {
		return fmt.Errorf("settlement.epsilon must be in [0, 1), got: %g", config.Settlement.Epsilon)
	}

	if config.Settlement.RoundPlaces < -1 || config.Settlement.RoundPlaces > 8 {
		return fmt.Errorf("settlement.round_places must be between -1 and 8, got: %d", config.Settlement.RoundPlaces)
	}

	if config.Batch.Workers < 1 || config.Batch.Workers > 64 {
		return fmt.Errorf("batch.workers must be between 1 and 64, got: %d", config.Batch.Workers)
	}

	switch config.Output.Format {
	case "json", "yaml", "csv", "text":
	default:
		return fmt.Errorf("invalid output format: %s (must be 'json', 'yaml', 'csv' or 'text')", config.Output.Format)
	}

	return nil
}

// Validate checks the configuration after command-line overrides.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// DefaultSettings converts the settings section into engine settings.
func (c *Config) DefaultSettings() models.Settings {
	return models.Settings{
		IdentificationColumn: c.Settings.IdentificationColumn,
		OwnerPattern:         c.Settings.OwnerPattern,
		SpousePattern:        c.Settings.SpousePattern,
		OwnerRatio:           decimal.NewFromFloat(c.Settings.OwnerRatio),
		SpouseRatio:          decimal.NewFromFloat(c.Settings.SpouseRatio),
		AmountSign:           models.AmountSign(c.Settings.AmountSign),
	}
}

// SettlementEpsilon returns the configured epsilon as a decimal.
func (c *Config) SettlementEpsilon() decimal.Decimal {
	return decimal.NewFromFloat(c.Settlement.Epsilon)
}

// ConfigureLoggingFromConfig builds the application logger from the log
// section.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapterFromLogger(
		logging.NewLogrus(config.Log.Level, config.Log.Format, nil))
}
