// Package config provides Viper-based hierarchical configuration management
// for the validation engine. All matching thresholds live here and are
// passed into the engine as a value; there are no process-wide singletons
// in the matching core.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Weights control how much each comparison dimension contributes to a
// candidate's overall score. They are renormalized over whichever
// dimensions are applicable for a given pairing, so they need not sum to 1.
type Weights struct {
	Reference float64 `mapstructure:"reference" yaml:"reference"`
	Amount    float64 `mapstructure:"amount" yaml:"amount"`
	Date      float64 `mapstructure:"date" yaml:"date"`
}

// Matching holds every threshold and tolerance used by the scorers,
// matcher and classifier.
type Matching struct {
	// ReferenceThreshold is the minimum reference similarity counted as a
	// match by the classifier.
	ReferenceThreshold float64 `mapstructure:"reference_threshold" yaml:"reference_threshold"`
	// AmountTolerancePct is the relative tolerance (percent of the larger
	// amount) within which two amounts are considered matching.
	AmountTolerancePct float64 `mapstructure:"amount_tolerance_pct" yaml:"amount_tolerance_pct"`
	// DateToleranceDays is the maximum day distance counted as a date match.
	DateToleranceDays int `mapstructure:"date_tolerance_days" yaml:"date_tolerance_days"`
	// AcceptanceThreshold is the overall score a candidate must strictly
	// exceed to be accepted as the matched document.
	AcceptanceThreshold float64 `mapstructure:"acceptance_threshold" yaml:"acceptance_threshold"`

	Weights Weights `mapstructure:"weights" yaml:"weights"`
}

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Matching Matching `mapstructure:"matching" yaml:"matching"`

	Engine struct {
		// Workers is the size of the per-entry matching worker pool.
		// Values below 2 select the sequential pass.
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"engine" yaml:"engine"`

	Output struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"output" yaml:"output"`
}

// DefaultMatching returns the matching thresholds used when nothing is
// configured.
func DefaultMatching() Matching {
	return Matching{
		ReferenceThreshold:  0.85,
		AmountTolerancePct:  5,
		DateToleranceDays:   0,
		AcceptanceThreshold: 0.3,
		Weights: Weights{
			Reference: 0.5,
			Amount:    0.35,
			Date:      0.15,
		},
	}
}

// Load initializes Viper configuration with hierarchical loading:
// defaults, then an optional config.yaml, then BILLCHECK_* environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.bill-check")
	v.AddConfigPath(".bill-check")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BILLCHECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Keep going with defaults and env vars; a broken config file
			// should not take the tool down.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	defaults := DefaultMatching()
	v.SetDefault("matching.reference_threshold", defaults.ReferenceThreshold)
	v.SetDefault("matching.amount_tolerance_pct", defaults.AmountTolerancePct)
	v.SetDefault("matching.date_tolerance_days", defaults.DateToleranceDays)
	v.SetDefault("matching.acceptance_threshold", defaults.AcceptanceThreshold)
	v.SetDefault("matching.weights.reference", defaults.Weights.Reference)
	v.SetDefault("matching.weights.amount", defaults.Weights.Amount)
	v.SetDefault("matching.weights.date", defaults.Weights.Date)

	v.SetDefault("engine.workers", 0)
	v.SetDefault("output.format", "json")
}

// Validate checks the configuration values.
func Validate(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	m := &config.Matching
	if m.ReferenceThreshold < 0 || m.ReferenceThreshold > 1 {
		return fmt.Errorf("matching.reference_threshold must be between 0.0 and 1.0, got: %f", m.ReferenceThreshold)
	}
	if m.AcceptanceThreshold < 0 || m.AcceptanceThreshold > 1 {
		return fmt.Errorf("matching.acceptance_threshold must be between 0.0 and 1.0, got: %f", m.AcceptanceThreshold)
	}
	if m.AmountTolerancePct < 0 || m.AmountTolerancePct > 100 {
		return fmt.Errorf("matching.amount_tolerance_pct must be between 0 and 100, got: %f", m.AmountTolerancePct)
	}
	if m.DateToleranceDays < 0 {
		return fmt.Errorf("matching.date_tolerance_days must not be negative, got: %d", m.DateToleranceDays)
	}
	if m.Weights.Reference < 0 || m.Weights.Amount < 0 || m.Weights.Date < 0 {
		return fmt.Errorf("matching weights must not be negative")
	}
	if m.Weights.Reference+m.Weights.Amount+m.Weights.Date <= 0 {
		return fmt.Errorf("matching weights must have a positive sum")
	}

	if config.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative, got: %d", config.Engine.Workers)
	}
	if config.Output.Format != "json" && config.Output.Format != "csv" {
		return fmt.Errorf("invalid output format: %s (must be 'json' or 'csv')", config.Output.Format)
	}

	return nil
}

// ConfigureLogging configures a logger based on the Config struct.
func ConfigureLogging(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
