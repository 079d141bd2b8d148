// Package config loads depscout configuration from the project being
// analyzed, with environment overrides.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for depscout
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// AnalysisConfig holds analysis configuration
type AnalysisConfig struct {
	// Include globs for source files, relative to the code root.
	Include []string `mapstructure:"include"`
	// IgnoreUndeclared lists import names never reported as undeclared.
	IgnoreUndeclared []string `mapstructure:"ignore_undeclared"`
	// IgnoreUnused lists declared names never reported as unused.
	IgnoreUnused []string `mapstructure:"ignore_unused"`
	// Mapping is a YAML file with extra declared-name -> import-name entries.
	Mapping string `mapstructure:"mapping"`
	// Concurrency caps the extraction workers; 0 derives from CPU count.
	Concurrency int `mapstructure:"concurrency"`
	// ConcurrencyPercent sizes the worker pool as a share of CPU cores
	// when Concurrency is unset.
	ConcurrencyPercent int `mapstructure:"concurrency_percent"`
}

var defaultConfig = Config{
	Analysis: AnalysisConfig{
		Include:            []string{"**/*.py"},
		Concurrency:        0,
		ConcurrencyPercent: 50,
	},
}

// LoadConfig reads .depscout.yaml from the project root (when present)
// over the built-in defaults. DEPSCOUT_* environment variables override
// both.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("analysis.include", defaultConfig.Analysis.Include)
	v.SetDefault("analysis.ignore_undeclared", []string{})
	v.SetDefault("analysis.ignore_unused", []string{})
	v.SetDefault("analysis.mapping", "")
	v.SetDefault("analysis.concurrency", defaultConfig.Analysis.Concurrency)
	v.SetDefault("analysis.concurrency_percent", defaultConfig.Analysis.ConcurrencyPercent)

	v.SetConfigName(".depscout")
	v.SetConfigType("yaml")
	v.AddConfigPath(root)
	v.SetEnvPrefix("DEPSCOUT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
