// Package config defines the engine configuration structures and includes
// functions for loading and validating them.
package config

import (
	"fmt"
	"io"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/constants"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/risk"
	"github.com/spf13/viper"
)

// Configuration holds all runtime configuration for the performance engine.
type Configuration struct {
	Engine  EngineConfig  `yaml:"engine,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// EngineConfig carries the tunable calculation policy. Every value here was
// a hardwired constant in the legacy dashboards; they are configuration now
// so they can be tuned and audited.
type EngineConfig struct {
	// DefaultCostRatio is the assumed cost share of change order revenue
	// when no cost breakdown is supplied.
	DefaultCostRatio float64 `yaml:"defaultCostRatio,omitempty"`

	// NegativeImpactThreshold is the absolute-dollar margin loss below
	// which a change order is classified as a negative impact.
	NegativeImpactThreshold float64 `yaml:"negativeImpactThreshold,omitempty"`

	// MarginVarianceWarn and MarginVarianceCritical are the risk tier
	// cutoffs in margin percentage points.
	MarginVarianceWarn     float64 `yaml:"marginVarianceWarn,omitempty"`
	MarginVarianceCritical float64 `yaml:"marginVarianceCritical,omitempty"`

	// HighDriverImpact is the absolute-dollar impact above which a risk
	// driver is tagged high severity.
	HighDriverImpact float64 `yaml:"highDriverImpact,omitempty"`

	// TopVarianceLines is the size of the overrun/savings rankings.
	TopVarianceLines int `yaml:"topVarianceLines,omitempty"`

	// Alerts is the caller-owned alert threshold policy.
	Alerts risk.AlertThresholdConfig `yaml:"alerts,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Default returns a configuration populated with the standard engine policy.
func Default() *Configuration {
	return &Configuration{
		Engine: EngineConfig{
			DefaultCostRatio:        constants.DefaultCostRatio,
			NegativeImpactThreshold: constants.DefaultNegativeImpactThreshold,
			MarginVarianceWarn:      constants.DefaultMarginVarianceWarn,
			MarginVarianceCritical:  constants.DefaultMarginVarianceCritical,
			HighDriverImpact:        constants.DefaultHighDriverImpact,
			TopVarianceLines:        constants.DefaultTopVarianceLines,
		},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values absent from the file keep their defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return unmarshalConfiguration(v)
}

// LoadConfigurationFromReader loads a YAML configuration from the given
// reader; used by the HTTP server for uploaded configs.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return unmarshalConfiguration(v)
}

func unmarshalConfiguration(v *viper.Viper) (*Configuration, error) {
	configuration := Default()
	if err := v.Unmarshal(configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.applyDefaults()
	return configuration, nil
}

// applyDefaults backfills zero values left by a partial config file.
func (c *Configuration) applyDefaults() {
	if c.Engine.DefaultCostRatio == 0 {
		c.Engine.DefaultCostRatio = constants.DefaultCostRatio
	}
	if c.Engine.NegativeImpactThreshold == 0 {
		c.Engine.NegativeImpactThreshold = constants.DefaultNegativeImpactThreshold
	}
	if c.Engine.MarginVarianceWarn == 0 {
		c.Engine.MarginVarianceWarn = constants.DefaultMarginVarianceWarn
	}
	if c.Engine.MarginVarianceCritical == 0 {
		c.Engine.MarginVarianceCritical = constants.DefaultMarginVarianceCritical
	}
	if c.Engine.HighDriverImpact == 0 {
		c.Engine.HighDriverImpact = constants.DefaultHighDriverImpact
	}
	if c.Engine.TopVarianceLines == 0 {
		c.Engine.TopVarianceLines = constants.DefaultTopVarianceLines
	}
}

// RiskThresholds converts the engine config into classifier thresholds.
func (c *Configuration) RiskThresholds() risk.Thresholds {
	return risk.Thresholds{
		Warn:             c.Engine.MarginVarianceWarn,
		Critical:         c.Engine.MarginVarianceCritical,
		HighDriverImpact: c.Engine.HighDriverImpact,
	}
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings rather than failing; the engine can always run with the
// defaults backfilled.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Engine.DefaultCostRatio <= 0 || c.Engine.DefaultCostRatio > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"defaultCostRatio %.2f outside (0, 1]; change orders without breakdowns will produce implausible cost estimates",
			c.Engine.DefaultCostRatio))
	}

	if c.Engine.NegativeImpactThreshold > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"negativeImpactThreshold %.0f is positive; negative impacts will never be flagged",
			c.Engine.NegativeImpactThreshold))
	}

	if c.Engine.MarginVarianceCritical > c.Engine.MarginVarianceWarn {
		warnings = append(warnings, fmt.Sprintf(
			"marginVarianceCritical %.1f is above marginVarianceWarn %.1f; red tier is unreachable",
			c.Engine.MarginVarianceCritical, c.Engine.MarginVarianceWarn))
	}

	for _, category := range c.Engine.Alerts.EnabledCategories {
		if !category.Valid() {
			warnings = append(warnings, fmt.Sprintf("alerts reference unknown category %q", category))
		}
	}

	return warnings
}
