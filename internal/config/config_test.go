package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/constants"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
)

func TestDefault(t *testing.T) {
	conf := Default()

	if conf.Engine.DefaultCostRatio != constants.DefaultCostRatio {
		t.Errorf("defaultCostRatio = %.2f, expected %.2f",
			conf.Engine.DefaultCostRatio, constants.DefaultCostRatio)
	}
	if conf.Engine.NegativeImpactThreshold != constants.DefaultNegativeImpactThreshold {
		t.Errorf("negativeImpactThreshold = %.0f, expected %.0f",
			conf.Engine.NegativeImpactThreshold, constants.DefaultNegativeImpactThreshold)
	}
	if conf.Engine.TopVarianceLines != constants.DefaultTopVarianceLines {
		t.Errorf("topVarianceLines = %d, expected %d",
			conf.Engine.TopVarianceLines, constants.DefaultTopVarianceLines)
	}
	if conf.Engine.Alerts.Enabled {
		t.Error("alerts enabled by default, expected disabled")
	}
}

func TestLoadConfiguration(t *testing.T) {
	content := `
engine:
  defaultCostRatio: 0.65
  topVarianceLines: 3
  alerts:
    enabled: true
    cpiFloor: 0.9
    enabledCategories:
      - labor
logging:
  level: debug
  format: console
output:
  format: json
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Engine.DefaultCostRatio != 0.65 {
		t.Errorf("defaultCostRatio = %.2f, expected 0.65", conf.Engine.DefaultCostRatio)
	}
	if conf.Engine.TopVarianceLines != 3 {
		t.Errorf("topVarianceLines = %d, expected 3", conf.Engine.TopVarianceLines)
	}
	// Values absent from the file keep engine defaults.
	if conf.Engine.MarginVarianceWarn != constants.DefaultMarginVarianceWarn {
		t.Errorf("marginVarianceWarn = %.1f, expected default %.1f",
			conf.Engine.MarginVarianceWarn, constants.DefaultMarginVarianceWarn)
	}
	if !conf.Engine.Alerts.Enabled || conf.Engine.Alerts.CPIFloor != 0.9 {
		t.Errorf("alerts not decoded: %+v", conf.Engine.Alerts)
	}
	if conf.Logging.Level != "debug" || conf.Output.Format != "json" {
		t.Errorf("logging/output not decoded: %+v / %+v", conf.Logging, conf.Output)
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader("engine:\n  highDriverImpact: 5000\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Engine.HighDriverImpact != 5000 {
		t.Errorf("highDriverImpact = %.0f, expected 5000", conf.Engine.HighDriverImpact)
	}
}

func TestRiskThresholds(t *testing.T) {
	conf := Default()
	thresholds := conf.RiskThresholds()

	if thresholds.Warn != conf.Engine.MarginVarianceWarn {
		t.Errorf("warn = %.1f, expected %.1f", thresholds.Warn, conf.Engine.MarginVarianceWarn)
	}
	if thresholds.Critical != conf.Engine.MarginVarianceCritical {
		t.Errorf("critical = %.1f, expected %.1f", thresholds.Critical, conf.Engine.MarginVarianceCritical)
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Configuration)
		warnings int
	}{
		{"Defaults are clean", func(c *Configuration) {}, 0},
		{"Cost ratio above one", func(c *Configuration) { c.Engine.DefaultCostRatio = 1.5 }, 1},
		{"Positive impact threshold", func(c *Configuration) { c.Engine.NegativeImpactThreshold = 500 }, 1},
		{"Inverted tier cutoffs", func(c *Configuration) {
			c.Engine.MarginVarianceWarn = -5
			c.Engine.MarginVarianceCritical = -2
		}, 1},
		{"Unknown alert category", func(c *Configuration) {
			c.Engine.Alerts.EnabledCategories = []ledger.Category{"overhead"}
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Default()
			tt.mutate(conf)
			warnings := conf.ValidateConfiguration()
			if len(warnings) != tt.warnings {
				t.Errorf("warnings = %d (%v), expected %d", len(warnings), warnings, tt.warnings)
			}
		})
	}
}
