package risk

import (
	"fmt"
	"math"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/variance"
)

// AlertThresholdConfig is the caller-owned alert policy. Its lifecycle
// belongs to the invoking application (typically persisted per user or per
// project); the engine only reads it.
type AlertThresholdConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// CPIFloor and SPIFloor trigger alerts when the respective index falls
	// below the floor. Zero disables the check.
	CPIFloor float64 `yaml:"cpiFloor" json:"cpiFloor"`
	SPIFloor float64 `yaml:"spiFloor" json:"spiFloor"`

	// RunwayDaysFloor triggers when projected runway drops below the floor.
	RunwayDaysFloor float64 `yaml:"runwayDaysFloor" json:"runwayDaysFloor"`

	// CategoryOverrunPct triggers per enabled category when its forecast
	// exceeds budget by more than this percentage.
	CategoryOverrunPct float64           `yaml:"categoryOverrunPct" json:"categoryOverrunPct"`
	EnabledCategories  []ledger.Category `yaml:"enabledCategories" json:"enabledCategories"`
}

// Alert is one threshold breach.
type Alert struct {
	Metric    string          `json:"metric"`
	Severity  Severity        `json:"severity"`
	Message   string          `json:"message"`
	Value     float64         `json:"value"`
	Threshold float64         `json:"threshold"`
	Category  ledger.Category `json:"category,omitempty"`
}

// AlertInput carries the computed figures the evaluator reads.
type AlertInput struct {
	CPI           float64
	SPI           float64
	DaysRemaining float64
	Categories    []variance.CategoryBreakdown
}

// EvaluateAlerts checks the computed metrics against the configured
// thresholds. A disabled config yields no alerts.
func EvaluateAlerts(input AlertInput, config AlertThresholdConfig) []Alert {
	if !config.Enabled {
		return nil
	}

	var alerts []Alert

	if config.CPIFloor > 0 && input.CPI < config.CPIFloor {
		alerts = append(alerts, Alert{
			Metric:    "cpi",
			Severity:  SeverityHigh,
			Message:   fmt.Sprintf("CPI %.2f below floor %.2f", input.CPI, config.CPIFloor),
			Value:     input.CPI,
			Threshold: config.CPIFloor,
		})
	}

	if config.SPIFloor > 0 && input.SPI < config.SPIFloor {
		alerts = append(alerts, Alert{
			Metric:    "spi",
			Severity:  SeverityModerate,
			Message:   fmt.Sprintf("SPI %.2f below floor %.2f", input.SPI, config.SPIFloor),
			Value:     input.SPI,
			Threshold: config.SPIFloor,
		})
	}

	if config.RunwayDaysFloor > 0 && !math.IsInf(input.DaysRemaining, 1) &&
		input.DaysRemaining < config.RunwayDaysFloor {
		alerts = append(alerts, Alert{
			Metric:    "runway",
			Severity:  SeverityHigh,
			Message:   fmt.Sprintf("Projected runway %.0f days below floor %.0f", input.DaysRemaining, config.RunwayDaysFloor),
			Value:     input.DaysRemaining,
			Threshold: config.RunwayDaysFloor,
		})
	}

	if config.CategoryOverrunPct > 0 {
		enabled := make(map[ledger.Category]bool, len(config.EnabledCategories))
		for _, category := range config.EnabledCategories {
			enabled[category] = true
		}
		for _, category := range input.Categories {
			if !enabled[category.Category] || category.BudgetedAmount <= 0 {
				continue
			}
			overrunPct := (category.ForecastAmount - category.BudgetedAmount) / category.BudgetedAmount * 100
			if overrunPct > config.CategoryOverrunPct {
				alerts = append(alerts, Alert{
					Metric:    "category_overrun",
					Severity:  SeverityModerate,
					Message:   fmt.Sprintf("%s forecast %.1f%% over budget", category.Category, overrunPct),
					Value:     overrunPct,
					Threshold: config.CategoryOverrunPct,
					Category:  category.Category,
				})
			}
		}
	}

	return alerts
}
