package risk

import (
	"math"
	"testing"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/variance"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/waterfall"
	"go.uber.org/zap"
)

func approx(got, want float64) bool {
	return math.Abs(got-want) <= 0.01
}

func TestClassifier_Tiers(t *testing.T) {
	classifier := NewClassifier(zap.NewNop(), DefaultThresholds())

	tests := []struct {
		name          string
		projectedCost float64
		expected      Level
	}{
		// Planned: contract 100000, cost 80000 (20% margin).
		{"Margin holds green", 80000, LevelGreen},
		{"Small slip stays green", 81000, LevelGreen},
		{"Moderate slip is yellow", 83500, LevelYellow},
		{"Severe slip is red", 90000, LevelRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := classifier.Classify(Input{
				PlannedContract:   100000,
				PlannedCost:       80000,
				ProjectedContract: 100000,
				ProjectedCost:     tt.projectedCost,
			})
			if assessment.RiskLevel != tt.expected {
				t.Errorf("riskLevel = %s (variance %.2f), expected %s",
					assessment.RiskLevel, assessment.MarginVariance, tt.expected)
			}
		})
	}
}

func TestClassifier_MarginVariance(t *testing.T) {
	classifier := NewClassifier(zap.NewNop(), DefaultThresholds())

	assessment := classifier.Classify(Input{
		PlannedContract:   500000,
		PlannedCost:       400000,
		ProjectedContract: 550000,
		ProjectedCost:     435000,
	})

	if !approx(assessment.PlannedMarginPercent, 20) {
		t.Errorf("plannedMarginPercent = %.2f, expected 20", assessment.PlannedMarginPercent)
	}
	if !approx(assessment.ProjectedMarginPercent, 20.909) {
		t.Errorf("projectedMarginPercent = %.2f, expected 20.91", assessment.ProjectedMarginPercent)
	}
	if !approx(assessment.MarginVariance, 0.909) {
		t.Errorf("marginVariance = %.2f, expected 0.91", assessment.MarginVariance)
	}
	if assessment.RiskLevel != LevelGreen {
		t.Errorf("riskLevel = %s, expected green", assessment.RiskLevel)
	}
}

func TestClassifier_ZeroContractsStayFinite(t *testing.T) {
	classifier := NewClassifier(zap.NewNop(), DefaultThresholds())

	assessment := classifier.Classify(Input{})
	if math.IsNaN(assessment.MarginVariance) || math.IsInf(assessment.MarginVariance, 0) {
		t.Errorf("marginVariance = %v, expected finite", assessment.MarginVariance)
	}
	if assessment.RiskLevel != LevelGreen {
		t.Errorf("riskLevel = %s, expected green for empty input", assessment.RiskLevel)
	}
}

func TestClassifier_DriverRanking(t *testing.T) {
	classifier := NewClassifier(zap.NewNop(), DefaultThresholds())

	input := Input{
		PlannedContract:   100000,
		PlannedCost:       80000,
		ProjectedContract: 100000,
		ProjectedCost:     95000,
		Categories: []variance.CategoryBreakdown{
			{Category: ledger.CategoryLabor, BudgetedAmount: 40000, ForecastAmount: 52000},  // -12000
			{Category: ledger.CategoryMaterial, BudgetedAmount: 30000, ForecastAmount: 33000}, // -3000
			{Category: ledger.CategoryEquipment, BudgetedAmount: 10000, ForecastAmount: 9000}, // under budget
		},
		WaterfallEntries: []waterfall.Entry{
			{ChangeOrder: ledger.ChangeOrder{ID: "co-1"}, NetMarginImpact: -7000},
			{ChangeOrder: ledger.ChangeOrder{ID: "co-2"}, NetMarginImpact: 4000},
		},
	}

	assessment := classifier.Classify(input)

	if len(assessment.Drivers) != 3 {
		t.Fatalf("drivers = %d, expected 3", len(assessment.Drivers))
	}
	if !approx(assessment.Drivers[0].Impact, -12000) {
		t.Errorf("top driver impact = %.2f, expected -12000", assessment.Drivers[0].Impact)
	}
	if assessment.Drivers[0].Severity != SeverityHigh {
		t.Errorf("top driver severity = %s, expected high", assessment.Drivers[0].Severity)
	}
	if !approx(assessment.Drivers[1].Impact, -7000) {
		t.Errorf("second driver impact = %.2f, expected -7000", assessment.Drivers[1].Impact)
	}
	if assessment.Drivers[1].Severity != SeverityModerate {
		t.Errorf("second driver severity = %s, expected moderate", assessment.Drivers[1].Severity)
	}
	if !approx(assessment.Drivers[2].Impact, -3000) {
		t.Errorf("third driver impact = %.2f, expected -3000", assessment.Drivers[2].Impact)
	}
}

func TestAssessment_TopDrivers(t *testing.T) {
	assessment := Assessment{
		Drivers: []Driver{
			{Description: "a"}, {Description: "b"}, {Description: "c"},
		},
	}

	if got := len(assessment.TopDrivers(2)); got != 2 {
		t.Errorf("TopDrivers(2) = %d entries, expected 2", got)
	}
	if got := len(assessment.TopDrivers(10)); got != 3 {
		t.Errorf("TopDrivers(10) = %d entries, expected 3", got)
	}
	if got := len(assessment.TopDrivers(0)); got != 3 {
		t.Errorf("TopDrivers(0) = %d entries, expected full list", got)
	}
}

func TestEvaluateAlerts(t *testing.T) {
	config := AlertThresholdConfig{
		Enabled:            true,
		CPIFloor:           0.9,
		SPIFloor:           0.85,
		RunwayDaysFloor:    30,
		CategoryOverrunPct: 10,
		EnabledCategories:  []ledger.Category{ledger.CategoryLabor},
	}

	input := AlertInput{
		CPI:           0.8,
		SPI:           0.95,
		DaysRemaining: 12,
		Categories: []variance.CategoryBreakdown{
			{Category: ledger.CategoryLabor, BudgetedAmount: 10000, ForecastAmount: 12000},
			{Category: ledger.CategoryMaterial, BudgetedAmount: 10000, ForecastAmount: 15000}, // not enabled
		},
	}

	alerts := EvaluateAlerts(input, config)
	if len(alerts) != 3 {
		t.Fatalf("alerts = %d, expected 3 (cpi, runway, labor overrun)", len(alerts))
	}

	metrics := map[string]bool{}
	for _, alert := range alerts {
		metrics[alert.Metric] = true
	}
	for _, expected := range []string{"cpi", "runway", "category_overrun"} {
		if !metrics[expected] {
			t.Errorf("missing %s alert", expected)
		}
	}
}

func TestEvaluateAlerts_Disabled(t *testing.T) {
	alerts := EvaluateAlerts(AlertInput{CPI: 0.1}, AlertThresholdConfig{CPIFloor: 0.9})
	if len(alerts) != 0 {
		t.Errorf("alerts = %d, expected none when config disabled", len(alerts))
	}
}

func TestEvaluateAlerts_InfiniteRunwayIgnored(t *testing.T) {
	config := AlertThresholdConfig{Enabled: true, RunwayDaysFloor: 30}
	alerts := EvaluateAlerts(AlertInput{DaysRemaining: math.Inf(1)}, config)
	if len(alerts) != 0 {
		t.Errorf("alerts = %d, expected none for indefinite runway", len(alerts))
	}
}
