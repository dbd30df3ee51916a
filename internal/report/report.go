// Package report runs the five performance calculators over one project
// snapshot and bundles their outputs. Every component is pure over the
// immutable snapshot, so reports for different projects can be computed
// concurrently with no coordination.
package report

import (
	"time"

	"github.com/nick-lortz/steelbuild-pro-sub006/internal/config"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/burnrate"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/evm"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/risk"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/variance"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/waterfall"
	"go.uber.org/zap"
)

// Report holds all computed performance metrics for one project.
type Report struct {
	ProjectID   string             `json:"projectId"`
	EarnedValue evm.Metrics        `json:"earnedValue"`
	Waterfall   waterfall.Result   `json:"waterfall"`
	Variance    variance.Breakdown `json:"variance"`
	BurnRate    burnrate.Result    `json:"burnRate"`
	Risk        risk.Assessment    `json:"risk"`
	Alerts      []risk.Alert       `json:"alerts,omitempty"`
}

// GetReport computes the full report for a snapshot, anchored at the
// current time.
func GetReport(logger *zap.Logger, snapshot ledger.Snapshot, conf *config.Configuration) Report {
	return GetReportAt(logger, snapshot, conf, time.Now())
}

// GetReportAt computes the full report with an injectable anchor time for
// deterministic runs.
func GetReportAt(logger *zap.Logger, snapshot ledger.Snapshot, conf *config.Configuration, now time.Time) Report {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		conf = config.Default()
	}

	calculator := evm.NewCalculator(logger)
	sequencer := waterfall.NewSequencer(logger, waterfall.Config{
		DefaultCostRatio:        conf.Engine.DefaultCostRatio,
		NegativeImpactThreshold: conf.Engine.NegativeImpactThreshold,
	})
	analyzer := variance.NewAnalyzer(logger, conf.Engine.TopVarianceLines)
	estimator := burnrate.NewEstimator(logger)
	classifier := risk.NewClassifier(logger, conf.RiskThresholds())

	result := Report{ProjectID: snapshot.ProjectID}
	result.EarnedValue = calculator.Compute(snapshot.BudgetLines, snapshot.Tasks)
	result.Waterfall = sequencer.Build(
		snapshot.SOVLineItems,
		snapshot.ChangeOrders,
		snapshot.RealizedExpenses(),
		snapshot.RemainingCosts,
	)
	result.Variance = analyzer.Analyze(snapshot.BudgetLines, snapshot.Expenses, snapshot.RemainingCosts)
	result.BurnRate = estimator.EstimateAt(
		snapshot.Expenses,
		snapshot.BudgetTotal(),
		snapshot.RealizedSpend(),
		now,
	)

	// The classifier reads the final numbers left by the sequencer, so it
	// runs last.
	result.Risk = classifier.Classify(risk.Input{
		PlannedContract:   result.Waterfall.Summary.OriginalContract,
		PlannedCost:       result.Waterfall.Summary.BaseEAC,
		ProjectedContract: result.Waterfall.Summary.FinalContract,
		ProjectedCost:     result.Waterfall.Summary.FinalEAC,
		Categories:        result.Variance.Categories,
		WaterfallEntries:  result.Waterfall.Entries,
	})

	result.Alerts = risk.EvaluateAlerts(risk.AlertInput{
		CPI:           result.EarnedValue.CPI,
		SPI:           result.EarnedValue.SPI,
		DaysRemaining: result.BurnRate.DaysRemaining,
		Categories:    result.Variance.Categories,
	}, conf.Engine.Alerts)

	logger.Info("report computed",
		zap.String("op", "report.GetReportAt"),
		zap.String("project", snapshot.ProjectID),
		zap.String("riskLevel", string(result.Risk.RiskLevel)),
		zap.Int("changeOrders", len(result.Waterfall.Entries)),
		zap.Int("alerts", len(result.Alerts)),
	)

	return result
}
