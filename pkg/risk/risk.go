// Package risk classifies project margin erosion into a tiered signal with
// ranked drivers, and evaluates caller-owned alert thresholds against
// computed metrics.
package risk

import (
	"fmt"
	"math"
	"sort"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/constants"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/mathutil"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/variance"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/waterfall"
	"go.uber.org/zap"
)

// Level is the tiered risk signal.
type Level string

const (
	LevelGreen  Level = "green"
	LevelYellow Level = "yellow"
	LevelRed    Level = "red"
)

// Severity tags how strongly a driver contributes to margin loss.
type Severity string

const (
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
)

// Thresholds carries the configurable tier cutoffs, expressed in margin
// variance percentage points. Both are expected to be negative, with
// Critical below Warn.
type Thresholds struct {
	// Warn is the cutoff below which the project is classified yellow.
	Warn float64

	// Critical is the cutoff below which the project is classified red.
	Critical float64

	// HighDriverImpact is the absolute-dollar impact above which a driver
	// is tagged high severity.
	HighDriverImpact float64
}

// DefaultThresholds returns the standard classification cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Warn:             constants.DefaultMarginVarianceWarn,
		Critical:         constants.DefaultMarginVarianceCritical,
		HighDriverImpact: constants.DefaultHighDriverImpact,
	}
}

// Driver is one ranked contributor to margin erosion.
type Driver struct {
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	AffectedSOV string   `json:"affected_sov,omitempty"`
	Impact      float64  `json:"impact"`
}

// Input bundles the planned and projected figures the classifier reads. The
// planned side comes from the schedule of values and base EAC; the
// projected side from the final waterfall state.
type Input struct {
	PlannedContract   float64
	PlannedCost       float64
	ProjectedContract float64
	ProjectedCost     float64
	Categories        []variance.CategoryBreakdown
	WaterfallEntries  []waterfall.Entry
}

// Assessment is the classification output for one project.
type Assessment struct {
	RiskLevel              Level    `json:"risk_level"`
	StatusLabel            string   `json:"status_label"`
	Message                string   `json:"message"`
	PlannedMarginPercent   float64  `json:"planned_margin_percent"`
	ProjectedMarginPercent float64  `json:"projected_margin_percent"`
	MarginVariance         float64  `json:"margin_variance"`
	Drivers                []Driver `json:"drivers"`
}

// TopDrivers returns the first n drivers for display; the assessment itself
// always carries the full ranked list.
func (a Assessment) TopDrivers(n int) []Driver {
	if n <= 0 || n >= len(a.Drivers) {
		return a.Drivers
	}
	return a.Drivers[:n]
}

// Classifier produces risk assessments.
type Classifier struct {
	logger     *zap.Logger
	thresholds Thresholds
}

// NewClassifier creates a new classifier with the given logger and
// thresholds. If logger is nil, it will use a no-op logger to prevent
// panics.
func NewClassifier(logger *zap.Logger, thresholds Thresholds) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if thresholds.Warn == 0 && thresholds.Critical == 0 {
		thresholds = DefaultThresholds()
	}
	if thresholds.HighDriverImpact == 0 {
		thresholds.HighDriverImpact = constants.DefaultHighDriverImpact
	}
	return &Classifier{logger: logger, thresholds: thresholds}
}

// Classify compares projected margin against planned margin and ranks the
// negative contributors. This is a pure aggregation pass with no internal
// state.
func (c *Classifier) Classify(input Input) Assessment {
	plannedMargin := input.PlannedContract - input.PlannedCost
	projectedMargin := input.ProjectedContract - input.ProjectedCost

	assessment := Assessment{
		PlannedMarginPercent:   mathutil.CalculatePercentage(plannedMargin, input.PlannedContract),
		ProjectedMarginPercent: mathutil.CalculatePercentage(projectedMargin, input.ProjectedContract),
	}
	assessment.MarginVariance = assessment.ProjectedMarginPercent - assessment.PlannedMarginPercent

	switch {
	case assessment.MarginVariance < c.thresholds.Critical:
		assessment.RiskLevel = LevelRed
		assessment.StatusLabel = "At Risk"
		assessment.Message = fmt.Sprintf("Projected margin is %.1f points below plan", -assessment.MarginVariance)
	case assessment.MarginVariance < c.thresholds.Warn:
		assessment.RiskLevel = LevelYellow
		assessment.StatusLabel = "Watch"
		assessment.Message = fmt.Sprintf("Projected margin is %.1f points below plan", -assessment.MarginVariance)
	default:
		assessment.RiskLevel = LevelGreen
		assessment.StatusLabel = "Healthy"
		assessment.Message = "Projected margin is within the acceptable band"
	}

	assessment.Drivers = c.rankDrivers(input)

	c.logger.Debug("risk classified",
		zap.String("op", "risk.Classify"),
		zap.String("riskLevel", string(assessment.RiskLevel)),
		zap.Float64("marginVariance", assessment.MarginVariance),
		zap.Int("drivers", len(assessment.Drivers)),
	)

	return assessment
}

// rankDrivers collects cost categories forecast over budget and change
// orders with negative margin impact, ranked by magnitude of loss.
func (c *Classifier) rankDrivers(input Input) []Driver {
	var drivers []Driver

	for _, category := range input.Categories {
		if category.BudgetedAmount <= 0 {
			continue
		}
		overrun := category.ForecastAmount - category.BudgetedAmount
		if overrun <= 0 {
			continue
		}
		drivers = append(drivers, Driver{
			Description: fmt.Sprintf("%s forecast %.0f over budget", category.Category, overrun),
			Severity:    c.severity(overrun),
			Impact:      -overrun,
		})
	}

	for _, entry := range input.WaterfallEntries {
		if entry.NetMarginImpact >= 0 {
			continue
		}
		loss := -entry.NetMarginImpact
		drivers = append(drivers, Driver{
			Description: fmt.Sprintf("Change order %s erodes margin by %.0f", entry.ChangeOrder.ID, loss),
			Severity:    c.severity(loss),
			AffectedSOV: entry.ChangeOrder.Title,
			Impact:      entry.NetMarginImpact,
		})
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		return math.Abs(drivers[i].Impact) > math.Abs(drivers[j].Impact)
	})
	return drivers
}

func (c *Classifier) severity(loss float64) Severity {
	if loss >= c.thresholds.HighDriverImpact {
		return SeverityHigh
	}
	return SeverityModerate
}
