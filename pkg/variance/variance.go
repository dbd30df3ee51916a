// Package variance breaks project cost down by category and ranks budget
// lines by overrun and savings.
package variance

import (
	"sort"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/mathutil"
	"go.uber.org/zap"
)

// Health labels a category or line based on its budgeted-vs-forecast
// variance percentage.
type Health string

const (
	HealthUnderBudget Health = "Under Budget"
	HealthOnTrack     Health = "On Track"
	HealthWarning     Health = "Warning"
	HealthCritical    Health = "Critical"
)

// healthBucket applies the fixed percentage cutoffs to a variance pct.
func healthBucket(pct float64) Health {
	switch {
	case pct > 5:
		return HealthUnderBudget
	case pct < -10:
		return HealthCritical
	case pct < -5:
		return HealthWarning
	default:
		return HealthOnTrack
	}
}

// CategoryBreakdown is the actual/remaining/forecast roll-up for one
// category.
type CategoryBreakdown struct {
	Category       ledger.Category `json:"category"`
	Actual         float64         `json:"actual"`
	Remaining      float64         `json:"remaining"`
	Forecast       float64         `json:"forecast"`
	Variance       float64         `json:"variance"`
	BudgetedAmount float64         `json:"budgeted_amount"`
	ForecastAmount float64         `json:"forecast_amount"`
	Health         Health          `json:"health"`
}

// LineVariance is the budgeted-vs-forecast variance for one budget line.
type LineVariance struct {
	Description    string          `json:"description"`
	Category       ledger.Category `json:"category,omitempty"`
	BudgetedAmount float64         `json:"budgeted_amount"`
	ForecastAmount float64         `json:"forecast_amount"`
	Variance       float64         `json:"variance"`
	VariancePct    float64         `json:"variancePct"`
	Health         Health          `json:"health"`
}

// Breakdown is the full variance analysis for one project.
type Breakdown struct {
	Categories []CategoryBreakdown `json:"categories"`
	Lines      []LineVariance      `json:"lines"`
	Overruns   []LineVariance      `json:"overruns"`
	Savings    []LineVariance      `json:"savings"`
}

// Analyzer computes budget variance breakdowns.
type Analyzer struct {
	logger   *zap.Logger
	topLines int
}

// NewAnalyzer creates a new variance analyzer with the given logger and the
// size of the overrun/savings rankings. If logger is nil, it will use a
// no-op logger to prevent panics.
func NewAnalyzer(logger *zap.Logger, topLines int) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if topLines <= 0 {
		topLines = 5
	}
	return &Analyzer{logger: logger, topLines: topLines}
}

// Analyze rolls realized expenses and remaining-cost estimates up by
// category and ranks budget lines by variance. Only paid/approved expenses
// count toward the actuals.
func (a *Analyzer) Analyze(
	budgets []ledger.BudgetLine,
	expenses []ledger.ExpenseRecord,
	remainingCosts []ledger.EstimatedRemainingCost,
) Breakdown {
	breakdown := Breakdown{
		Categories: a.categories(budgets, expenses, remainingCosts),
		Lines:      a.lines(budgets),
	}

	// Lines are sorted ascending by variance, so the head of the list is
	// the worst overruns and the reversed tail is the best savings.
	n := len(breakdown.Lines)
	overruns := min(a.topLines, n)
	for _, line := range breakdown.Lines[:overruns] {
		if line.Variance < 0 {
			breakdown.Overruns = append(breakdown.Overruns, line)
		}
	}
	savings := min(a.topLines, n)
	for i := n - 1; i >= n-savings; i-- {
		if breakdown.Lines[i].Variance > 0 {
			breakdown.Savings = append(breakdown.Savings, breakdown.Lines[i])
		}
	}

	a.logger.Debug("variance analyzed",
		zap.String("op", "variance.Analyze"),
		zap.Int("categories", len(breakdown.Categories)),
		zap.Int("lines", n),
	)

	return breakdown
}

func (a *Analyzer) categories(
	budgets []ledger.BudgetLine,
	expenses []ledger.ExpenseRecord,
	remainingCosts []ledger.EstimatedRemainingCost,
) []CategoryBreakdown {
	actual := make(map[ledger.Category]float64)
	for _, expense := range expenses {
		if expense.PaymentStatus.Realized() {
			actual[expense.Category] += expense.Amount
		}
	}

	remaining := make(map[ledger.Category]float64)
	for _, etc := range remainingCosts {
		remaining[etc.Category] += etc.EstimatedRemainingCost
	}

	budgeted := make(map[ledger.Category]float64)
	for _, line := range budgets {
		budgeted[line.Category] += line.BudgetAmount
	}

	var categories []CategoryBreakdown
	for _, category := range ledger.Categories {
		forecast := actual[category] + remaining[category]
		if forecast <= 0 {
			continue
		}
		budgetedVariance := budgeted[category] - forecast
		pct := mathutil.CalculatePercentage(budgetedVariance, budgeted[category])
		categories = append(categories, CategoryBreakdown{
			Category:  category,
			Actual:    actual[category],
			Remaining: remaining[category],
			Forecast:  forecast,
			// Zero by construction: forecast is defined as actual plus
			// remaining. Kept for symmetry with the line-level variance.
			Variance:       forecast - (actual[category] + remaining[category]),
			BudgetedAmount: budgeted[category],
			ForecastAmount: forecast,
			Health:         healthBucket(pct),
		})
	}
	return categories
}

// lines computes the per-line budgeted minus forecast variance, sorted
// ascending so the largest overruns come first. The sort is stable to keep
// equal-variance lines in collection order.
func (a *Analyzer) lines(budgets []ledger.BudgetLine) []LineVariance {
	lines := make([]LineVariance, 0, len(budgets))
	for _, budget := range budgets {
		forecast := budget.ForecastAmount
		if forecast == 0 {
			forecast = budget.ActualAmount
		}
		lineVariance := budget.BudgetAmount - forecast
		lines = append(lines, LineVariance{
			Description:    budget.Description,
			Category:       budget.Category,
			BudgetedAmount: budget.BudgetAmount,
			ForecastAmount: forecast,
			Variance:       lineVariance,
			VariancePct:    mathutil.CalculatePercentage(lineVariance, budget.BudgetAmount),
			Health:         healthBucket(mathutil.CalculatePercentage(lineVariance, budget.BudgetAmount)),
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Variance < lines[j].Variance
	})
	return lines
}
