// Package burnrate estimates spending velocity and budget runway from
// realized expenses.
package burnrate

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/constants"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/datetime"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
	"go.uber.org/zap"
)

// Trend describes the direction of recent spending relative to the
// preceding window.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Result holds burn rates and the runway projection for one project.
// DaysRemaining is +Inf when the burn rate is zero; that is a sentinel for
// an indefinite runway, not an error.
type Result struct {
	DailyBurnRate       float64    `json:"dailyBurnRate"`
	WeeklyBurnRate      float64    `json:"weeklyBurnRate"`
	MonthlyBurnRate     float64    `json:"monthlyBurnRate"`
	RemainingBudget     float64    `json:"remainingBudget"`
	DaysRemaining       float64    `json:"daysRemaining"`
	ProjectedCompletion *time.Time `json:"projectedCompletionDate,omitempty"`
	Trend               Trend      `json:"trend"`
}

// MarshalJSON encodes the result with a null daysRemaining when the runway
// is indefinite, since JSON has no representation for +Inf.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	payload := struct {
		alias
		DaysRemaining *float64 `json:"daysRemaining"`
	}{alias: alias(r)}
	if !math.IsInf(r.DaysRemaining, 1) {
		payload.DaysRemaining = &r.DaysRemaining
	}
	return json.Marshal(payload)
}

// Estimator computes burn rate results.
type Estimator struct {
	logger *zap.Logger
}

// NewEstimator creates a new burn rate estimator with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEstimator(logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{logger: logger}
}

// Estimate computes the burn rate result anchored at the current time.
func (e *Estimator) Estimate(expenses []ledger.ExpenseRecord, totalBudget, totalSpent float64) Result {
	return e.EstimateAt(expenses, totalBudget, totalSpent, time.Now())
}

// EstimateAt computes the burn rate result with an injectable anchor time
// for deterministic runs. Only paid/approved expenses with a parseable date
// participate; records without a usable date are excluded rather than
// failing the whole estimate.
func (e *Estimator) EstimateAt(expenses []ledger.ExpenseRecord, totalBudget, totalSpent float64, now time.Time) Result {
	type datedExpense struct {
		date   time.Time
		amount float64
	}

	var dated []datedExpense
	for _, expense := range expenses {
		if !expense.PaymentStatus.Realized() {
			continue
		}
		date, ok := datetime.ParseDate(expense.ExpenseDate)
		if !ok {
			continue
		}
		dated = append(dated, datedExpense{date: date, amount: expense.Amount})
	}

	// No dated spend means no velocity to project from; the all-zero
	// result with a stable trend is the documented empty case.
	if len(dated) == 0 {
		return Result{Trend: TrendStable}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].date.Before(dated[j].date)
	})

	first := dated[0].date
	last := dated[len(dated)-1].date
	daysPassed := datetime.DaysBetween(first, last)
	if daysPassed < 1 {
		daysPassed = 1
	}

	result := Result{
		DailyBurnRate:   totalSpent / float64(daysPassed),
		RemainingBudget: totalBudget - totalSpent,
	}
	result.WeeklyBurnRate = result.DailyBurnRate * constants.DaysPerWeek
	result.MonthlyBurnRate = result.DailyBurnRate * constants.DaysPerMonth

	if result.DailyBurnRate > 0 {
		result.DaysRemaining = result.RemainingBudget / result.DailyBurnRate
		completion := datetime.OffsetDays(now, int(result.DaysRemaining))
		result.ProjectedCompletion = &completion
	} else {
		result.DaysRemaining = math.Inf(1)
	}

	recent := 0.0
	previous := 0.0
	recentStart := datetime.OffsetDays(now, -constants.TrendWindowDays)
	previousStart := datetime.OffsetDays(now, -2*constants.TrendWindowDays)
	for _, expense := range dated {
		switch {
		case expense.date.After(recentStart):
			recent += expense.amount
		case expense.date.After(previousStart):
			previous += expense.amount
		}
	}
	result.Trend = trend(recent, previous)

	e.logger.Debug("burn rate estimated",
		zap.String("op", "burnrate.EstimateAt"),
		zap.Float64("dailyBurnRate", result.DailyBurnRate),
		zap.Float64("remainingBudget", result.RemainingBudget),
		zap.String("trend", string(result.Trend)),
	)

	return result
}

func trend(recent, previous float64) Trend {
	switch {
	case recent > previous*constants.TrendIncreaseRatio:
		return TrendIncreasing
	case recent < previous*constants.TrendDecreaseRatio:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
