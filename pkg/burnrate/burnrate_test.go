package burnrate

import (
	"math"
	"testing"
	"time"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/datetime"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
	"go.uber.org/zap"
)

func approx(got, want float64) bool {
	return math.Abs(got-want) <= 0.01
}

func TestEstimator_Rates(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())
	now := datetime.MustParseTime(datetime.DateLayout, "2025-06-30")

	// 10 days between first and last expense, 5000 total spent.
	expenses := []ledger.ExpenseRecord{
		{Amount: 2000, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "2025-06-10"},
		{Amount: 3000, PaymentStatus: ledger.PaymentApproved, ExpenseDate: "2025-06-20"},
	}

	result := estimator.EstimateAt(expenses, 20000, 5000, now)

	if !approx(result.DailyBurnRate, 500) {
		t.Errorf("dailyBurnRate = %.2f, expected 500", result.DailyBurnRate)
	}
	if !approx(result.WeeklyBurnRate, 7*result.DailyBurnRate) {
		t.Errorf("weeklyBurnRate = %.2f, expected exactly 7x daily", result.WeeklyBurnRate)
	}
	if !approx(result.MonthlyBurnRate, 30*result.DailyBurnRate) {
		t.Errorf("monthlyBurnRate = %.2f, expected exactly 30x daily", result.MonthlyBurnRate)
	}
	if !approx(result.RemainingBudget, 15000) {
		t.Errorf("remainingBudget = %.2f, expected 15000", result.RemainingBudget)
	}
	if !approx(result.DaysRemaining, 30) {
		t.Errorf("daysRemaining = %.2f, expected 30", result.DaysRemaining)
	}
	if result.ProjectedCompletion == nil {
		t.Fatalf("projectedCompletion = nil, expected a date")
	}
	expected := now.AddDate(0, 0, 30)
	if !result.ProjectedCompletion.Equal(expected) {
		t.Errorf("projectedCompletion = %v, expected %v", result.ProjectedCompletion, expected)
	}
}

func TestEstimator_EmptyExpenses(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())
	now := time.Now()

	tests := []struct {
		name     string
		expenses []ledger.ExpenseRecord
	}{
		{"Nil input", nil},
		{
			"Only unrealized spend",
			[]ledger.ExpenseRecord{
				{Amount: 1000, PaymentStatus: ledger.PaymentPending, ExpenseDate: "2025-06-01"},
			},
		},
		{
			"Only undated spend",
			[]ledger.ExpenseRecord{
				{Amount: 1000, PaymentStatus: ledger.PaymentPaid},
			},
		},
		{
			"Unparseable date",
			[]ledger.ExpenseRecord{
				{Amount: 1000, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "June 1st"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := estimator.EstimateAt(tt.expenses, 10000, 0, now)
			if result.DailyBurnRate != 0 {
				t.Errorf("dailyBurnRate = %.2f, expected 0", result.DailyBurnRate)
			}
			if result.Trend != TrendStable {
				t.Errorf("trend = %s, expected stable", result.Trend)
			}
			if result.ProjectedCompletion != nil {
				t.Errorf("projectedCompletion = %v, expected nil", result.ProjectedCompletion)
			}
		})
	}
}

func TestEstimator_SameDayExpenses(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())
	now := datetime.MustParseTime(datetime.DateLayout, "2025-06-30")

	expenses := []ledger.ExpenseRecord{
		{Amount: 400, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "2025-06-15"},
		{Amount: 600, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "2025-06-15"},
	}

	// daysPassed clamps to 1 so the burn rate stays finite.
	result := estimator.EstimateAt(expenses, 5000, 1000, now)
	if !approx(result.DailyBurnRate, 1000) {
		t.Errorf("dailyBurnRate = %.2f, expected 1000", result.DailyBurnRate)
	}
}

func TestEstimator_ZeroBurnRateInfiniteRunway(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())
	now := datetime.MustParseTime(datetime.DateLayout, "2025-06-30")

	expenses := []ledger.ExpenseRecord{
		{Amount: 0, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "2025-06-01"},
	}

	result := estimator.EstimateAt(expenses, 10000, 0, now)
	if !math.IsInf(result.DaysRemaining, 1) {
		t.Errorf("daysRemaining = %v, expected +Inf sentinel", result.DaysRemaining)
	}
	if result.ProjectedCompletion != nil {
		t.Errorf("projectedCompletion = %v, expected nil", result.ProjectedCompletion)
	}
}

func TestEstimator_Trend(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())
	now := datetime.MustParseTime(datetime.DateLayout, "2025-06-30")

	tests := []struct {
		name     string
		expenses []ledger.ExpenseRecord
		expected Trend
	}{
		{
			name: "Recent spend well above previous window",
			expenses: []ledger.ExpenseRecord{
				{Amount: 1000, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "2025-05-10"},
				{Amount: 3000, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "2025-06-20"},
			},
			expected: TrendIncreasing,
		},
		{
			name: "Recent spend well below previous window",
			expenses: []ledger.ExpenseRecord{
				{Amount: 3000, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "2025-05-10"},
				{Amount: 1000, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "2025-06-20"},
			},
			expected: TrendDecreasing,
		},
		{
			name: "Comparable windows are stable",
			expenses: []ledger.ExpenseRecord{
				{Amount: 1000, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "2025-05-10"},
				{Amount: 1050, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "2025-06-20"},
			},
			expected: TrendStable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := estimator.EstimateAt(tt.expenses, 100000, 4000, now)
			if result.Trend != tt.expected {
				t.Errorf("trend = %s, expected %s", result.Trend, tt.expected)
			}
		})
	}
}
