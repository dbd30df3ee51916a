// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
)

// Approx reports whether two values agree within the given tolerance.
func Approx(got, want, tolerance float64) bool {
	return math.Abs(got-want) <= tolerance
}

// SampleSnapshot builds a small but complete snapshot exercising every
// collection, for tests that need realistic cross-component input.
func SampleSnapshot() ledger.Snapshot {
	return ledger.Snapshot{
		ProjectID: "proj-1",
		BudgetLines: []ledger.BudgetLine{
			{ProjectID: "proj-1", Category: ledger.CategoryLabor, Description: "Steel erection crew", BudgetAmount: 60000, ActualAmount: 30000, ForecastAmount: 62000},
			{ProjectID: "proj-1", Category: ledger.CategoryMaterial, Description: "Structural steel", BudgetAmount: 40000, ActualAmount: 20000, ForecastAmount: 38000},
		},
		Tasks: []ledger.TaskProgress{
			{ProjectID: "proj-1", Name: "Fabrication", EstimatedHours: 120, ProgressPercent: 75},
			{ProjectID: "proj-1", Name: "Erection", EstimatedHours: 80, ProgressPercent: 37.5},
		},
		Expenses: []ledger.ExpenseRecord{
			{ProjectID: "proj-1", Amount: 30000, Category: ledger.CategoryLabor, PaymentStatus: ledger.PaymentPaid, ExpenseDate: "2025-05-01"},
			{ProjectID: "proj-1", Amount: 20000, Category: ledger.CategoryMaterial, PaymentStatus: ledger.PaymentApproved, ExpenseDate: "2025-06-10"},
			{ProjectID: "proj-1", Amount: 5000, Category: ledger.CategoryOther, PaymentStatus: ledger.PaymentPending, ExpenseDate: "2025-06-12"},
		},
		RemainingCosts: []ledger.EstimatedRemainingCost{
			{ProjectID: "proj-1", Category: ledger.CategoryLabor, EstimatedRemainingCost: 32000},
			{ProjectID: "proj-1", Category: ledger.CategoryMaterial, EstimatedRemainingCost: 18000},
		},
		SOVLineItems: []ledger.SOVLineItem{
			{ProjectID: "proj-1", Description: "Base contract", ScheduledValue: 125000},
		},
		ChangeOrders: []ledger.ChangeOrder{
			{ID: "co-1", ProjectID: "proj-1", Title: "Added mezzanine", CostImpact: 20000, Status: ledger.ChangeOrderApproved, ApprovedDate: "2025-05-20", CreatedDate: "2025-05-01"},
			{ID: "co-2", ProjectID: "proj-1", Title: "Extra coating", CostImpact: 8000, Status: ledger.ChangeOrderSubmitted, CreatedDate: "2025-06-01"},
		},
	}
}
