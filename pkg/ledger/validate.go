package ledger

import "fmt"

// ValidationError describes one rejected field on an ingested record. The
// engine itself never rejects inputs mid-calculation; validation happens at
// this boundary so a misleading metric is reported as a structured error
// instead of silently computed.
type ValidationError struct {
	Collection string
	Index      int
	Field      string
	Reason     string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s[%d].%s: %s", e.Collection, e.Index, e.Field, e.Reason)
}

// Validate checks a snapshot for negative monetary fields, unknown enum
// values, and out-of-range progress. It returns every problem found rather
// than stopping at the first.
func Validate(snapshot Snapshot) []ValidationError {
	var errs []ValidationError

	for i, line := range snapshot.BudgetLines {
		if line.BudgetAmount < 0 {
			errs = append(errs, ValidationError{"budget_lines", i, "budget_amount", "must not be negative"})
		}
		if line.ActualAmount < 0 {
			errs = append(errs, ValidationError{"budget_lines", i, "actual_amount", "must not be negative"})
		}
		if line.Category != "" && !line.Category.Valid() {
			errs = append(errs, ValidationError{"budget_lines", i, "category", fmt.Sprintf("unknown category %q", line.Category)})
		}
	}

	for i, task := range snapshot.Tasks {
		if task.EstimatedHours < 0 {
			errs = append(errs, ValidationError{"tasks", i, "estimated_hours", "must not be negative"})
		}
		if task.ProgressPercent < 0 || task.ProgressPercent > 100 {
			errs = append(errs, ValidationError{"tasks", i, "progress_percent", "must be between 0 and 100"})
		}
	}

	for i, expense := range snapshot.Expenses {
		if expense.Amount < 0 {
			errs = append(errs, ValidationError{"expenses", i, "amount", "must not be negative"})
		}
		if !expense.Category.Valid() {
			errs = append(errs, ValidationError{"expenses", i, "category", fmt.Sprintf("unknown category %q", expense.Category)})
		}
		if !expense.PaymentStatus.Valid() {
			errs = append(errs, ValidationError{"expenses", i, "payment_status", fmt.Sprintf("unknown payment status %q", expense.PaymentStatus)})
		}
	}

	for i, etc := range snapshot.RemainingCosts {
		if etc.EstimatedRemainingCost < 0 {
			errs = append(errs, ValidationError{"remaining_costs", i, "estimated_remaining_cost", "must not be negative"})
		}
		if !etc.Category.Valid() {
			errs = append(errs, ValidationError{"remaining_costs", i, "category", fmt.Sprintf("unknown category %q", etc.Category)})
		}
	}

	for i, item := range snapshot.SOVLineItems {
		if item.ScheduledValue < 0 {
			errs = append(errs, ValidationError{"sov_line_items", i, "scheduled_value", "must not be negative"})
		}
	}

	// Change orders with neither date are legal: they keep collection order
	// during sequencing, so only the status enum is checked here.
	for i, co := range snapshot.ChangeOrders {
		if !co.Status.Valid() {
			errs = append(errs, ValidationError{"change_orders", i, "status", fmt.Sprintf("unknown status %q", co.Status)})
		}
	}

	return errs
}
