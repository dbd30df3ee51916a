// Package ledger defines the read-only ledger records consumed by the
// performance engine. Records arrive from the upstream project-management
// application and are never mutated here; every computation returns new
// derived values.
package ledger

// Category is the fixed expense categorization used across budgets,
// expenses, and remaining-cost estimates.
type Category string

const (
	CategoryLabor       Category = "labor"
	CategoryMaterial    Category = "material"
	CategoryEquipment   Category = "equipment"
	CategorySubcontract Category = "subcontract"
	CategoryOther       Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryLabor,
	CategoryMaterial,
	CategoryEquipment,
	CategorySubcontract,
	CategoryOther,
}

// Valid reports whether the category is one of the known set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PaymentStatus is the settlement state of an expense record. Only paid and
// approved expenses count as realized spend.
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentApproved PaymentStatus = "approved"
	PaymentPending  PaymentStatus = "pending"
	PaymentRejected PaymentStatus = "rejected"
)

// Valid reports whether the payment status is one of the known set.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPaid, PaymentApproved, PaymentPending, PaymentRejected:
		return true
	}
	return false
}

// Realized reports whether an expense with this status counts as spend.
func (p PaymentStatus) Realized() bool {
	return p == PaymentPaid || p == PaymentApproved
}

// ChangeOrderStatus is the approval state of a change order. Only approved
// change orders permanently alter the running contract baseline.
type ChangeOrderStatus string

const (
	ChangeOrderDraft       ChangeOrderStatus = "draft"
	ChangeOrderSubmitted   ChangeOrderStatus = "submitted"
	ChangeOrderUnderReview ChangeOrderStatus = "under_review"
	ChangeOrderApproved    ChangeOrderStatus = "approved"
	ChangeOrderRejected    ChangeOrderStatus = "rejected"

	// ChangeOrderPending is a legacy alias of submitted still present in
	// older exported data.
	ChangeOrderPending ChangeOrderStatus = "pending"
)

// Valid reports whether the change order status is one of the known set.
func (s ChangeOrderStatus) Valid() bool {
	switch s {
	case ChangeOrderDraft, ChangeOrderSubmitted, ChangeOrderUnderReview,
		ChangeOrderApproved, ChangeOrderRejected, ChangeOrderPending:
		return true
	}
	return false
}

// BudgetLine is one budgeted scope item. Budget and actual amounts summed
// across a project give PV and AC; the optional forecast amount drives the
// line-level variance ranking.
type BudgetLine struct {
	ProjectID      string   `json:"project_id" yaml:"project_id"`
	Category       Category `json:"category,omitempty" yaml:"category,omitempty"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	BudgetAmount   float64  `json:"budget_amount" yaml:"budget_amount"`
	ActualAmount   float64  `json:"actual_amount" yaml:"actual_amount"`
	ForecastAmount float64  `json:"forecast_amount,omitempty" yaml:"forecast_amount,omitempty"`
}

// TaskProgress is one scheduled task with completion progress, used to weight
// earned value by estimated hours.
type TaskProgress struct {
	ProjectID       string  `json:"project_id" yaml:"project_id"`
	Name            string  `json:"name,omitempty" yaml:"name,omitempty"`
	EstimatedHours  float64 `json:"estimated_hours" yaml:"estimated_hours"`
	ProgressPercent float64 `json:"progress_percent" yaml:"progress_percent"`
}

// ExpenseRecord is one cost entry against a project.
type ExpenseRecord struct {
	ProjectID     string        `json:"project_id" yaml:"project_id"`
	Amount        float64       `json:"amount" yaml:"amount"`
	Category      Category      `json:"category" yaml:"category"`
	PaymentStatus PaymentStatus `json:"payment_status" yaml:"payment_status"`
	ExpenseDate   string        `json:"expense_date,omitempty" yaml:"expense_date,omitempty"`
}

// EstimatedRemainingCost is the estimated cost to complete for one category.
type EstimatedRemainingCost struct {
	ProjectID              string   `json:"project_id" yaml:"project_id"`
	Category               Category `json:"category" yaml:"category"`
	EstimatedRemainingCost float64  `json:"estimated_remaining_cost" yaml:"estimated_remaining_cost"`
}

// SOVLineItem is one schedule-of-values line; the sum of scheduled values is
// the original contract baseline.
type SOVLineItem struct {
	ProjectID      string  `json:"project_id" yaml:"project_id"`
	Description    string  `json:"description,omitempty" yaml:"description,omitempty"`
	ScheduledValue float64 `json:"scheduled_value" yaml:"scheduled_value"`
}

// CostBreakdownItem is one component of a change order's estimated cost.
type CostBreakdownItem struct {
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Amount      float64 `json:"amount" yaml:"amount"`
}

// ChangeOrder is a proposed or approved contract modification.
type ChangeOrder struct {
	ID            string              `json:"id" yaml:"id"`
	ProjectID     string              `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	Title         string              `json:"title,omitempty" yaml:"title,omitempty"`
	CostImpact    float64             `json:"cost_impact" yaml:"cost_impact"`
	CostBreakdown []CostBreakdownItem `json:"cost_breakdown,omitempty" yaml:"cost_breakdown,omitempty"`
	Status        ChangeOrderStatus   `json:"status" yaml:"status"`
	ApprovedDate  string              `json:"approved_date,omitempty" yaml:"approved_date,omitempty"`
	CreatedDate   string              `json:"created_date,omitempty" yaml:"created_date,omitempty"`
}

// OrderingDate returns the date used to sequence this change order: the
// approved date when present, otherwise the created date. Comparison is
// lexicographic over the raw ISO strings, so an empty result sorts first and
// ties fall back to collection order.
func (co ChangeOrder) OrderingDate() string {
	if co.ApprovedDate != "" {
		return co.ApprovedDate
	}
	return co.CreatedDate
}

// BreakdownTotal sums the cost breakdown amounts. The boolean result is
// false when no breakdown is present, in which case callers fall back to the
// configured default cost ratio.
func (co ChangeOrder) BreakdownTotal() (float64, bool) {
	if len(co.CostBreakdown) == 0 {
		return 0, false
	}
	total := 0.0
	for _, item := range co.CostBreakdown {
		total += item.Amount
	}
	return total, true
}

// Snapshot groups one project's ledger collections as fetched for a single
// engine invocation.
type Snapshot struct {
	ProjectID      string                   `json:"project_id" yaml:"project_id"`
	TotalBudget    float64                  `json:"total_budget,omitempty" yaml:"total_budget,omitempty"`
	BudgetLines    []BudgetLine             `json:"budget_lines,omitempty" yaml:"budget_lines,omitempty"`
	Tasks          []TaskProgress           `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	Expenses       []ExpenseRecord          `json:"expenses,omitempty" yaml:"expenses,omitempty"`
	RemainingCosts []EstimatedRemainingCost `json:"remaining_costs,omitempty" yaml:"remaining_costs,omitempty"`
	SOVLineItems   []SOVLineItem            `json:"sov_line_items,omitempty" yaml:"sov_line_items,omitempty"`
	ChangeOrders   []ChangeOrder            `json:"change_orders,omitempty" yaml:"change_orders,omitempty"`
}

// RealizedExpenses returns the expenses that count as spend (paid or
// approved), preserving collection order.
func (s Snapshot) RealizedExpenses() []ExpenseRecord {
	var realized []ExpenseRecord
	for _, expense := range s.Expenses {
		if expense.PaymentStatus.Realized() {
			realized = append(realized, expense)
		}
	}
	return realized
}

// RealizedSpend sums realized expense amounts.
func (s Snapshot) RealizedSpend() float64 {
	total := 0.0
	for _, expense := range s.Expenses {
		if expense.PaymentStatus.Realized() {
			total += expense.Amount
		}
	}
	return total
}

// BudgetTotal returns the explicit total budget when set, otherwise the sum
// of budget line amounts.
func (s Snapshot) BudgetTotal() float64 {
	if s.TotalBudget != 0 {
		return s.TotalBudget
	}
	total := 0.0
	for _, line := range s.BudgetLines {
		total += line.BudgetAmount
	}
	return total
}
