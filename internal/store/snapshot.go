package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
)

// SnapshotRepository reads and writes ledger snapshots for one project.
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Load fetches every collection for the given project. Collection order is
// preserved through the seq column on change orders, since the sequencer's
// tie-break contract depends on it.
func (r *SnapshotRepository) Load(ctx context.Context, projectID string) (ledger.Snapshot, error) {
	snapshot := ledger.Snapshot{ProjectID: projectID}

	rows, err := r.db.QueryContext(ctx,
		`SELECT category, description, budget_amount, actual_amount, forecast_amount
		 FROM budget_lines WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return snapshot, fmt.Errorf("failed to load budget lines: %w", err)
	}
	for rows.Next() {
		line := ledger.BudgetLine{ProjectID: projectID}
		if err := rows.Scan(&line.Category, &line.Description, &line.BudgetAmount, &line.ActualAmount, &line.ForecastAmount); err != nil {
			rows.Close()
			return snapshot, fmt.Errorf("failed to scan budget line: %w", err)
		}
		snapshot.BudgetLines = append(snapshot.BudgetLines, line)
	}
	if err := closeRows(rows); err != nil {
		return snapshot, err
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT name, estimated_hours, progress_percent
		 FROM task_progress WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return snapshot, fmt.Errorf("failed to load task progress: %w", err)
	}
	for rows.Next() {
		task := ledger.TaskProgress{ProjectID: projectID}
		if err := rows.Scan(&task.Name, &task.EstimatedHours, &task.ProgressPercent); err != nil {
			rows.Close()
			return snapshot, fmt.Errorf("failed to scan task progress: %w", err)
		}
		snapshot.Tasks = append(snapshot.Tasks, task)
	}
	if err := closeRows(rows); err != nil {
		return snapshot, err
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT amount, category, payment_status, COALESCE(expense_date, '')
		 FROM expenses WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return snapshot, fmt.Errorf("failed to load expenses: %w", err)
	}
	for rows.Next() {
		expense := ledger.ExpenseRecord{ProjectID: projectID}
		if err := rows.Scan(&expense.Amount, &expense.Category, &expense.PaymentStatus, &expense.ExpenseDate); err != nil {
			rows.Close()
			return snapshot, fmt.Errorf("failed to scan expense: %w", err)
		}
		snapshot.Expenses = append(snapshot.Expenses, expense)
	}
	if err := closeRows(rows); err != nil {
		return snapshot, err
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT category, estimated_remaining_cost
		 FROM remaining_costs WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return snapshot, fmt.Errorf("failed to load remaining costs: %w", err)
	}
	for rows.Next() {
		etc := ledger.EstimatedRemainingCost{ProjectID: projectID}
		if err := rows.Scan(&etc.Category, &etc.EstimatedRemainingCost); err != nil {
			rows.Close()
			return snapshot, fmt.Errorf("failed to scan remaining cost: %w", err)
		}
		snapshot.RemainingCosts = append(snapshot.RemainingCosts, etc)
	}
	if err := closeRows(rows); err != nil {
		return snapshot, err
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT COALESCE(description, ''), scheduled_value
		 FROM sov_line_items WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return snapshot, fmt.Errorf("failed to load sov line items: %w", err)
	}
	for rows.Next() {
		item := ledger.SOVLineItem{ProjectID: projectID}
		if err := rows.Scan(&item.Description, &item.ScheduledValue); err != nil {
			rows.Close()
			return snapshot, fmt.Errorf("failed to scan sov line item: %w", err)
		}
		snapshot.SOVLineItems = append(snapshot.SOVLineItems, item)
	}
	if err := closeRows(rows); err != nil {
		return snapshot, err
	}

	changeOrders, err := r.loadChangeOrders(ctx, projectID)
	if err != nil {
		return snapshot, err
	}
	snapshot.ChangeOrders = changeOrders

	return snapshot, nil
}

func (r *SnapshotRepository) loadChangeOrders(ctx context.Context, projectID string) ([]ledger.ChangeOrder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, COALESCE(title, ''), cost_impact, status,
		        COALESCE(approved_date, ''), COALESCE(created_date, '')
		 FROM change_orders WHERE project_id = ? ORDER BY seq`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load change orders: %w", err)
	}

	var changeOrders []ledger.ChangeOrder
	for rows.Next() {
		co := ledger.ChangeOrder{ProjectID: projectID}
		if err := rows.Scan(&co.ID, &co.Title, &co.CostImpact, &co.Status, &co.ApprovedDate, &co.CreatedDate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan change order: %w", err)
		}
		changeOrders = append(changeOrders, co)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	for i := range changeOrders {
		breakdownRows, err := r.db.QueryContext(ctx,
			`SELECT COALESCE(description, ''), amount
			 FROM change_order_breakdowns WHERE change_order_id = ? ORDER BY id`, changeOrders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cost breakdown: %w", err)
		}
		for breakdownRows.Next() {
			var item ledger.CostBreakdownItem
			if err := breakdownRows.Scan(&item.Description, &item.Amount); err != nil {
				breakdownRows.Close()
				return nil, fmt.Errorf("failed to scan cost breakdown: %w", err)
			}
			changeOrders[i].CostBreakdown = append(changeOrders[i].CostBreakdown, item)
		}
		if err := closeRows(breakdownRows); err != nil {
			return nil, err
		}
	}

	return changeOrders, nil
}

// Save writes a whole snapshot inside one transaction, replacing any
// existing rows for the project. Change orders without an ID get one
// assigned.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot ledger.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"budget_lines", "task_progress", "expenses", "remaining_costs", "sov_line_items"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE project_id = ?", table), snapshot.ProjectID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM change_order_breakdowns WHERE change_order_id IN
		 (SELECT id FROM change_orders WHERE project_id = ?)`, snapshot.ProjectID); err != nil {
		return fmt.Errorf("failed to clear cost breakdowns: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM change_orders WHERE project_id = ?", snapshot.ProjectID); err != nil {
		return fmt.Errorf("failed to clear change orders: %w", err)
	}

	for _, line := range snapshot.BudgetLines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO budget_lines (project_id, category, description, budget_amount, actual_amount, forecast_amount)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			snapshot.ProjectID, line.Category, line.Description, line.BudgetAmount, line.ActualAmount, line.ForecastAmount); err != nil {
			return fmt.Errorf("failed to insert budget line: %w", err)
		}
	}

	for _, task := range snapshot.Tasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_progress (project_id, name, estimated_hours, progress_percent)
			 VALUES (?, ?, ?, ?)`,
			snapshot.ProjectID, task.Name, task.EstimatedHours, task.ProgressPercent); err != nil {
			return fmt.Errorf("failed to insert task progress: %w", err)
		}
	}

	for _, expense := range snapshot.Expenses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (project_id, amount, category, payment_status, expense_date)
			 VALUES (?, ?, ?, ?, ?)`,
			snapshot.ProjectID, expense.Amount, expense.Category, expense.PaymentStatus, expense.ExpenseDate); err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
	}

	for _, etc := range snapshot.RemainingCosts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO remaining_costs (project_id, category, estimated_remaining_cost)
			 VALUES (?, ?, ?)`,
			snapshot.ProjectID, etc.Category, etc.EstimatedRemainingCost); err != nil {
			return fmt.Errorf("failed to insert remaining cost: %w", err)
		}
	}

	for _, item := range snapshot.SOVLineItems {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sov_line_items (project_id, description, scheduled_value)
			 VALUES (?, ?, ?)`,
			snapshot.ProjectID, item.Description, item.ScheduledValue); err != nil {
			return fmt.Errorf("failed to insert sov line item: %w", err)
		}
	}

	for seq, co := range snapshot.ChangeOrders {
		id := co.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO change_orders (id, project_id, seq, title, cost_impact, status, approved_date, created_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, snapshot.ProjectID, seq, co.Title, co.CostImpact, co.Status, co.ApprovedDate, co.CreatedDate); err != nil {
			return fmt.Errorf("failed to insert change order: %w", err)
		}
		for _, item := range co.CostBreakdown {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO change_order_breakdowns (change_order_id, description, amount)
				 VALUES (?, ?, ?)`,
				id, item.Description, item.Amount); err != nil {
				return fmt.Errorf("failed to insert cost breakdown: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

func closeRows(rows interface {
	Close() error
	Err() error
}) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("row iteration failed: %w", err)
	}
	return rows.Close()
}
