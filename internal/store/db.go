// Package store provides a SQLite-backed ledger snapshot repository. The
// upstream project-management application exports its collections into this
// schema; the engine only ever reads a snapshot per invocation.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// Open creates a new SQLite database connection
func Open(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// Migrate creates the ledger schema when it does not exist yet.
func (db *DB) Migrate() error {
	migration := `
CREATE TABLE IF NOT EXISTS budget_lines (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id TEXT NOT NULL,
    category TEXT,
    description TEXT,
    budget_amount REAL NOT NULL DEFAULT 0,
    actual_amount REAL NOT NULL DEFAULT 0,
    forecast_amount REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_budget_lines_project ON budget_lines(project_id);

CREATE TABLE IF NOT EXISTS task_progress (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id TEXT NOT NULL,
    name TEXT,
    estimated_hours REAL NOT NULL DEFAULT 0,
    progress_percent REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_task_progress_project ON task_progress(project_id);

CREATE TABLE IF NOT EXISTS expenses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id TEXT NOT NULL,
    amount REAL NOT NULL DEFAULT 0,
    category TEXT NOT NULL,
    payment_status TEXT NOT NULL,
    expense_date TEXT
);
CREATE INDEX IF NOT EXISTS idx_expenses_project ON expenses(project_id);
CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(expense_date);

CREATE TABLE IF NOT EXISTS remaining_costs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id TEXT NOT NULL,
    category TEXT NOT NULL,
    estimated_remaining_cost REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_remaining_costs_project ON remaining_costs(project_id);

CREATE TABLE IF NOT EXISTS sov_line_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id TEXT NOT NULL,
    description TEXT,
    scheduled_value REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sov_line_items_project ON sov_line_items(project_id);

CREATE TABLE IF NOT EXISTS change_orders (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    title TEXT,
    cost_impact REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    approved_date TEXT,
    created_date TEXT
);
CREATE INDEX IF NOT EXISTS idx_change_orders_project ON change_orders(project_id);

CREATE TABLE IF NOT EXISTS change_order_breakdowns (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    change_order_id TEXT NOT NULL,
    description TEXT,
    amount REAL NOT NULL DEFAULT 0,
    FOREIGN KEY (change_order_id) REFERENCES change_orders(id)
);
CREATE INDEX IF NOT EXISTS idx_breakdowns_change_order ON change_order_breakdowns(change_order_id);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
