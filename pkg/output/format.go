// Package output provides utilities for formatting and displaying
// performance reports.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/nick-lortz/steelbuild-pro-sub006/internal/report"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, r report.Report) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "--- Performance report for project %s ---\n", r.ProjectID)

	ev := r.EarnedValue
	fmt.Fprintf(w, "\nEarned value\n")
	_, _ = p.Fprintf(w, "  PV $%.2f | EV $%.2f | AC $%.2f\n", ev.PV, ev.EV, ev.AC)
	fmt.Fprintf(w, "  CPI %.2f | SPI %.2f | TCPI %.2f\n", ev.CPI, ev.SPI, ev.TCPI)
	_, _ = p.Fprintf(w, "  BAC $%.2f | EAC $%.2f | VAC $%.2f\n", ev.BAC, ev.EAC, ev.VAC)
	fmt.Fprintf(w, "  %.1f%% complete, %.1f%% spent\n", ev.PercentComplete, ev.PercentSpent)

	summary := r.Waterfall.Summary
	fmt.Fprintf(w, "\nChange order waterfall (%d approved, %d pending, %d rejected)\n",
		summary.ApprovedCount, summary.PendingCount, summary.RejectedCount)
	_, _ = p.Fprintf(w, "  Contract $%.2f -> $%.2f\n", summary.OriginalContract, summary.FinalContract)
	_, _ = p.Fprintf(w, "  Margin $%.2f (%.1f%%) -> $%.2f (%.1f%%)\n",
		summary.OriginalMargin, summary.OriginalMarginPercent,
		summary.FinalMargin, summary.FinalMarginPercent)
	for _, entry := range r.Waterfall.Entries {
		marker := " "
		if entry.Committed {
			marker = "*"
		}
		_, _ = p.Fprintf(w, "  %s %-12s %-12s revenue $%.2f cost $%.2f impact $%.2f (%s)\n",
			marker, entry.ChangeOrder.ID, entry.ChangeOrder.Status,
			entry.Revenue, entry.EstimatedCost, entry.NetMarginImpact, entry.ImpactStatus)
	}

	fmt.Fprintf(w, "\nBudget variance\n")
	for _, category := range r.Variance.Categories {
		_, _ = p.Fprintf(w, "  %-12s actual $%.2f remaining $%.2f forecast $%.2f [%s]\n",
			category.Category, category.Actual, category.Remaining, category.Forecast, category.Health)
	}

	burn := r.BurnRate
	fmt.Fprintf(w, "\nBurn rate (%s)\n", burn.Trend)
	_, _ = p.Fprintf(w, "  $%.2f/day | $%.2f/week | $%.2f/month\n",
		burn.DailyBurnRate, burn.WeeklyBurnRate, burn.MonthlyBurnRate)
	if math.IsInf(burn.DaysRemaining, 1) {
		_, _ = p.Fprintf(w, "  Remaining budget $%.2f, indefinite runway\n", burn.RemainingBudget)
	} else {
		_, _ = p.Fprintf(w, "  Remaining budget $%.2f, %.0f days of runway\n",
			burn.RemainingBudget, burn.DaysRemaining)
	}
	if burn.ProjectedCompletion != nil {
		fmt.Fprintf(w, "  Projected depletion %s\n", burn.ProjectedCompletion.Format(constants.DateLayout))
	}

	fmt.Fprintf(w, "\nRisk: %s (%s)\n", r.Risk.RiskLevel, r.Risk.StatusLabel)
	fmt.Fprintf(w, "  %s\n", r.Risk.Message)
	for _, driver := range r.Risk.TopDrivers(constants.DefaultMaxDrivers) {
		fmt.Fprintf(w, "  - [%s] %s\n", driver.Severity, driver.Description)
	}

	for _, alert := range r.Alerts {
		fmt.Fprintf(w, "ALERT [%s] %s\n", alert.Severity, alert.Message)
	}
}

// CsvFormat writes the waterfall and category breakdown in comma-separated
// value format.
func CsvFormat(w io.Writer, r report.Report) {
	fmt.Fprintf(w, "\"section\",\"name\",\"status\",\"before\",\"after\",\"impact\"\n")
	for _, entry := range r.Waterfall.Entries {
		fmt.Fprintf(w, "\"waterfall\",\"%s\",\"%s\",\"%.2f\",\"%.2f\",\"%.2f\"\n",
			entry.ChangeOrder.ID, entry.ChangeOrder.Status,
			entry.Before.Margin, entry.After.Margin, entry.NetMarginImpact)
	}
	for _, category := range r.Variance.Categories {
		fmt.Fprintf(w, "\"variance\",\"%s\",\"%s\",\"%.2f\",\"%.2f\",\"%.2f\"\n",
			category.Category, category.Health,
			category.BudgetedAmount, category.ForecastAmount,
			category.BudgetedAmount-category.ForecastAmount)
	}
}

// JSONFormat writes the full report as indented JSON.
func JSONFormat(w io.Writer, r report.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
