// Package evm computes earned-value management metrics from budget lines and
// task progress. All ratio denominators are guarded; indices default to 1.0
// rather than propagating NaN or Inf into downstream consumers.
package evm

import (
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/mathutil"
	"go.uber.org/zap"
)

// Metrics holds the earned-value figures and derived performance indices for
// one project.
type Metrics struct {
	PV              float64 `json:"pv"`
	AC              float64 `json:"ac"`
	EV              float64 `json:"ev"`
	CV              float64 `json:"cv"`
	SV              float64 `json:"sv"`
	CPI             float64 `json:"cpi"`
	SPI             float64 `json:"spi"`
	BAC             float64 `json:"bac"`
	EAC             float64 `json:"eac"`
	VAC             float64 `json:"vac"`
	TCPI            float64 `json:"tcpi"`
	PercentComplete float64 `json:"percentComplete"`
	PercentSpent    float64 `json:"percentSpent"`
}

// Calculator computes earned-value metrics.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a new earned-value calculator with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// Compute derives the full metrics set from budget lines and task progress.
// Budget lines are expected to be pre-filtered to one project.
func (c *Calculator) Compute(budgets []ledger.BudgetLine, tasks []ledger.TaskProgress) Metrics {
	var m Metrics

	for _, line := range budgets {
		m.PV += line.BudgetAmount
		m.AC += line.ActualAmount
	}

	m.EV = c.earnedValue(m.PV, tasks)
	m.CV = m.EV - m.AC
	m.SV = m.EV - m.PV

	m.CPI = mathutil.SafeRatio(m.EV, m.AC, 1)
	m.SPI = mathutil.SafeRatio(m.EV, m.PV, 1)

	m.BAC = m.PV
	if m.CPI > 0 {
		m.EAC = m.BAC / m.CPI
	} else {
		m.EAC = m.BAC
	}
	m.VAC = m.BAC - m.EAC

	if remaining := m.BAC - m.AC; remaining > 0 {
		m.TCPI = (m.BAC - m.EV) / remaining
	} else {
		m.TCPI = 1
	}

	m.PercentComplete = mathutil.CalculatePercentage(m.EV, m.PV)
	m.PercentSpent = mathutil.CalculatePercentage(m.AC, m.PV)

	c.logger.Debug("earned value computed",
		zap.String("op", "evm.Compute"),
		zap.Float64("pv", m.PV),
		zap.Float64("ev", m.EV),
		zap.Float64("ac", m.AC),
		zap.Float64("cpi", m.CPI),
		zap.Float64("spi", m.SPI),
	)

	return m
}

// earnedValue weights PV by hour-weighted progress when estimated hours are
// available, otherwise by the unweighted average progress across tasks.
func (c *Calculator) earnedValue(pv float64, tasks []ledger.TaskProgress) float64 {
	if len(tasks) == 0 {
		return 0
	}

	totalEstHours := 0.0
	earnedHours := 0.0
	progressSum := 0.0
	for _, task := range tasks {
		totalEstHours += task.EstimatedHours
		earnedHours += task.EstimatedHours * task.ProgressPercent / 100
		progressSum += task.ProgressPercent
	}

	if totalEstHours > 0 {
		return pv * (earnedHours / totalEstHours)
	}
	averageProgress := progressSum / float64(len(tasks))
	return pv * averageProgress / 100
}
