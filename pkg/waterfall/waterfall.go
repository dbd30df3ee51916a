// Package waterfall sequences change orders chronologically and tracks their
// cumulative before/after impact on contract value and estimated cost at
// completion. Only approved change orders commit to the running baseline;
// every other status yields a forecast-only entry.
package waterfall

import (
	"sort"

	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/constants"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/mathutil"
	"go.uber.org/zap"
)

// ImpactStatus classifies one change order's net margin effect.
type ImpactStatus string

const (
	ImpactPositive ImpactStatus = "positive"
	ImpactNegative ImpactStatus = "negative"
	ImpactNeutral  ImpactStatus = "neutral"
)

// Position is a contract/EAC snapshot with its derived margin.
type Position struct {
	Contract      float64 `json:"contract"`
	EAC           float64 `json:"eac"`
	Margin        float64 `json:"margin"`
	MarginPercent float64 `json:"marginPercent"`
}

func position(contract, eac float64) Position {
	margin := contract - eac
	return Position{
		Contract:      contract,
		EAC:           eac,
		Margin:        margin,
		MarginPercent: mathutil.CalculatePercentage(margin, contract),
	}
}

// Entry is the waterfall record for one change order.
type Entry struct {
	ChangeOrder        ledger.ChangeOrder `json:"changeOrder"`
	Revenue            float64            `json:"revenue"`
	EstimatedCost      float64            `json:"estimatedCost"`
	Before             Position           `json:"before"`
	After              Position           `json:"after"`
	NetMarginImpact    float64            `json:"netMarginImpact"`
	MarginPercentDelta float64            `json:"marginPercentDelta"`
	ImpactStatus       ImpactStatus       `json:"impactStatus"`
	Committed          bool               `json:"committed"`
}

// Summary holds the final totals after the full sequence has been walked.
type Summary struct {
	OriginalContract      float64 `json:"originalContract"`
	BaseEAC               float64 `json:"baseEAC"`
	OriginalMargin        float64 `json:"originalMargin"`
	OriginalMarginPercent float64 `json:"originalMarginPercent"`
	FinalContract         float64 `json:"finalContract"`
	FinalEAC              float64 `json:"finalEAC"`
	FinalMargin           float64 `json:"finalMargin"`
	FinalMarginPercent    float64 `json:"finalMarginPercent"`
	TotalMarginDelta      float64 `json:"totalMarginDelta"`
	ApprovedCount         int     `json:"approvedCount"`
	PendingCount          int     `json:"pendingCount"`
	RejectedCount         int     `json:"rejectedCount"`
}

// Result is the ordered waterfall plus its summary.
type Result struct {
	Entries []Entry `json:"entries"`
	Summary Summary `json:"summary"`
}

// Config carries the sequencer's tunable policy values.
type Config struct {
	// DefaultCostRatio is applied to a change order's revenue when no cost
	// breakdown is supplied.
	DefaultCostRatio float64

	// NegativeImpactThreshold is the absolute-dollar margin loss below
	// which an entry is classified negative.
	NegativeImpactThreshold float64
}

// DefaultConfig returns the standard sequencer policy.
func DefaultConfig() Config {
	return Config{
		DefaultCostRatio:        constants.DefaultCostRatio,
		NegativeImpactThreshold: constants.DefaultNegativeImpactThreshold,
	}
}

// Sequencer builds change order waterfalls.
type Sequencer struct {
	logger *zap.Logger
	config Config
}

// NewSequencer creates a new sequencer with the given logger and config.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewSequencer(logger *zap.Logger, config Config) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.DefaultCostRatio == 0 {
		config.DefaultCostRatio = constants.DefaultCostRatio
	}
	if config.NegativeImpactThreshold == 0 {
		config.NegativeImpactThreshold = constants.DefaultNegativeImpactThreshold
	}
	return &Sequencer{logger: logger, config: config}
}

// Build walks the change orders in date order against the baseline derived
// from the schedule of values, realized expenses, and remaining-cost
// estimates. Later entries depend on the state committed by earlier approved
// entries, so processing is strictly sequential.
func (s *Sequencer) Build(
	sovItems []ledger.SOVLineItem,
	changeOrders []ledger.ChangeOrder,
	realizedExpenses []ledger.ExpenseRecord,
	remainingCosts []ledger.EstimatedRemainingCost,
) Result {
	originalContract := 0.0
	for _, item := range sovItems {
		originalContract += item.ScheduledValue
	}

	actualCost := 0.0
	for _, expense := range realizedExpenses {
		actualCost += expense.Amount
	}

	baseEAC := actualCost
	for _, etc := range remainingCosts {
		baseEAC += etc.EstimatedRemainingCost
	}

	ordered := sortByDate(changeOrders)

	runningContract := originalContract
	runningEAC := baseEAC

	entries := make([]Entry, 0, len(ordered))
	for _, co := range ordered {
		before := position(runningContract, runningEAC)

		revenue := co.CostImpact
		estimatedCost, hasBreakdown := co.BreakdownTotal()
		if !hasBreakdown {
			estimatedCost = revenue * s.config.DefaultCostRatio
		}

		// The after position is always computed for forecast display; it
		// only becomes the new baseline when the change order is approved.
		after := position(before.Contract+revenue, before.EAC+estimatedCost)

		committed := co.Status == ledger.ChangeOrderApproved
		if committed {
			runningContract = after.Contract
			runningEAC = after.EAC
		}

		netMarginImpact := after.Margin - before.Margin
		entry := Entry{
			ChangeOrder:        co,
			Revenue:            revenue,
			EstimatedCost:      estimatedCost,
			Before:             before,
			After:              after,
			NetMarginImpact:    netMarginImpact,
			MarginPercentDelta: after.MarginPercent - before.MarginPercent,
			ImpactStatus:       s.classify(netMarginImpact),
			Committed:          committed,
		}
		entries = append(entries, entry)

		s.logger.Debug("change order sequenced",
			zap.String("op", "waterfall.Build"),
			zap.String("changeOrder", co.ID),
			zap.String("status", string(co.Status)),
			zap.Bool("committed", committed),
			zap.Float64("netMarginImpact", netMarginImpact),
		)
	}

	originalMargin := originalContract - baseEAC
	finalMargin := runningContract - runningEAC
	summary := Summary{
		OriginalContract:      originalContract,
		BaseEAC:               baseEAC,
		OriginalMargin:        originalMargin,
		OriginalMarginPercent: mathutil.CalculatePercentage(originalMargin, originalContract),
		FinalContract:         runningContract,
		FinalEAC:              runningEAC,
		FinalMargin:           finalMargin,
		FinalMarginPercent:    mathutil.CalculatePercentage(finalMargin, runningContract),
		TotalMarginDelta:      finalMargin - originalMargin,
	}
	for _, co := range changeOrders {
		switch co.Status {
		case ledger.ChangeOrderApproved:
			summary.ApprovedCount++
		case ledger.ChangeOrderPending, ledger.ChangeOrderSubmitted,
			ledger.ChangeOrderDraft, ledger.ChangeOrderUnderReview:
			summary.PendingCount++
		case ledger.ChangeOrderRejected:
			summary.RejectedCount++
		}
	}

	return Result{Entries: entries, Summary: summary}
}

func (s *Sequencer) classify(netMarginImpact float64) ImpactStatus {
	switch {
	case netMarginImpact > 0:
		return ImpactPositive
	case netMarginImpact < s.config.NegativeImpactThreshold:
		return ImpactNegative
	default:
		return ImpactNeutral
	}
}

// sortByDate orders change orders ascending by approved date, falling back
// to created date, compared lexicographically over the raw ISO strings. The
// sort is stable: change orders with identical or missing dates keep their
// collection order, which determines which one is treated as first.
func sortByDate(changeOrders []ledger.ChangeOrder) []ledger.ChangeOrder {
	ordered := make([]ledger.ChangeOrder, len(changeOrders))
	copy(ordered, changeOrders)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderingDate() < ordered[j].OrderingDate()
	})
	return ordered
}
