package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

// ErrChannelNotConfigured is returned when a calculation references a channel
// id that is not present in the supplied channel map. It is the engine's only
// hard failure; every other irregularity degrades to a warning on the result.
var ErrChannelNotConfigured = errors.New("channel not configured")

const (
	reasonNoRuleApplied = "No rule applied - price unchanged"
	warnMissingCost     = "Cost price missing - cannot calculate accurate margin"
	warnCappedAtMRP     = "Price capped at MRP"
)

// Engine evaluates pricing rules over products. It holds no state between
// calls; now and newID exist so tests can pin timestamps and identifiers.
type Engine struct {
	now   func() time.Time
	newID func() string
}

// NewEngine constructs an engine with wall-clock time and uuid identifiers.
func NewEngine() *Engine {
	return &Engine{now: time.Now, newID: uuid.NewString}
}

// CalculatePrice runs one product through the full evaluation: breakdown at
// the current price, rule matching, action application, rounding, floor and
// ceiling enforcement, and impact forecasting. All numeric outputs are
// sanitized so the result never carries NaN or infinities.
func (e *Engine) CalculatePrice(p models.Product, channelID string, channels map[string]models.Channel, rules []models.PricingRule, cfg models.PricingConfig) (models.PriceCalculationResult, error) {
	ch, ok := channels[channelID]
	if !ok {
		return models.PriceCalculationResult{}, fmt.Errorf("%w: %q", ErrChannelNotConfigured, channelID)
	}

	var warnings []string
	if p.CostPrice <= 0 {
		warnings = append(warnings, warnMissingCost)
	}

	current := ChannelBreakdown(p.CurrentPrice, p, ch)

	matched := FindApplicableRule(orderedRules(rules), p, current)

	candidate := p.CurrentPrice
	kind := models.ReasonUnchanged
	reason := reasonNoRuleApplied
	var ruleID, ruleName string

	if matched != nil {
		outcome := ApplyRule(*matched, p, ch)
		reason = outcome.Reason
		if outcome.Failed {
			kind = models.ReasonActionFailed
		} else {
			kind = models.ReasonRuleApplied
			candidate = outcome.Price
			ruleID = matched.ID
			ruleName = matched.Name
		}
	}

	candidate = ApplyRounding(candidate, cfg.DefaultRoundingRule)

	atFloor := false
	if floor, floorOK := FloorPrice(p, cfg.MinimumMarginPercent); floorOK && candidate < floor {
		candidate = ApplyRounding(floor, cfg.DefaultRoundingRule)
		atFloor = true
		warnings = append(warnings, fmt.Sprintf("Price raised to floor protecting %g%% minimum margin", cfg.MinimumMarginPercent))
	}

	atCeiling := false
	if p.MRP > 0 && candidate > p.MRP {
		candidate = p.MRP
		atCeiling = true
		warnings = append(warnings, warnCappedAtMRP)
	}

	proposed := ChannelBreakdown(candidate, p, ch)

	belowMinimum := proposed.MarginPercent < cfg.MinimumMarginPercent
	if belowMinimum && !atFloor {
		warnings = append(warnings, fmt.Sprintf("Proposed margin %.2f%% is below the %g%% minimum", proposed.MarginPercent, cfg.MinimumMarginPercent))
	}

	velocity := p.DailySales()
	profitDelta := proposed.NetProfit - current.NetProfit

	result := models.PriceCalculationResult{
		CurrentPrice:       p.CurrentPrice,
		ProposedPrice:      candidate,
		PriceChange:        candidate - p.CurrentPrice,
		PriceChangePercent: (candidate - p.CurrentPrice) / p.CurrentPrice * 100,

		CurrentMargin:  current.MarginPercent,
		ProposedMargin: proposed.MarginPercent,
		MarginChange:   proposed.MarginPercent - current.MarginPercent,

		CurrentProfit:  current.NetProfit,
		ProposedProfit: proposed.NetProfit,

		EstimatedDailyProfitChange:   profitDelta * velocity,
		EstimatedWeeklyRevenueImpact: (candidate - p.CurrentPrice) * velocity * 7,
		EstimatedWeeklyProfitImpact:  profitDelta * velocity * 7,

		AppliedRuleID:   ruleID,
		AppliedRuleName: ruleName,
		ReasonKind:      kind,
		Reason:          reason,
		Warnings:        warnings,

		BelowMinimumMargin: belowMinimum,
		AtFloorPrice:       atFloor,
		AtCeilingPrice:     atCeiling,
	}
	sanitizeResult(&result)
	return result, nil
}

// FloorPrice returns the minimum selling price that still meets the minimum
// margin, using the same flat-clawback identity as the set_margin action.
// Reports ok=false when no finite positive floor exists (no fixed costs to
// protect, or a minimum margin at or beyond the clawback base).
func FloorPrice(p models.Product, minimumMarginPercent float64) (float64, bool) {
	return priceForTargetMargin(p.CostPrice+p.DeliveryCost, minimumMarginPercent)
}

// orderedRules returns a copy of rules stably sorted by ascending priority.
// The caller's slice is never reordered; rule authors control precedence
// purely through the priority number.
func orderedRules(rules []models.PricingRule) []models.PricingRule {
	ordered := make([]models.PricingRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return ordered
}

// sanitize clamps non-finite values to 0. Downstream persistence rejects NaN
// and infinities, so this runs on every numeric field leaving the engine.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func sanitizeResult(r *models.PriceCalculationResult) {
	r.CurrentPrice = sanitize(r.CurrentPrice)
	r.ProposedPrice = sanitize(r.ProposedPrice)
	r.PriceChange = sanitize(r.PriceChange)
	r.PriceChangePercent = sanitize(r.PriceChangePercent)
	r.CurrentMargin = sanitize(r.CurrentMargin)
	r.ProposedMargin = sanitize(r.ProposedMargin)
	r.MarginChange = sanitize(r.MarginChange)
	r.CurrentProfit = sanitize(r.CurrentProfit)
	r.ProposedProfit = sanitize(r.ProposedProfit)
	r.EstimatedDailyProfitChange = sanitize(r.EstimatedDailyProfitChange)
	r.EstimatedWeeklyRevenueImpact = sanitize(r.EstimatedWeeklyRevenueImpact)
	r.EstimatedWeeklyProfitImpact = sanitize(r.EstimatedWeeklyProfitImpact)
}
