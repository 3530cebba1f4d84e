package pricing

import (
	"fmt"
	"math"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

const (
	// feeClawbackBase expresses channel deductions as a flat 20% of the ex-VAT
	// price when solving a price from a target margin. The channel's actual
	// fee schedule is intentionally not consulted here.
	feeClawbackBase = 0.80
	// standardVATFactor adds VAT back at the standard rate when converting the
	// solved ex-VAT price to a selling price.
	standardVATFactor = 1.2
)

// ActionResult is the outcome of applying one rule action: the candidate price
// and a human-readable reason. Failed results always carry the product's
// unchanged current price.
type ActionResult struct {
	Price  float64
	Reason string
	Failed bool
}

// ApplyRule computes a candidate price for the rule's action. It never returns
// an error: whenever the computation is impossible (missing cost data,
// unachievable margin target, non-positive or non-finite result) the product's
// current price is returned with a reason explaining the failure.
func ApplyRule(rule models.PricingRule, p models.Product, ch models.Channel) ActionResult {
	action := rule.Action

	var price float64
	var reason string

	switch action.Type {
	case models.ActionSetMargin:
		if p.CostPrice <= 0 {
			return actionFailed(p, "Cannot calculate margin price - missing cost data")
		}
		solved, ok := priceForTargetMargin(p.CostPrice+p.DeliveryCost, action.Value)
		if !ok {
			return actionFailed(p, fmt.Sprintf("Cannot achieve %g%% margin - target too high", action.Value))
		}
		price = solved
		reason = fmt.Sprintf("Set price for %g%% target margin", action.Value)

	case models.ActionSetMarkup:
		if p.CostPrice <= 0 {
			return actionFailed(p, "Cannot apply markup - missing cost data")
		}
		price = p.CostPrice * action.Value
		reason = fmt.Sprintf("Set price at %gx cost", action.Value)

	case models.ActionAdjustPercent:
		price = p.CurrentPrice * (1 + action.Value/100)
		reason = fmt.Sprintf("Adjusted price by %g%%", action.Value)

	case models.ActionAdjustFixed:
		price = p.CurrentPrice + action.Value
		reason = fmt.Sprintf("Adjusted price by %+.2f", action.Value)

	case models.ActionSetPrice:
		price = action.Value
		reason = fmt.Sprintf("Set fixed price %.2f", action.Value)

	case models.ActionMatchMRP:
		if p.MRP <= 0 {
			return actionFailed(p, "Cannot match MRP - product has no MRP")
		}
		price = p.MRP
		reason = "Matched price to MRP"

	case models.ActionDiscountFromMRP:
		if p.MRP <= 0 {
			return actionFailed(p, "Cannot discount from MRP - product has no MRP")
		}
		price = p.MRP * (1 - action.Value/100)
		reason = fmt.Sprintf("Priced %g%% below MRP", action.Value)

	default:
		return actionFailed(p, fmt.Sprintf("Unsupported rule action %q - price unchanged", action.Type))
	}

	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return actionFailed(p, "Rule produced an invalid price - price unchanged")
	}

	return ActionResult{Price: price, Reason: reason}
}

// priceForTargetMargin solves the VAT-inclusive selling price that yields the
// target margin over fixed costs (cost of goods plus delivery), with channel
// deductions priced as the flat clawback fraction. Reports ok=false when the
// target cannot be expressed as a positive finite price.
func priceForTargetMargin(fixedCosts, targetMarginPercent float64) (float64, bool) {
	divisor := feeClawbackBase - targetMarginPercent/100
	if divisor <= 0 {
		return 0, false
	}
	priceExVAT := fixedCosts / divisor
	price := priceExVAT * standardVATFactor
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return price, true
}

func actionFailed(p models.Product, reason string) ActionResult {
	return ActionResult{Price: p.CurrentPrice, Reason: reason, Failed: true}
}
