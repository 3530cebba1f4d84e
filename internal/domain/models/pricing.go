package models

import "fmt"

// RoundingRule names a price rounding strategy applied to candidate prices.
type RoundingRule string

const (
	RoundNearest99p   RoundingRule = "nearest_99p"
	RoundNearest95p   RoundingRule = "nearest_95p"
	RoundNearestPound RoundingRule = "nearest_pound"
	RoundDown         RoundingRule = "round_down"
	RoundUp           RoundingRule = "round_up"
	RoundNone         RoundingRule = "none"
)

// ParseRoundingRule normalizes a configured rounding rule name. Unknown values
// fall back to RoundNone so a typo in configuration cannot break a pricing run.
func ParseRoundingRule(value string) (RoundingRule, error) {
	switch RoundingRule(value) {
	case RoundNearest99p, RoundNearest95p, RoundNearestPound, RoundDown, RoundUp, RoundNone:
		return RoundingRule(value), nil
	case "":
		return RoundNone, nil
	default:
		return RoundNone, fmt.Errorf("unknown rounding rule %q", value)
	}
}

// PricingConfig carries the run-wide pricing constraints supplied by the caller.
type PricingConfig struct {
	MinimumMarginPercent float64      `json:"minimum_margin_percent"`
	DefaultRoundingRule  RoundingRule `json:"default_rounding_rule"`
	DefaultChannelID     string       `json:"default_channel_id"`
}

// ReasonKind tags the machine-readable outcome of a price calculation so the
// approval workflow can branch without parsing the human-readable reason text.
type ReasonKind string

const (
	ReasonRuleApplied  ReasonKind = "rule_applied"
	ReasonUnchanged    ReasonKind = "unchanged"
	ReasonActionFailed ReasonKind = "action_failed"
)
