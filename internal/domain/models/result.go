package models

// PriceCalculationResult is the engine's output for one product evaluation.
// Every numeric field is sanitized before the result leaves the engine, so
// downstream persistence never sees NaN or infinities.
type PriceCalculationResult struct {
	CurrentPrice       float64 `bson:"current_price" json:"current_price"`
	ProposedPrice      float64 `bson:"proposed_price" json:"proposed_price"`
	PriceChange        float64 `bson:"price_change" json:"price_change"`
	PriceChangePercent float64 `bson:"price_change_percent" json:"price_change_percent"`

	CurrentMargin  float64 `bson:"current_margin" json:"current_margin"`
	ProposedMargin float64 `bson:"proposed_margin" json:"proposed_margin"`
	MarginChange   float64 `bson:"margin_change" json:"margin_change"`

	CurrentProfit  float64 `bson:"current_profit" json:"current_profit"`
	ProposedProfit float64 `bson:"proposed_profit" json:"proposed_profit"`

	EstimatedDailyProfitChange   float64 `bson:"estimated_daily_profit_change" json:"estimated_daily_profit_change"`
	EstimatedWeeklyRevenueImpact float64 `bson:"estimated_weekly_revenue_impact" json:"estimated_weekly_revenue_impact"`
	EstimatedWeeklyProfitImpact  float64 `bson:"estimated_weekly_profit_impact" json:"estimated_weekly_profit_impact"`

	AppliedRuleID   string     `bson:"applied_rule_id,omitempty" json:"applied_rule_id,omitempty"`
	AppliedRuleName string     `bson:"applied_rule_name,omitempty" json:"applied_rule_name,omitempty"`
	ReasonKind      ReasonKind `bson:"reason_kind" json:"reason_kind"`
	Reason          string     `bson:"reason" json:"reason"`

	Warnings []string `bson:"warnings,omitempty" json:"warnings,omitempty"`

	BelowMinimumMargin bool `bson:"below_minimum_margin" json:"below_minimum_margin"`
	AtFloorPrice       bool `bson:"at_floor_price" json:"at_floor_price"`
	AtCeilingPrice     bool `bson:"at_ceiling_price" json:"at_ceiling_price"`
}
