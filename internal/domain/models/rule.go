package models

import (
	"errors"
	"fmt"
)

// ActionType enumerates the supported pricing rule actions.
type ActionType string

const (
	ActionSetMargin       ActionType = "set_margin"
	ActionSetMarkup       ActionType = "set_markup"
	ActionAdjustPercent   ActionType = "adjust_percent"
	ActionAdjustFixed     ActionType = "adjust_fixed"
	ActionSetPrice        ActionType = "set_price"
	ActionMatchMRP        ActionType = "match_mrp"
	ActionDiscountFromMRP ActionType = "discount_from_mrp"
)

// ErrUnknownActionType indicates a rule carries an action the engine does not support.
var ErrUnknownActionType = errors.New("unknown rule action type")

// PricingRule is one externally authored business rule. Rules are evaluated in
// ascending Priority order and the first rule whose conditions all hold wins.
// The engine never mutates rules; it sorts a local copy per run.
type PricingRule struct {
	ID         string         `bson:"rule_id" json:"rule_id"`
	Name       string         `bson:"name" json:"name"`
	Priority   int            `bson:"priority" json:"priority"`
	IsActive   bool           `bson:"is_active" json:"is_active"`
	Conditions RuleConditions `bson:"conditions" json:"conditions"`
	Action     RuleAction     `bson:"action" json:"action"`
}

// RuleConditions is the conjunctive condition set of a rule. A nil pointer or
// empty list imposes no constraint; all threshold comparisons are strict.
type RuleConditions struct {
	Brands      []string `bson:"brands,omitempty" json:"brands,omitempty"`
	Categories  []string `bson:"categories,omitempty" json:"categories,omitempty"`
	SKUs        []string `bson:"skus,omitempty" json:"skus,omitempty"`
	SKUPatterns []string `bson:"sku_patterns,omitempty" json:"sku_patterns,omitempty"`

	MarginBelow *float64 `bson:"margin_below,omitempty" json:"margin_below,omitempty"`
	MarginAbove *float64 `bson:"margin_above,omitempty" json:"margin_above,omitempty"`

	StockBelow *int `bson:"stock_below,omitempty" json:"stock_below,omitempty"`
	StockAbove *int `bson:"stock_above,omitempty" json:"stock_above,omitempty"`

	SalesVelocityBelow *float64 `bson:"sales_velocity_below,omitempty" json:"sales_velocity_below,omitempty"`
	SalesVelocityAbove *float64 `bson:"sales_velocity_above,omitempty" json:"sales_velocity_above,omitempty"`

	DailySalesBelow *float64 `bson:"daily_sales_below,omitempty" json:"daily_sales_below,omitempty"`
	DailySalesAbove *float64 `bson:"daily_sales_above,omitempty" json:"daily_sales_above,omitempty"`

	DaysOfStockBelow *float64 `bson:"days_of_stock_below,omitempty" json:"days_of_stock_below,omitempty"`
	DaysOfStockAbove *float64 `bson:"days_of_stock_above,omitempty" json:"days_of_stock_above,omitempty"`

	PriceBelow *float64 `bson:"price_below,omitempty" json:"price_below,omitempty"`
	PriceAbove *float64 `bson:"price_above,omitempty" json:"price_above,omitempty"`

	DailyRevenueBelow *float64 `bson:"daily_revenue_below,omitempty" json:"daily_revenue_below,omitempty"`
	DailyRevenueAbove *float64 `bson:"daily_revenue_above,omitempty" json:"daily_revenue_above,omitempty"`
}

// RuleAction is the single action a rule performs when it matches. Value is
// interpreted per action type (target margin %, markup multiplier, percent or
// fixed delta, absolute price, or discount % from MRP); match_mrp ignores it.
type RuleAction struct {
	Type  ActionType `bson:"type" json:"type"`
	Value float64    `bson:"value" json:"value"`
}

// Validate checks that the action is well-formed before a rule is accepted
// from the API. The engine itself tolerates bad actions at evaluation time by
// leaving the price unchanged.
func (a RuleAction) Validate() error {
	switch a.Type {
	case ActionSetMargin:
		if a.Value >= 80 {
			return fmt.Errorf("set_margin target %.2f%% is unachievable (must be below 80)", a.Value)
		}
	case ActionSetMarkup:
		if a.Value <= 0 {
			return errors.New("set_markup multiplier must be positive")
		}
	case ActionSetPrice:
		if a.Value <= 0 {
			return errors.New("set_price value must be positive")
		}
	case ActionDiscountFromMRP:
		if a.Value < 0 || a.Value > 100 {
			return errors.New("discount_from_mrp percent must be between 0 and 100")
		}
	case ActionAdjustPercent, ActionAdjustFixed, ActionMatchMRP:
		// No static constraints; runtime guards apply.
	default:
		return fmt.Errorf("%w: %q", ErrUnknownActionType, a.Type)
	}
	return nil
}
