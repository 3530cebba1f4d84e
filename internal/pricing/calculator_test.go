package pricing

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

func testEngine() *Engine {
	return &Engine{
		now:   func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) },
		newID: func() string { return "fixed-id" },
	}
}

func testChannels() map[string]models.Channel {
	return map[string]models.Channel{
		"ce": {
			ID:                "ce",
			Name:              "ChannelEngine",
			CommissionPercent: 15,
			VATPercent:        20,
			PricesIncludeVAT:  true,
		},
	}
}

func hasWarning(warnings []string, fragment string) bool {
	for _, w := range warnings {
		if strings.Contains(w, fragment) {
			return true
		}
	}
	return false
}

func TestCalculatePriceNoMatchingRule(t *testing.T) {
	e := testEngine()
	p := models.Product{SKU: "S1", CurrentPrice: 100, MRP: 150, CostPrice: 40, DeliveryCost: 5}
	cfg := models.PricingConfig{MinimumMarginPercent: 10, DefaultRoundingRule: models.RoundNone, DefaultChannelID: "ce"}

	res, err := e.CalculatePrice(p, "ce", testChannels(), nil, cfg)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}

	if !almostEqual(res.ProposedPrice, 100) {
		t.Errorf("ProposedPrice = %v, want 100", res.ProposedPrice)
	}
	if res.PriceChange != 0 {
		t.Errorf("PriceChange = %v, want 0", res.PriceChange)
	}
	if res.Reason != "No rule applied - price unchanged" {
		t.Errorf("Reason = %q", res.Reason)
	}
	if res.ReasonKind != models.ReasonUnchanged {
		t.Errorf("ReasonKind = %q, want %q", res.ReasonKind, models.ReasonUnchanged)
	}
	if res.AppliedRuleID != "" {
		t.Errorf("AppliedRuleID = %q, want empty", res.AppliedRuleID)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
	if !almostEqual(res.CurrentMargin, 31) {
		t.Errorf("CurrentMargin = %v, want 31", res.CurrentMargin)
	}
	if res.BelowMinimumMargin || res.AtFloorPrice || res.AtCeilingPrice {
		t.Errorf("unexpected flags: %+v", res)
	}
}

func TestCalculatePriceSetMarginWith99pRounding(t *testing.T) {
	e := testEngine()
	p := models.Product{SKU: "S1", CurrentPrice: 100, MRP: 150, CostPrice: 40, DeliveryCost: 5, SalesLast7Days: 14}
	rules := []models.PricingRule{{
		ID:       "r-margin",
		Name:     "Target 25% margin",
		Priority: 1,
		IsActive: true,
		Action:   models.RuleAction{Type: models.ActionSetMargin, Value: 25},
	}}
	cfg := models.PricingConfig{MinimumMarginPercent: 10, DefaultRoundingRule: models.RoundNearest99p, DefaultChannelID: "ce"}

	res, err := e.CalculatePrice(p, "ce", testChannels(), rules, cfg)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}

	if !almostEqual(res.ProposedPrice, 98.99) {
		t.Errorf("ProposedPrice = %v, want 98.99", res.ProposedPrice)
	}
	if res.ReasonKind != models.ReasonRuleApplied {
		t.Errorf("ReasonKind = %q, want %q", res.ReasonKind, models.ReasonRuleApplied)
	}
	if res.AppliedRuleID != "r-margin" || res.AppliedRuleName != "Target 25% margin" {
		t.Errorf("applied rule = %q / %q", res.AppliedRuleID, res.AppliedRuleName)
	}
	if res.Reason != "Set price for 25% target margin" {
		t.Errorf("Reason = %q", res.Reason)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
	if res.BelowMinimumMargin {
		t.Error("margin near 30% should not be flagged below a 10% minimum")
	}

	// Impact forecasts follow the 2/day velocity.
	if !almostEqual(res.EstimatedWeeklyRevenueImpact, res.PriceChange*2*7) {
		t.Errorf("EstimatedWeeklyRevenueImpact = %v", res.EstimatedWeeklyRevenueImpact)
	}
	if !almostEqual(res.EstimatedDailyProfitChange, (res.ProposedProfit-res.CurrentProfit)*2) {
		t.Errorf("EstimatedDailyProfitChange = %v", res.EstimatedDailyProfitChange)
	}
	if !almostEqual(res.EstimatedWeeklyProfitImpact, res.EstimatedDailyProfitChange*7) {
		t.Errorf("EstimatedWeeklyProfitImpact = %v", res.EstimatedWeeklyProfitImpact)
	}
}

func TestCalculatePriceActionFailureKeepsCurrentPrice(t *testing.T) {
	e := testEngine()
	p := models.Product{SKU: "S1", CurrentPrice: 100, MRP: 150}
	rules := []models.PricingRule{{
		ID:       "r-markup",
		Name:     "Double cost",
		Priority: 1,
		IsActive: true,
		Action:   models.RuleAction{Type: models.ActionSetMarkup, Value: 2},
	}}
	cfg := models.PricingConfig{MinimumMarginPercent: 10, DefaultRoundingRule: models.RoundNone, DefaultChannelID: "ce"}

	res, err := e.CalculatePrice(p, "ce", testChannels(), rules, cfg)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}

	if !almostEqual(res.ProposedPrice, 100) {
		t.Errorf("ProposedPrice = %v, want 100", res.ProposedPrice)
	}
	if res.PriceChange != 0 {
		t.Errorf("PriceChange = %v, want 0", res.PriceChange)
	}
	if res.ReasonKind != models.ReasonActionFailed {
		t.Errorf("ReasonKind = %q, want %q", res.ReasonKind, models.ReasonActionFailed)
	}
	if !strings.Contains(res.Reason, "missing cost data") {
		t.Errorf("Reason = %q", res.Reason)
	}
	if res.AppliedRuleID != "" {
		t.Errorf("AppliedRuleID = %q, want empty on failure", res.AppliedRuleID)
	}
	if !hasWarning(res.Warnings, "Cost price missing") {
		t.Errorf("Warnings = %v, want missing-cost warning", res.Warnings)
	}
}

func TestCalculatePriceCapsAtMRP(t *testing.T) {
	e := testEngine()
	p := models.Product{SKU: "S1", CurrentPrice: 200, MRP: 150, CostPrice: 50}
	rules := []models.PricingRule{{
		ID:       "r-set",
		Name:     "Fixed 180",
		Priority: 1,
		IsActive: true,
		Action:   models.RuleAction{Type: models.ActionSetPrice, Value: 180},
	}}
	cfg := models.PricingConfig{MinimumMarginPercent: 10, DefaultRoundingRule: models.RoundNone, DefaultChannelID: "ce"}

	res, err := e.CalculatePrice(p, "ce", testChannels(), rules, cfg)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}

	if !almostEqual(res.ProposedPrice, 150) {
		t.Errorf("ProposedPrice = %v, want MRP 150", res.ProposedPrice)
	}
	if !res.AtCeilingPrice {
		t.Error("AtCeilingPrice = false, want true")
	}
	if !hasWarning(res.Warnings, "Price capped at MRP") {
		t.Errorf("Warnings = %v, want MRP cap warning", res.Warnings)
	}
	if res.ReasonKind != models.ReasonRuleApplied {
		t.Errorf("ReasonKind = %q, want %q", res.ReasonKind, models.ReasonRuleApplied)
	}
}

func TestCalculatePriceNoMRPNoCeiling(t *testing.T) {
	e := testEngine()
	p := models.Product{SKU: "S1", CurrentPrice: 100, CostPrice: 40}
	rules := []models.PricingRule{{
		ID:       "r-set",
		IsActive: true,
		Action:   models.RuleAction{Type: models.ActionSetPrice, Value: 10000},
	}}
	cfg := models.PricingConfig{MinimumMarginPercent: 10, DefaultRoundingRule: models.RoundNone, DefaultChannelID: "ce"}

	res, err := e.CalculatePrice(p, "ce", testChannels(), rules, cfg)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}
	if !almostEqual(res.ProposedPrice, 10000) {
		t.Errorf("ProposedPrice = %v, want 10000", res.ProposedPrice)
	}
	if res.AtCeilingPrice {
		t.Error("AtCeilingPrice = true, want false without an MRP")
	}
}

func TestCalculatePricePriorityOrder(t *testing.T) {
	e := testEngine()
	p := models.Product{SKU: "S1", CurrentPrice: 100, CostPrice: 40}
	rules := []models.PricingRule{
		{ID: "p5", Name: "later", Priority: 5, IsActive: true, Action: models.RuleAction{Type: models.ActionAdjustPercent, Value: 10}},
		{ID: "p1", Name: "earlier", Priority: 1, IsActive: true, Action: models.RuleAction{Type: models.ActionAdjustPercent, Value: -10}},
	}
	cfg := models.PricingConfig{MinimumMarginPercent: 0, DefaultRoundingRule: models.RoundNone, DefaultChannelID: "ce"}

	res, err := e.CalculatePrice(p, "ce", testChannels(), rules, cfg)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}

	if res.AppliedRuleID != "p1" {
		t.Errorf("AppliedRuleID = %q, want lowest priority number to win", res.AppliedRuleID)
	}
	if !almostEqual(res.ProposedPrice, 90) {
		t.Errorf("ProposedPrice = %v, want 90", res.ProposedPrice)
	}
	if rules[0].ID != "p5" || rules[1].ID != "p1" {
		t.Error("input rule slice was reordered")
	}
}

func TestCalculatePriceRaisesToFloor(t *testing.T) {
	e := testEngine()
	p := models.Product{SKU: "S1", CurrentPrice: 60, CostPrice: 40, DeliveryCost: 5}
	rules := []models.PricingRule{{
		ID:       "r-drop",
		IsActive: true,
		Action:   models.RuleAction{Type: models.ActionSetPrice, Value: 50},
	}}
	cfg := models.PricingConfig{MinimumMarginPercent: 25, DefaultRoundingRule: models.RoundNone, DefaultChannelID: "ce"}

	res, err := e.CalculatePrice(p, "ce", testChannels(), rules, cfg)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}

	// Floor is 45/0.55 grossed up for VAT, then cent-rounded.
	wantFloor := ApplyRounding(45.0/0.55*1.2, models.RoundNone)
	if !almostEqual(res.ProposedPrice, wantFloor) {
		t.Errorf("ProposedPrice = %v, want floor %v", res.ProposedPrice, wantFloor)
	}
	if !res.AtFloorPrice {
		t.Error("AtFloorPrice = false, want true")
	}
	if !hasWarning(res.Warnings, "floor") {
		t.Errorf("Warnings = %v, want floor warning", res.Warnings)
	}
	if res.BelowMinimumMargin {
		t.Error("floor price on a 15% commission channel should clear the 25% minimum")
	}
}

func TestCalculatePriceFlagsBelowMinimumMargin(t *testing.T) {
	e := testEngine()
	p := models.Product{SKU: "S1", CurrentPrice: 100, CostPrice: 40, DeliveryCost: 5}
	channels := map[string]models.Channel{
		"ce": {ID: "ce", CommissionPercent: 25, VATPercent: 20, PricesIncludeVAT: true},
	}
	cfg := models.PricingConfig{MinimumMarginPercent: 25, DefaultRoundingRule: models.RoundNone, DefaultChannelID: "ce"}

	res, err := e.CalculatePrice(p, "ce", channels, nil, cfg)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}

	// 21% actual margin at 100: the floor uses a flat fee allowance, the
	// reported margin uses the channel's real 25% commission.
	if !almostEqual(res.ProposedMargin, 21) {
		t.Errorf("ProposedMargin = %v, want 21", res.ProposedMargin)
	}
	if !res.BelowMinimumMargin {
		t.Error("BelowMinimumMargin = false, want true")
	}
	if res.AtFloorPrice {
		t.Error("AtFloorPrice = true, want false")
	}
	if !hasWarning(res.Warnings, "below the 25% minimum") {
		t.Errorf("Warnings = %v, want below-minimum warning", res.Warnings)
	}
}

func TestCalculatePriceUnknownChannel(t *testing.T) {
	e := testEngine()
	p := models.Product{SKU: "S1", CurrentPrice: 100}

	_, err := e.CalculatePrice(p, "missing", testChannels(), nil, models.PricingConfig{})
	if !errors.Is(err, ErrChannelNotConfigured) {
		t.Fatalf("err = %v, want ErrChannelNotConfigured", err)
	}
}

func TestCalculatePriceSanitizesNonFiniteOutputs(t *testing.T) {
	e := testEngine()
	// Zero current price makes the raw change percentage divide by zero.
	p := models.Product{SKU: "S1", DeliveryCost: 5}
	cfg := models.PricingConfig{MinimumMarginPercent: 10, DefaultRoundingRule: models.RoundNone, DefaultChannelID: "ce"}

	res, err := e.CalculatePrice(p, "ce", testChannels(), nil, cfg)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}

	if math.IsNaN(res.PriceChangePercent) || math.IsInf(res.PriceChangePercent, 0) {
		t.Errorf("PriceChangePercent = %v, want finite", res.PriceChangePercent)
	}
	if res.PriceChangePercent != 0 {
		t.Errorf("PriceChangePercent = %v, want sanitized 0", res.PriceChangePercent)
	}
	if !res.AtFloorPrice {
		t.Error("zero price should be raised to the delivery-cost floor")
	}
	for name, v := range map[string]float64{
		"ProposedPrice":                res.ProposedPrice,
		"PriceChange":                  res.PriceChange,
		"CurrentMargin":                res.CurrentMargin,
		"ProposedMargin":               res.ProposedMargin,
		"MarginChange":                 res.MarginChange,
		"CurrentProfit":                res.CurrentProfit,
		"ProposedProfit":               res.ProposedProfit,
		"EstimatedDailyProfitChange":   res.EstimatedDailyProfitChange,
		"EstimatedWeeklyRevenueImpact": res.EstimatedWeeklyRevenueImpact,
		"EstimatedWeeklyProfitImpact":  res.EstimatedWeeklyProfitImpact,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %v, want finite", name, v)
		}
	}
}

func TestCalculatePriceMatchesOnCurrentMargin(t *testing.T) {
	e := testEngine()
	// 31% margin at the current price.
	p := models.Product{SKU: "S1", CurrentPrice: 100, CostPrice: 40, DeliveryCost: 5}
	cfg := models.PricingConfig{MinimumMarginPercent: 0, DefaultRoundingRule: models.RoundNone, DefaultChannelID: "ce"}

	match := []models.PricingRule{{
		ID:         "r-low-margin",
		IsActive:   true,
		Conditions: models.RuleConditions{MarginBelow: fp(35)},
		Action:     models.RuleAction{Type: models.ActionAdjustPercent, Value: 10},
	}}
	res, err := e.CalculatePrice(p, "ce", testChannels(), match, cfg)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}
	if res.AppliedRuleID != "r-low-margin" {
		t.Errorf("AppliedRuleID = %q, want r-low-margin", res.AppliedRuleID)
	}

	noMatch := []models.PricingRule{{
		ID:         "r-low-margin",
		IsActive:   true,
		Conditions: models.RuleConditions{MarginBelow: fp(30)},
		Action:     models.RuleAction{Type: models.ActionAdjustPercent, Value: 10},
	}}
	res, err = e.CalculatePrice(p, "ce", testChannels(), noMatch, cfg)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}
	if res.ReasonKind != models.ReasonUnchanged {
		t.Errorf("ReasonKind = %q, want unchanged when margin condition misses", res.ReasonKind)
	}
}

func TestFloorPrice(t *testing.T) {
	p := models.Product{CostPrice: 40, DeliveryCost: 5}

	floor, ok := FloorPrice(p, 25)
	if !ok {
		t.Fatal("expected a floor for costed product")
	}
	if !almostEqual(floor, 45.0/0.55*1.2) {
		t.Errorf("floor = %v, want %v", floor, 45.0/0.55*1.2)
	}

	if _, ok := FloorPrice(models.Product{}, 25); ok {
		t.Error("product without costs should have no floor")
	}
	if _, ok := FloorPrice(p, 80); ok {
		t.Error("minimum margin at the clawback base should have no floor")
	}
}
