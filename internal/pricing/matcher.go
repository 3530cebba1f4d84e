package pricing

import (
	"math"
	"regexp"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

// FindApplicableRule scans rules in the order given (callers pass them sorted
// by ascending priority), skips inactive rules, and returns the first rule
// whose conditions all hold for the product. First match wins; there is no
// best-match scoring. Returns nil when nothing matches.
func FindApplicableRule(rules []models.PricingRule, p models.Product, current models.CostBreakdown) *models.PricingRule {
	for i := range rules {
		if !rules[i].IsActive {
			continue
		}
		if conditionsMatch(rules[i].Conditions, p, current) {
			return &rules[i]
		}
	}
	return nil
}

// conditionsMatch evaluates the conjunctive condition set. Absent conditions
// impose no constraint; every threshold comparison is strict, so a product
// sitting exactly on a threshold does not match.
func conditionsMatch(c models.RuleConditions, p models.Product, current models.CostBreakdown) bool {
	if len(c.Brands) > 0 && !containsString(c.Brands, p.Brand) {
		return false
	}
	if len(c.Categories) > 0 && !containsString(c.Categories, p.Category) {
		return false
	}
	if len(c.SKUs) > 0 && !containsString(c.SKUs, p.SKU) {
		return false
	}
	if len(c.SKUPatterns) > 0 && !matchesAnyPattern(c.SKUPatterns, p.SKU) {
		return false
	}

	if c.MarginBelow != nil && current.MarginPercent >= *c.MarginBelow {
		return false
	}
	if c.MarginAbove != nil && current.MarginPercent <= *c.MarginAbove {
		return false
	}

	if c.StockBelow != nil && p.Stock >= *c.StockBelow {
		return false
	}
	if c.StockAbove != nil && p.Stock <= *c.StockAbove {
		return false
	}

	weekly := float64(p.SalesLast7Days)
	if c.SalesVelocityBelow != nil && weekly >= *c.SalesVelocityBelow {
		return false
	}
	if c.SalesVelocityAbove != nil && weekly <= *c.SalesVelocityAbove {
		return false
	}

	daily := p.DailySales()
	if c.DailySalesBelow != nil && daily >= *c.DailySalesBelow {
		return false
	}
	if c.DailySalesAbove != nil && daily <= *c.DailySalesAbove {
		return false
	}

	if c.DaysOfStockBelow != nil || c.DaysOfStockAbove != nil {
		daysOfStock := math.Inf(1) // no sales means stock never runs out
		if daily > 0 {
			daysOfStock = float64(p.Stock) / daily
		}
		if c.DaysOfStockBelow != nil && daysOfStock >= *c.DaysOfStockBelow {
			return false
		}
		if c.DaysOfStockAbove != nil && daysOfStock <= *c.DaysOfStockAbove {
			return false
		}
	}

	if c.PriceBelow != nil && p.CurrentPrice >= *c.PriceBelow {
		return false
	}
	if c.PriceAbove != nil && p.CurrentPrice <= *c.PriceAbove {
		return false
	}

	dailyRevenue := daily * p.CurrentPrice
	if c.DailyRevenueBelow != nil && dailyRevenue >= *c.DailyRevenueBelow {
		return false
	}
	if c.DailyRevenueAbove != nil && dailyRevenue <= *c.DailyRevenueAbove {
		return false
	}

	return true
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// matchesAnyPattern reports whether the SKU matches at least one pattern. A
// pattern that fails to compile simply does not match.
func matchesAnyPattern(patterns []string, sku string) bool {
	for _, pattern := range patterns {
		matched, err := regexp.MatchString(pattern, sku)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
