package pricing

import (
	"math"
	"time"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

const (
	// minPriceChange is the smallest absolute price movement worth proposing;
	// anything under a cent is a no-op for the approval workflow.
	minPriceChange = 0.01
	// proposalTTL is how long a proposal stays reviewable before being purged.
	proposalTTL = 30 * 24 * time.Hour
)

// GenerateProposals evaluates every product against the default channel and
// returns the persistable proposals for results that actually move the price.
// No-op results (|change| under a cent) and invalid prices are skipped, never
// persisted. The only possible error is ErrChannelNotConfigured for the
// configured default channel.
func (e *Engine) GenerateProposals(products []models.Product, channels map[string]models.Channel, rules []models.PricingRule, cfg models.PricingConfig, batchID string) ([]models.PriceProposal, error) {
	proposals := make([]models.PriceProposal, 0, len(products))

	for _, p := range products {
		result, err := e.CalculatePrice(p, cfg.DefaultChannelID, channels, rules, cfg)
		if err != nil {
			return nil, err
		}
		if !worthProposing(result) {
			continue
		}

		createdAt := e.now().UTC()

		proposals = append(proposals, models.PriceProposal{
			ID:              e.newID(),
			SKU:             p.SKU,
			ProductName:     p.Name,
			Brand:           p.Brand,
			Category:        p.Category,
			Stock:           p.Stock,
			SalesLast7Days:  p.SalesLast7Days,
			SalesLast30Days: p.SalesLast30Days,
			Calculation:     result,
			Status:          models.ProposalPending,
			BatchID:         batchID,
			CreatedAt:       createdAt,
			ExpiresAt:       createdAt.Add(proposalTTL).Unix(),
		})
	}

	return proposals, nil
}

// worthProposing filters out results that would persist a no-op or a
// numerically invalid price.
func worthProposing(r models.PriceCalculationResult) bool {
	if math.Abs(r.PriceChange) < minPriceChange {
		return false
	}
	if r.ProposedPrice <= 0 || math.IsNaN(r.ProposedPrice) || math.IsInf(r.ProposedPrice, 0) {
		return false
	}
	return true
}
