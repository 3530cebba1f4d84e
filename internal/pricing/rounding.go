package pricing

import (
	"math"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

// ApplyRounding applies a price rounding strategy to a candidate price. The
// psychological endings (.99/.95) anchor to the integer part of the price; the
// default rounds half-up at the cent.
func ApplyRounding(price float64, rule models.RoundingRule) float64 {
	switch rule {
	case models.RoundNearest99p:
		return math.Floor(price) + 0.99
	case models.RoundNearest95p:
		return math.Floor(price) + 0.95
	case models.RoundNearestPound:
		return math.Round(price)
	case models.RoundDown:
		return math.Floor(price*100) / 100
	case models.RoundUp:
		return math.Ceil(price*100) / 100
	default:
		return math.Round(price*100) / 100
	}
}
