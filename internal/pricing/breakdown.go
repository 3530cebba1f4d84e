package pricing

import (
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

// BreakdownInput carries the price, product costs and channel fee figures that
// a cost breakdown is computed from.
type BreakdownInput struct {
	SellingPrice             float64
	CostPrice                float64
	DeliveryCost             float64
	CommissionPercent        float64
	FixedFee                 float64
	PaymentProcessingPercent float64
	AdvertisingPercent       float64
	VATPercent               float64
	PricesIncludeVAT         bool
}

// ComputeBreakdown decomposes a selling price into its full cost and margin
// structure. Pure function: no side effects and no error conditions. Margin is
// always computed from the VAT-exclusive price and is 0 when that price is not
// positive, so degenerate inputs never produce NaN here.
func ComputeBreakdown(in BreakdownInput) models.CostBreakdown {
	priceExVAT := in.SellingPrice
	var vatAmount float64
	if in.PricesIncludeVAT {
		priceExVAT = in.SellingPrice / (1 + in.VATPercent/100)
		vatAmount = in.SellingPrice - priceExVAT
	} else {
		vatAmount = priceExVAT * in.VATPercent / 100
	}

	commission := priceExVAT * in.CommissionPercent / 100
	paymentProcessing := priceExVAT * in.PaymentProcessingPercent / 100
	advertising := priceExVAT * in.AdvertisingPercent / 100

	totalCosts := in.CostPrice + in.DeliveryCost + commission + in.FixedFee + paymentProcessing + advertising
	netProfit := priceExVAT - totalCosts

	marginPercent := 0.0
	if priceExVAT > 0 {
		marginPercent = netProfit / priceExVAT * 100
	}

	return models.CostBreakdown{
		SellingPrice:      in.SellingPrice,
		VATAmount:         vatAmount,
		PriceExVAT:        priceExVAT,
		CostPrice:         in.CostPrice,
		DeliveryCost:      in.DeliveryCost,
		ChannelCommission: commission,
		FixedFee:          in.FixedFee,
		PaymentProcessing: paymentProcessing,
		AdvertisingCost:   advertising,
		TotalCosts:        totalCosts,
		NetProfit:         netProfit,
		MarginPercent:     marginPercent,
	}
}

// ChannelBreakdown computes the breakdown of pricing product p at the given
// price on channel ch. Advertising spend only counts when the channel includes
// it in margin.
func ChannelBreakdown(price float64, p models.Product, ch models.Channel) models.CostBreakdown {
	return ComputeBreakdown(BreakdownInput{
		SellingPrice:             price,
		CostPrice:                p.CostPrice,
		DeliveryCost:             p.DeliveryCost,
		CommissionPercent:        ch.CommissionPercent,
		FixedFee:                 ch.FixedFee,
		PaymentProcessingPercent: ch.PaymentProcessingPercent,
		AdvertisingPercent:       ch.AdvertisingPercent(),
		VATPercent:               ch.VATPercent,
		PricesIncludeVAT:         ch.PricesIncludeVAT,
	})
}
