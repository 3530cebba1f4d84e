package models

// CostBreakdown is the full margin decomposition of one selling price against a
// channel fee schedule. It is a derived value, recomputed fresh for every price
// under consideration and never cached across prices.
type CostBreakdown struct {
	SellingPrice      float64 `bson:"selling_price" json:"selling_price"`
	VATAmount         float64 `bson:"vat_amount" json:"vat_amount"`
	PriceExVAT        float64 `bson:"price_ex_vat" json:"price_ex_vat"`
	CostPrice         float64 `bson:"cost_price" json:"cost_price"`
	DeliveryCost      float64 `bson:"delivery_cost" json:"delivery_cost"`
	ChannelCommission float64 `bson:"channel_commission" json:"channel_commission"`
	FixedFee          float64 `bson:"fixed_fee" json:"fixed_fee"`
	PaymentProcessing float64 `bson:"payment_processing" json:"payment_processing"`
	AdvertisingCost   float64 `bson:"advertising_cost" json:"advertising_cost"`
	TotalCosts        float64 `bson:"total_costs" json:"total_costs"`
	NetProfit         float64 `bson:"net_profit" json:"net_profit"` // PPO: profit per order
	MarginPercent     float64 `bson:"margin_percent" json:"margin_percent"`
}
