package models

import "time"

// Product is one sellable catalog item as synced from the seller's data sources.
// Cost and sales fields may be absent upstream; zero values mean "unknown" and
// the pricing engine degrades to warnings rather than failing.
type Product struct {
	SKU             string    `bson:"sku" json:"sku"`
	Name            string    `bson:"name" json:"name"`
	Brand           string    `bson:"brand" json:"brand"`
	Category        string    `bson:"category" json:"category"`
	MRP             float64   `bson:"mrp" json:"mrp"` // manufacturer recommended price; 0 = no ceiling
	CurrentPrice    float64   `bson:"current_price" json:"current_price"`
	CostPrice       float64   `bson:"cost_price" json:"cost_price"` // COGS; 0 = unknown
	DeliveryCost    float64   `bson:"delivery_cost" json:"delivery_cost"`
	Stock           int       `bson:"stock" json:"stock"`
	SalesLast7Days  int       `bson:"sales_last_7_days" json:"sales_last_7_days"`
	SalesLast30Days int       `bson:"sales_last_30_days" json:"sales_last_30_days"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// DailySales returns the average unit sales per day over the trailing 7-day window.
func (p Product) DailySales() float64 {
	return float64(p.SalesLast7Days) / 7
}
