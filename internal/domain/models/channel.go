package models

// Channel describes a sales destination and its fee schedule. A channel is
// treated as immutable for the duration of one price evaluation.
type Channel struct {
	ID                         string  `bson:"channel_id" json:"channel_id"`
	Name                       string  `bson:"name" json:"name"`
	CommissionPercent          float64 `bson:"commission_percent" json:"commission_percent"`
	FixedFee                   float64 `bson:"fixed_fee" json:"fixed_fee"`
	PaymentProcessingPercent   float64 `bson:"payment_processing_percent" json:"payment_processing_percent"`
	DefaultAcosPercent         float64 `bson:"default_acos_percent" json:"default_acos_percent"`
	IncludeAdvertisingInMargin bool    `bson:"include_advertising_in_margin" json:"include_advertising_in_margin"`
	VATPercent                 float64 `bson:"vat_percent" json:"vat_percent"`
	PricesIncludeVAT           bool    `bson:"prices_include_vat" json:"prices_include_vat"`
}

// AdvertisingPercent returns the ad-spend percentage that counts toward margin
// calculations: the channel default when ads are margin-relevant, otherwise 0.
func (c Channel) AdvertisingPercent() float64 {
	if c.IncludeAdvertisingInMargin {
		return c.DefaultAcosPercent
	}
	return 0
}
