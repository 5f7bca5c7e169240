package types

import "github.com/shopspring/decimal"

// PriceBreakdown itemizes how a line price was computed. Every field is
// rounded to 2 decimal places at computation time; downstream sums operate on
// the already-rounded values.
type PriceBreakdown struct {
	MetalRate       decimal.Decimal `json:"metal_rate"`
	BasePrice       decimal.Decimal `json:"base_price"`
	MakingCharges   decimal.Decimal `json:"making_charges"`
	BoxCharges      decimal.Decimal `json:"box_charges"`
	ShippingCharges decimal.Decimal `json:"shipping_charges"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	GST             decimal.Decimal `json:"gst"`
	FinalPrice      decimal.Decimal `json:"final_price"`
}
