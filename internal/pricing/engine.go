package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	"github.com/aureliajewels/aurelia-backend/pkg/types"
)

// Business constants for shipping and tax. Shipping is waived once the
// threshold amount reaches 50,000; below that it is 1% of the subtotal.
// GST is a flat 3% on the pre-tax subtotal.
var (
	ShippingThreshold = decimal.NewFromInt(50000)
	shippingPercent   = decimal.NewFromFloat(0.01)
	gstPercent        = decimal.NewFromFloat(0.03)
	oneHundred        = decimal.NewFromInt(100)
)

// DegradationReason explains why a quote fell back to a zero component
// instead of failing.
type DegradationReason string

const (
	DegradationRateMissing    DegradationReason = "rate_missing"
	DegradationBoxUnavailable DegradationReason = "box_unavailable"
)

// Snapshot is a point-in-time view of the rate table, one rate per metal key.
type Snapshot struct {
	Rates map[enums.MetalKey]decimal.Decimal
}

// Rate returns the rate per gram for the key and whether it was present.
func (s Snapshot) Rate(key enums.MetalKey) (decimal.Decimal, bool) {
	rate, ok := s.Rates[key]
	return rate, ok
}

// Quote is a priced line with the reasons, if any, the computation degraded.
type Quote struct {
	Breakdown types.PriceBreakdown
	Degraded  []DegradationReason
}

// IsDegraded reports whether any component fell back to zero.
func (q Quote) IsDegraded() bool {
	return len(q.Degraded) > 0
}

type options struct {
	orderSubtotal     *decimal.Decimal
	orderLevelContext bool
	boxRate           *decimal.Decimal
}

// Option adjusts a single Price call.
type Option func(*options)

// WithOrderSubtotal supplies the running order subtotal used for the
// shipping threshold check instead of the line's own subtotal.
func WithOrderSubtotal(subtotal decimal.Decimal) Option {
	return func(o *options) {
		o.orderSubtotal = &subtotal
	}
}

// WithOrderLevelShipping marks the call as part of an order whose shipping
// is evaluated once at the order level; line shipping is emitted as zero.
func WithOrderLevelShipping() Option {
	return func(o *options) {
		o.orderLevelContext = true
	}
}

// WithBoxRate supplies the resolved rate of the product's active packaging
// item. Omitting it for a product with a box SKU degrades box charges to zero.
func WithBoxRate(rate decimal.Decimal) Option {
	return func(o *options) {
		o.boxRate = &rate
	}
}

// Price computes the itemized breakdown for one product against a rate
// snapshot. It is pure: identical inputs always produce identical quotes.
// A missing rate or unresolved box prices to zero and tags the quote as
// degraded rather than failing.
func Price(product *models.Product, snapshot Snapshot, opts ...Option) Quote {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	quote := Quote{}

	metalKey := enums.ResolveMetalKey(product.MetalType, product.Purity)
	rate, ok := snapshot.Rate(metalKey)
	if !ok {
		rate = decimal.Zero
		quote.Degraded = append(quote.Degraded, DegradationRateMissing)
	}

	basePrice := round2(rate.Mul(product.WeightGrams))

	var makingCharges decimal.Decimal
	switch product.MakingChargesType {
	case enums.MakingChargesTypePercentage:
		makingCharges = product.MakingChargesValue.Div(oneHundred).Mul(basePrice)
	case enums.MakingChargesTypePerGram:
		makingCharges = product.MakingChargesValue.Mul(product.WeightGrams)
	default:
		makingCharges = product.MakingChargesValue
	}
	makingCharges = round2(makingCharges)

	subtotalBeforeExtras := basePrice.Add(makingCharges)

	boxCharges := decimal.Zero
	if product.BoxSKU != nil && *product.BoxSKU != "" {
		if o.boxRate != nil {
			boxCharges = round2(*o.boxRate)
		} else {
			quote.Degraded = append(quote.Degraded, DegradationBoxUnavailable)
		}
	}

	shippingCharges := decimal.Zero
	if !o.orderLevelContext {
		thresholdAmount := subtotalBeforeExtras
		if o.orderSubtotal != nil {
			thresholdAmount = *o.orderSubtotal
		}
		shippingCharges = ShippingFor(thresholdAmount, subtotalBeforeExtras)
	}

	subtotal := round2(subtotalBeforeExtras.Add(boxCharges))
	gst := round2(subtotal.Mul(gstPercent))
	finalPrice := round2(subtotal.Add(gst).Add(shippingCharges))

	quote.Breakdown = types.PriceBreakdown{
		MetalRate:       round2(rate),
		BasePrice:       basePrice,
		MakingCharges:   makingCharges,
		BoxCharges:      boxCharges,
		ShippingCharges: shippingCharges,
		Subtotal:        subtotal,
		GST:             gst,
		FinalPrice:      finalPrice,
	}
	return quote
}

// ShippingFor returns the shipping charge for an amount, waived when the
// threshold-check amount has reached the free-shipping threshold.
func ShippingFor(thresholdAmount, chargeBase decimal.Decimal) decimal.Decimal {
	if thresholdAmount.GreaterThanOrEqual(ShippingThreshold) {
		return decimal.Zero
	}
	return round2(chargeBase.Mul(shippingPercent))
}

func round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}
