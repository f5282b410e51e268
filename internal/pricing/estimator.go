package pricing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Destination is where a cart would ship to
type Destination struct {
	Country    string
	Region     string
	PostalCode string
}

// Estimate is a tax and shipping quote for a cart subtotal
type Estimate struct {
	Tax      decimal.Decimal
	Shipping decimal.Decimal
}

// Estimator quotes tax and shipping for a subtotal
type Estimator interface {
	Estimate(ctx context.Context, subtotal decimal.Decimal, destination *Destination) (Estimate, error)
}

// FlatRateEstimator applies one tax rate and a flat shipping fee,
// waived once the subtotal reaches FreeShippingThreshold (zero disables the waiver).
type FlatRateEstimator struct {
	TaxRatePercent        decimal.Decimal
	FlatShipping          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

func (e FlatRateEstimator) Estimate(_ context.Context, subtotal decimal.Decimal, _ *Destination) (Estimate, error) {
	tax := round2(subtotal.Mul(e.TaxRatePercent).Div(hundred))

	shipping := e.FlatShipping
	if subtotal.IsZero() {
		shipping = decimal.Zero
	}
	if e.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(e.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Estimate{Tax: tax, Shipping: round2(shipping)}, nil
}

// round2 rounds to currency precision, half away from zero (half-up for prices)
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
