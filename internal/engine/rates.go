package engine

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Scheme defaults, applied when neither an override nor the fee sheet
// states a rate. AMC rates are annual; the calculator multiplies them over
// their covered years.
var (
	DefaultUpfrontRate    = decimal.NewFromFloat(0.015)
	DefaultAMCYears13Rate = decimal.NewFromFloat(0.02)
	DefaultAMCYears45Rate = decimal.NewFromFloat(0.015)
	DefaultCarryRate      = decimal.NewFromFloat(0.20)
)

// NormalizeRate maps a human-entered rate onto a canonical fraction of one.
// Values above 1 are read as percentage points (2 -> 0.02); values at or
// below 1 are already fractions (0.02 -> 0.02). Exactly 1 stays 1, so 100
// and 1.0 both mean 100%.
func NormalizeRate(v decimal.Decimal) decimal.Decimal {
	if v.GreaterThan(one) {
		return v.Div(hundred)
	}
	return v
}
