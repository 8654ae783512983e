package engine

import "github.com/shopspring/decimal"

// VATRate is the UK standard rate applied to chargeable fee components. It
// is a fixed constant of the scheme, not overridable per request.
var VATRate = decimal.NewFromFloat(0.20)

// vatPolicy states per fee kind whether VAT applies. Carry is contingent on
// performance and attracts no VAT at subscription time.
type vatPolicy struct {
	upfront    bool
	amcYears13 bool
	amcYears45 bool
	carry      bool
}

var standardVAT = vatPolicy{
	upfront:    true,
	amcYears13: true,
	amcYears45: true,
	carry:      false,
}

// vatFactor returns the multiplier that turns a pre-VAT amount into the
// VAT-inclusive amount, 1 when VAT does not apply.
func vatFactor(applies bool) decimal.Decimal {
	if !applies {
		return one
	}
	return one.Add(VATRate)
}
