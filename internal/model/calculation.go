package model

import "github.com/shopspring/decimal"

// OverrideSet carries per-request replacements for any subset of the fee
// parameters. Overrides are never persisted; they are scoped to a single
// calculation. Rate values follow the same percentage-point-or-fraction
// convention as the fee sheet and normalize at the merge boundary.
type OverrideSet struct {
	UpfrontRate    *decimal.Decimal `json:"upfrontRate,omitempty"`
	AMCYears13Rate *decimal.Decimal `json:"amcYears13Rate,omitempty"`
	AMCYears45Rate *decimal.Decimal `json:"amcYears45Rate,omitempty"`
	CarryRate      *decimal.Decimal `json:"carryRate,omitempty"`
	SharePrice     *decimal.Decimal `json:"sharePrice,omitempty"`
	Convention     *string          `json:"convention,omitempty"`
	Classification *string          `json:"classification,omitempty"`
	ShareClass     *string          `json:"shareClass,omitempty"`
	ShareQuantity  *decimal.Decimal `json:"shareQuantity,omitempty"`
}

// EffectiveParameters is the fully-resolved input to the calculator. All
// rates are canonical fractions of one; AMC rates are annual, multiplied by
// their year counts inside the calculator. ShareQuantity is non-nil only
// when a request pinned the reported quantity.
type EffectiveParameters struct {
	Convention     string
	SharePrice     decimal.Decimal
	UpfrontRate    decimal.Decimal
	AMCYears13Rate decimal.Decimal
	AMCYears45Rate decimal.Decimal
	CarryRate      decimal.Decimal
	Classification string
	ShareClass     string
	ShareQuantity  *decimal.Decimal
}

// FeeLine is one fee component of a calculation. Rate is the annual (or
// one-off) rate as a fraction of one; Years is the number of years an annual
// charge covers, zero for one-off components. Amount is the full charge for
// the covered period before VAT; Total adds VAT where it applies. Contingent
// lines (carry) are excluded from total fees and total transfer.
type FeeLine struct {
	Rate       decimal.Decimal `json:"rate"`
	Years      int             `json:"years,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	VAT        decimal.Decimal `json:"vat"`
	Total      decimal.Decimal `json:"total"`
	Contingent bool            `json:"contingent,omitempty"`
}

// ShareRecommendation is the nearest whole-share quantity at or below the
// exact quantity, with the investment figure that buys exactly that many
// shares. A recommendation only; never auto-applied.
type ShareRecommendation struct {
	Shares     decimal.Decimal `json:"shares"`
	Investment decimal.Decimal `json:"investment"`
}

// ShareQuantity carries the exact derived quantity and, when the exact value
// is not a whole number, a rounding recommendation.
type ShareQuantity struct {
	Exact       decimal.Decimal      `json:"exact"`
	Recommended *ShareRecommendation `json:"recommended,omitempty"`
}

// CalculationResult holds every figure derived for one request. All decimals
// are full precision; rounding to two places happens only at presentation
// boundaries. Results are produced once per request and never mutated.
type CalculationResult struct {
	Convention    string          `json:"convention"`
	StatedAmount  decimal.Decimal `json:"statedAmount"`
	Investment    decimal.Decimal `json:"investment"`
	Upfront       FeeLine         `json:"upfront"`
	AMCYears13    FeeLine         `json:"amcYears13"`
	AMCYears45    FeeLine         `json:"amcYears45"`
	Carry         FeeLine         `json:"carry"`
	TotalFees     decimal.Decimal `json:"totalFees"`
	TotalTransfer decimal.Decimal `json:"totalTransfer"`
	Shares        ShareQuantity   `json:"shares"`
}

// RoundCurrency rounds a monetary value to two decimal places using
// round-half-to-even, the presentation-boundary policy for all figures that
// appear on letters, API responses, and audit rows.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}
