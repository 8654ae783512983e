package model

import "github.com/shopspring/decimal"

// Subscription conventions. Gross states the pre-fee investment with fees
// added on top; net states the total cash transferred with fees inside.
const (
	ConventionGross = "gross"
	ConventionNet   = "net"
)

// ValidConvention contains the allowed convention values.
var ValidConvention = map[string]bool{
	ConventionGross: true,
	ConventionNet:   true,
}

// FeeTerms is one row of the fee-terms collection, keyed by client reference
// plus fund identifier. Rate fields hold the raw sheet value, which may be
// percentage points (2.0) or a fraction (0.02); normalization happens at the
// merge boundary and the raw value never travels past it. A nil rate means
// the sheet cell was empty and the engine default applies.
type FeeTerms struct {
	ClientRef        string           `json:"clientRef"`
	Fund             string           `json:"fund"`
	Convention       string           `json:"convention"`
	UpfrontRate      *decimal.Decimal `json:"upfrontRate,omitempty"`
	AMCRate          *decimal.Decimal `json:"amcRate,omitempty"`
	CarryRate        *decimal.Decimal `json:"carryRate,omitempty"`
	SubscriptionCode string           `json:"subscriptionCode,omitempty"`
}
