package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// Merge combines the resolved records with per-request overrides into a
// fully-resolved parameter set. Precedence per field is override, then fee
// sheet or record, then scheme default. Rates normalize here; nothing past
// this boundary sees a raw percentage-point value.
func Merge(investor model.InvestorRecord, company model.CompanyRecord, terms model.FeeTerms, overrides *model.OverrideSet) (model.EffectiveParameters, error) {
	if overrides == nil {
		overrides = &model.OverrideSet{}
	}
	if err := validateOverrides(overrides); err != nil {
		return model.EffectiveParameters{}, err
	}

	params := model.EffectiveParameters{
		UpfrontRate:    pickRate(overrides.UpfrontRate, terms.UpfrontRate, DefaultUpfrontRate),
		AMCYears13Rate: pickRate(overrides.AMCYears13Rate, terms.AMCRate, DefaultAMCYears13Rate),
		AMCYears45Rate: pickRate(overrides.AMCYears45Rate, nil, DefaultAMCYears45Rate),
		CarryRate:      pickRate(overrides.CarryRate, terms.CarryRate, DefaultCarryRate),
		SharePrice:     company.SharePrice,
		Convention:     model.ConventionGross,
		Classification: model.ClassificationRetail,
		ShareClass:     model.ShareClassOrdinary,
	}

	if overrides.SharePrice != nil {
		params.SharePrice = *overrides.SharePrice
	}

	switch {
	case overrides.Convention != nil:
		params.Convention = *overrides.Convention
	case terms.Convention != "":
		params.Convention = terms.Convention
	}

	switch {
	case overrides.Classification != nil:
		params.Classification = *overrides.Classification
	case investor.Classification != "":
		params.Classification = investor.Classification
	}

	switch {
	case overrides.ShareClass != nil:
		params.ShareClass = *overrides.ShareClass
	case company.ShareClass != "":
		params.ShareClass = company.ShareClass
	}

	if overrides.ShareQuantity != nil {
		quantity := *overrides.ShareQuantity
		params.ShareQuantity = &quantity
	}

	return params, nil
}

func validateOverrides(o *model.OverrideSet) error {
	rateFields := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"upfrontRate", o.UpfrontRate},
		{"amcYears13Rate", o.AMCYears13Rate},
		{"amcYears45Rate", o.AMCYears45Rate},
		{"carryRate", o.CarryRate},
	}
	for _, f := range rateFields {
		if f.value != nil && f.value.IsNegative() {
			return &apperrors.InvalidOverrideError{Field: f.name, Reason: "must not be negative"}
		}
	}

	if o.SharePrice != nil && !o.SharePrice.IsPositive() {
		return &apperrors.InvalidOverrideError{Field: "sharePrice", Reason: "must be positive"}
	}
	if o.ShareQuantity != nil && !o.ShareQuantity.IsPositive() {
		return &apperrors.InvalidOverrideError{Field: "shareQuantity", Reason: "must be positive"}
	}
	if o.Convention != nil && !model.ValidConvention[*o.Convention] {
		return &apperrors.InvalidOverrideError{Field: "convention", Reason: "must be gross or net"}
	}
	if o.Classification != nil && !model.ValidClassification[*o.Classification] {
		return &apperrors.InvalidOverrideError{Field: "classification", Reason: fmt.Sprintf("unknown classification %q", *o.Classification)}
	}
	if o.ShareClass != nil && !model.ValidShareClass[*o.ShareClass] {
		return &apperrors.InvalidOverrideError{Field: "shareClass", Reason: fmt.Sprintf("unknown share class %q", *o.ShareClass)}
	}
	return nil
}

// pickRate resolves one rate field. Overrides and sheet values may arrive
// as percentage points or fractions and normalize here; scheme defaults are
// already canonical.
func pickRate(override, sheet *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	switch {
	case override != nil:
		return NormalizeRate(*override)
	case sheet != nil:
		return NormalizeRate(*sheet)
	default:
		return fallback
	}
}
