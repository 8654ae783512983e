// Package engine is the calculation core: resolving a request against the
// record snapshot, merging fee-sheet terms with per-request overrides, and
// deriving the full monetary breakdown for a subscription. Everything here
// is a pure function over immutable inputs; concurrent calls are safe.
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// Years covered by the two AMC periods. The sheet states annual rates; each
// period is charged up front for all its years.
const (
	amcYears13 = 3
	amcYears45 = 2
)

// Calculate derives every monetary figure for one subscription from fully
// resolved parameters and the stated amount. Under the gross convention the
// stated amount is the pre-fee principal; under net it is the total cash
// transferred, and the principal is solved out of it. All arithmetic is
// full precision; rounding belongs to presentation boundaries.
func Calculate(params model.EffectiveParameters, amount decimal.Decimal) (model.CalculationResult, error) {
	if !amount.IsPositive() {
		return model.CalculationResult{}, fmt.Errorf("%w: %s", apperrors.ErrNonPositiveAmount, amount)
	}
	if !params.SharePrice.IsPositive() {
		return model.CalculationResult{}, fmt.Errorf("%w: %s", apperrors.ErrNonPositiveSharePrice, params.SharePrice)
	}
	if err := checkRates(params); err != nil {
		return model.CalculationResult{}, err
	}

	principal := amount
	if params.Convention == model.ConventionNet {
		var err error
		principal, err = solveNetPrincipal(params, amount)
		if err != nil {
			return model.CalculationResult{}, err
		}
	}

	upfront := feeLine(principal, params.UpfrontRate, 0, standardVAT.upfront)
	amc13 := feeLine(principal, params.AMCYears13Rate, amcYears13, standardVAT.amcYears13)
	amc45 := feeLine(principal, params.AMCYears45Rate, amcYears45, standardVAT.amcYears45)
	carry := feeLine(principal, params.CarryRate, 0, standardVAT.carry)
	carry.Contingent = true

	totalFees := upfront.Total.Add(amc13.Total).Add(amc45.Total)

	// Net states the transfer, so it is reproduced exactly; gross adds the
	// fees on top of the principal.
	totalTransfer := amount
	if params.Convention != model.ConventionNet {
		totalTransfer = principal.Add(totalFees)
	}

	return model.CalculationResult{
		Convention:    params.Convention,
		StatedAmount:  amount,
		Investment:    principal,
		Upfront:       upfront,
		AMCYears13:    amc13,
		AMCYears45:    amc45,
		Carry:         carry,
		TotalFees:     totalFees,
		TotalTransfer: totalTransfer,
		Shares:        deriveShares(params, principal),
	}, nil
}

func checkRates(params model.EffectiveParameters) error {
	rates := []struct {
		name  string
		value decimal.Decimal
	}{
		{"upfront", params.UpfrontRate},
		{"amcYears13", params.AMCYears13Rate},
		{"amcYears45", params.AMCYears45Rate},
		{"carry", params.CarryRate},
	}
	for _, r := range rates {
		if r.value.IsNegative() || r.value.GreaterThan(one) {
			return fmt.Errorf("%w: %s rate %s", apperrors.ErrRateOutOfRange, r.name, r.value)
		}
	}
	return nil
}

// feeLine computes one fee component off the invested principal. Annual
// rates multiply over their covered years; one-off components pass years 0.
func feeLine(principal, annualRate decimal.Decimal, years int, vatable bool) model.FeeLine {
	amount := principal.Mul(annualRate)
	if years > 0 {
		amount = amount.Mul(decimal.NewFromInt(int64(years)))
	}
	vat := decimal.Zero
	if vatable {
		vat = amount.Mul(VATRate)
	}
	return model.FeeLine{
		Rate:   annualRate,
		Years:  years,
		Amount: amount,
		VAT:    vat,
		Total:  amount.Add(vat),
	}
}

// solveNetPrincipal inverts the fee load: amount = principal × (1 + load),
// where load sums every immediate fee rate with its VAT factor over its
// covered years. Carry is contingent and never part of the transfer, so it
// stays out of the load.
func solveNetPrincipal(params model.EffectiveParameters, stated decimal.Decimal) (decimal.Decimal, error) {
	load := params.UpfrontRate.Mul(vatFactor(standardVAT.upfront)).
		Add(params.AMCYears13Rate.Mul(decimal.NewFromInt(amcYears13)).Mul(vatFactor(standardVAT.amcYears13))).
		Add(params.AMCYears45Rate.Mul(decimal.NewFromInt(amcYears45)).Mul(vatFactor(standardVAT.amcYears45)))

	if load.GreaterThanOrEqual(one) {
		return decimal.Decimal{}, fmt.Errorf("%w: combined fee load %s", apperrors.ErrUnsolvableNetConvention, load)
	}
	principal := stated.Div(one.Add(load))
	if !principal.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: derived principal %s", apperrors.ErrUnsolvableNetConvention, principal)
	}
	return principal, nil
}

// deriveShares divides the invested principal by the share price at full
// precision. A non-integral result additionally carries the nearest whole
// quantity at or below it, with the investment that buys exactly that many
// shares. A pinned quantity skips derivation entirely.
func deriveShares(params model.EffectiveParameters, principal decimal.Decimal) model.ShareQuantity {
	if params.ShareQuantity != nil {
		return model.ShareQuantity{Exact: *params.ShareQuantity}
	}

	exact := principal.Div(params.SharePrice)
	shares := model.ShareQuantity{Exact: exact}
	if !exact.IsInteger() {
		whole := exact.Floor()
		shares.Recommended = &model.ShareRecommendation{
			Shares:     whole,
			Investment: whole.Mul(params.SharePrice),
		}
	}
	return shares
}
