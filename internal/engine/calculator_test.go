package engine_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/engine"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func grossParams() model.EffectiveParameters {
	return model.EffectiveParameters{
		Convention:     model.ConventionGross,
		SharePrice:     dec("0.50"),
		UpfrontRate:    dec("0.02"),
		AMCYears13Rate: dec("0.02"),
		AMCYears45Rate: dec("0.015"),
		CarryRate:      dec("0.20"),
		Classification: model.ClassificationRetail,
		ShareClass:     model.ShareClassOrdinary,
	}
}

// TestCalculate_GrossConvention tests the gross fee breakdown.
//
// WHY: Gross is the reference convention: every component is a plain
// percentage of the stated amount, so the figures here anchor the whole
// calculator. A 50,000 subscription at 2% upfront with 20% VAT must charge
// exactly 1,000.00 before VAT and 1,200.00 after.
func TestCalculate_GrossConvention(t *testing.T) {
	t.Run("computes all components from the stated amount", func(t *testing.T) {
		// Setup
		params := grossParams()

		// Execute
		result, err := engine.Calculate(params, dec("50000"))

		// Assert
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !result.Investment.Equal(dec("50000")) {
			t.Errorf("Expected investment 50000, got %s", result.Investment)
		}
		if !result.Upfront.Amount.Equal(dec("1000")) {
			t.Errorf("Expected upfront 1000, got %s", result.Upfront.Amount)
		}
		if !result.Upfront.VAT.Equal(dec("200")) {
			t.Errorf("Expected upfront VAT 200, got %s", result.Upfront.VAT)
		}
		if !result.Upfront.Total.Equal(dec("1200")) {
			t.Errorf("Expected upfront with VAT 1200, got %s", result.Upfront.Total)
		}

		// Annual 2% over three years, then 1.5% over two.
		if !result.AMCYears13.Amount.Equal(dec("3000")) {
			t.Errorf("Expected AMC years 1-3 amount 3000, got %s", result.AMCYears13.Amount)
		}
		if !result.AMCYears13.Total.Equal(dec("3600")) {
			t.Errorf("Expected AMC years 1-3 with VAT 3600, got %s", result.AMCYears13.Total)
		}
		if !result.AMCYears45.Amount.Equal(dec("1500")) {
			t.Errorf("Expected AMC years 4-5 amount 1500, got %s", result.AMCYears45.Amount)
		}
		if !result.AMCYears45.Total.Equal(dec("1800")) {
			t.Errorf("Expected AMC years 4-5 with VAT 1800, got %s", result.AMCYears45.Total)
		}

		if !result.TotalFees.Equal(dec("6600")) {
			t.Errorf("Expected total fees 6600, got %s", result.TotalFees)
		}
		if !result.TotalTransfer.Equal(dec("56600")) {
			t.Errorf("Expected total transfer 56600, got %s", result.TotalTransfer)
		}
	})

	t.Run("carry is contingent, VAT-free, and outside the totals", func(t *testing.T) {
		result, err := engine.Calculate(grossParams(), dec("50000"))
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !result.Carry.Contingent {
			t.Error("Expected carry to be contingent")
		}
		if !result.Carry.Amount.Equal(dec("10000")) {
			t.Errorf("Expected carry amount 10000, got %s", result.Carry.Amount)
		}
		if !result.Carry.VAT.IsZero() {
			t.Errorf("Expected no VAT on carry, got %s", result.Carry.VAT)
		}
		if result.TotalTransfer.GreaterThanOrEqual(dec("60000")) {
			t.Error("Expected carry to be excluded from the transfer")
		}
	})

	t.Run("zero rates produce zero fee lines", func(t *testing.T) {
		params := grossParams()
		params.UpfrontRate = decimal.Zero
		params.AMCYears13Rate = decimal.Zero
		params.AMCYears45Rate = decimal.Zero
		params.CarryRate = decimal.Zero

		result, err := engine.Calculate(params, dec("50000"))
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !result.TotalFees.IsZero() {
			t.Errorf("Expected zero fees, got %s", result.TotalFees)
		}
		if !result.TotalTransfer.Equal(dec("50000")) {
			t.Errorf("Expected transfer to equal the amount, got %s", result.TotalTransfer)
		}
	})
}

// TestCalculate_NetConvention tests principal derivation from a
// fee-inclusive total.
//
// WHY: Net is the inverse problem: the stated amount already contains the
// fees, and the calculator must solve for the principal such that principal
// plus fees reproduces the stated total. The round-trip property is the
// contract here.
func TestCalculate_NetConvention(t *testing.T) {
	netParams := func() model.EffectiveParameters {
		p := grossParams()
		p.Convention = model.ConventionNet
		return p
	}

	t.Run("derived principal plus fees reproduces the stated amount", func(t *testing.T) {
		stated := dec("50000")

		result, err := engine.Calculate(netParams(), stated)
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !result.Investment.LessThan(stated) {
			t.Errorf("Expected derived principal below the stated amount, got %s", result.Investment)
		}

		roundTrip := result.Investment.
			Add(result.Upfront.Total).
			Add(result.AMCYears13.Total).
			Add(result.AMCYears45.Total)
		diff := roundTrip.Sub(stated).Abs()
		if diff.GreaterThan(dec("0.01")) {
			t.Errorf("Round trip off by %s: principal %s, reproduced %s", diff, result.Investment, roundTrip)
		}
	})

	t.Run("total transfer is the stated amount", func(t *testing.T) {
		stated := dec("25000")

		result, err := engine.Calculate(netParams(), stated)
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !result.TotalTransfer.Equal(stated) {
			t.Errorf("Expected transfer %s, got %s", stated, result.TotalTransfer)
		}
		if !result.StatedAmount.Equal(stated) {
			t.Errorf("Expected stated amount %s, got %s", stated, result.StatedAmount)
		}
	})

	t.Run("fee components are computed from the derived principal", func(t *testing.T) {
		result, err := engine.Calculate(netParams(), dec("50000"))
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		wantUpfront := result.Investment.Mul(dec("0.02"))
		if !result.Upfront.Amount.Equal(wantUpfront) {
			t.Errorf("Expected upfront %s, got %s", wantUpfront, result.Upfront.Amount)
		}
	})

	t.Run("round trip holds across amounts", func(t *testing.T) {
		for _, amount := range []string{"100", "999.99", "12345.67", "1000000"} {
			stated := dec(amount)
			result, err := engine.Calculate(netParams(), stated)
			if err != nil {
				t.Fatalf("Calculate(%s) returned unexpected error: %v", amount, err)
			}

			roundTrip := result.Investment.
				Add(result.Upfront.Total).
				Add(result.AMCYears13.Total).
				Add(result.AMCYears45.Total)
			if roundTrip.Sub(stated).Abs().GreaterThan(dec("0.01")) {
				t.Errorf("Round trip for %s off: reproduced %s", amount, roundTrip)
			}
		}
	})

	t.Run("fails when the combined fee load reaches 100%", func(t *testing.T) {
		params := netParams()
		params.UpfrontRate = dec("0.9")

		_, err := engine.Calculate(params, dec("50000"))
		if !errors.Is(err, apperrors.ErrUnsolvableNetConvention) {
			t.Errorf("Expected ErrUnsolvableNetConvention, got %v", err)
		}
	})
}

// TestCalculate_ShareQuantity tests share derivation and the whole-share
// recommendation.
//
// WHY: Share registers only hold whole shares. The exact quantity must stay
// full precision, and a fractional result must carry the nearest whole
// quantity below it with the investment that buys exactly that many, as a
// recommendation the caller may ignore.
func TestCalculate_ShareQuantity(t *testing.T) {
	params := func(price string) model.EffectiveParameters {
		p := grossParams()
		p.SharePrice = dec(price)
		return p
	}

	t.Run("integral quantity has no recommendation", func(t *testing.T) {
		result, err := engine.Calculate(params("0.05"), dec("10000.00"))
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !result.Shares.Exact.Equal(dec("200000")) {
			t.Errorf("Expected exactly 200000 shares, got %s", result.Shares.Exact)
		}
		if result.Shares.Recommended != nil {
			t.Errorf("Expected no recommendation, got %+v", result.Shares.Recommended)
		}
	})

	t.Run("fractional quantity carries a floor recommendation", func(t *testing.T) {
		result, err := engine.Calculate(params("0.05"), dec("10050.33"))
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !result.Shares.Exact.Equal(dec("201006.6")) {
			t.Errorf("Expected exact quantity 201006.6, got %s", result.Shares.Exact)
		}
		if result.Shares.Recommended == nil {
			t.Fatal("Expected a recommendation for the fractional quantity")
		}
		if !result.Shares.Recommended.Shares.Equal(dec("201006")) {
			t.Errorf("Expected recommended 201006 shares, got %s", result.Shares.Recommended.Shares)
		}
		if !result.Shares.Recommended.Investment.Equal(dec("10050.30")) {
			t.Errorf("Expected adjusted investment 10050.30, got %s", result.Shares.Recommended.Investment)
		}
	})

	t.Run("net convention derives shares from the net principal", func(t *testing.T) {
		p := params("0.05")
		p.Convention = model.ConventionNet

		result, err := engine.Calculate(p, dec("10000.00"))
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		want := result.Investment.Div(dec("0.05"))
		if !result.Shares.Exact.Equal(want) {
			t.Errorf("Expected shares %s, got %s", want, result.Shares.Exact)
		}
	})

	t.Run("pinned quantity skips derivation", func(t *testing.T) {
		p := params("0.05")
		pinned := dec("150000")
		p.ShareQuantity = &pinned

		result, err := engine.Calculate(p, dec("10000.00"))
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !result.Shares.Exact.Equal(pinned) {
			t.Errorf("Expected pinned quantity 150000, got %s", result.Shares.Exact)
		}
		if result.Shares.Recommended != nil {
			t.Errorf("Expected no recommendation for a pinned quantity, got %+v", result.Shares.Recommended)
		}
	})
}

// TestCalculate_Guards tests input validation.
//
// WHY: A calculation either yields a fully valid result or a typed error.
// Invalid amounts, prices, and out-of-range rates must fail before any
// arithmetic happens.
func TestCalculate_Guards(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.EffectiveParameters)
		amount  string
		wantErr error
	}{
		{
			name:    "zero amount",
			amount:  "0",
			wantErr: apperrors.ErrNonPositiveAmount,
		},
		{
			name:    "negative amount",
			amount:  "-100",
			wantErr: apperrors.ErrNonPositiveAmount,
		},
		{
			name:    "zero share price",
			mutate:  func(p *model.EffectiveParameters) { p.SharePrice = decimal.Zero },
			amount:  "1000",
			wantErr: apperrors.ErrNonPositiveSharePrice,
		},
		{
			name:    "rate above one",
			mutate:  func(p *model.EffectiveParameters) { p.AMCYears13Rate = dec("1.5") },
			amount:  "1000",
			wantErr: apperrors.ErrRateOutOfRange,
		},
		{
			name:    "negative rate",
			mutate:  func(p *model.EffectiveParameters) { p.CarryRate = dec("-0.1") },
			amount:  "1000",
			wantErr: apperrors.ErrRateOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := grossParams()
			if tt.mutate != nil {
				tt.mutate(&params)
			}

			_, err := engine.Calculate(params, dec(tt.amount))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestCalculate_Idempotence tests that identical inputs produce identical
// results.
//
// WHY: Results feed regulator-facing letters; the same request against the
// same snapshot must never drift between runs.
func TestCalculate_Idempotence(t *testing.T) {
	for _, convention := range []string{model.ConventionGross, model.ConventionNet} {
		params := grossParams()
		params.Convention = convention

		first, err := engine.Calculate(params, dec("12345.67"))
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}
		second, err := engine.Calculate(params, dec("12345.67"))
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s results differ between identical runs:\n%+v\n%+v", convention, first, second)
		}
	}
}
