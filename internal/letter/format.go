package letter

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

var hundred = decimal.NewFromInt(100)

// FormatGBP renders a monetary value as pounds sterling with symbol and
// thousands grouping, rounded to pennies at this presentation boundary.
func FormatGBP(d decimal.Decimal) string {
	pence := model.RoundCurrency(d).Shift(2).IntPart()
	return money.New(pence, money.GBP).Display()
}

// FormatPercent renders a canonical fraction as percentage points without
// trailing zeros, so 0.02 prints as 2 and 0.015 as 1.5.
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(hundred).String()
}

// FormatQuantity renders a share quantity with thousands grouping,
// preserving any fractional part.
func FormatQuantity(d decimal.Decimal) string {
	s := d.String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
