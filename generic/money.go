package generic

import "github.com/shopspring/decimal"

// =============================================================================
// MONEY - Euro amounts as decimals
// =============================================================================
//
// All monetary arithmetic runs on decimal.Decimal at full precision. Rounding
// happens in exactly one place, RoundCents, and only at row boundaries
// (a per-type row, a monthly row, a total). decimal's Round is half away from
// zero: 0.125 -> 0.13 and -0.125 -> -0.13.

// CentPlaces is the number of decimal places kept for euro amounts.
const CentPlaces = 2

// RoundCents rounds an amount to whole cents, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(CentPlaces)
}

// Euro converts a float literal to a decimal amount.
func Euro(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// MustParseDecimal parses s, returning zero on malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SafeDiv returns num/den, or zero when den is zero.
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// Sum adds the amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
