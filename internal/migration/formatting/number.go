package formatting

import "github.com/shopspring/decimal"

// CleanDecimal rounds half away from zero to two places and drops trailing
// zeros, so 364.250 and 364.25 compare and serialise identically.
func CleanDecimal(v decimal.Decimal) decimal.Decimal {
	if v.IsZero() {
		return decimal.Zero
	}
	rounded := v.Round(2)
	clean, err := decimal.NewFromString(rounded.String())
	if err != nil {
		return rounded
	}
	return clean
}
