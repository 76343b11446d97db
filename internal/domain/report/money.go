package report

import "github.com/shopspring/decimal"

// ParseAmount parses an upstream decimal-string monetary value. Missing or
// unparseable values count as zero; a bad price on one order must never sink
// the whole aggregation.
func ParseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
