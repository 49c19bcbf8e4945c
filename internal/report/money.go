// File: internal/report/money.go
// ============================================
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ten  = decimal.NewFromInt(10)
	unit = decimal.NewFromInt(1)
)

// Precision returns the display decimals for an amount: sub-unit prices
// get more digits.
func Precision(v decimal.Decimal) int32 {
	abs := v.Abs()
	switch {
	case abs.GreaterThanOrEqual(ten):
		return 2
	case abs.GreaterThanOrEqual(unit):
		return 4
	default:
		return 6
	}
}

// FormatAmount renders v with magnitude-dependent precision.
func FormatAmount(v decimal.Decimal) string {
	return v.StringFixed(Precision(v))
}

// FormatMoney renders v followed by its currency code.
func FormatMoney(v decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", FormatAmount(v), currency)
}

// FormatPct renders a signed percentage with two decimals.
func FormatPct(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}
