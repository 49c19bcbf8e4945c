// File: internal/strategy/indicators.go
// ============================================
package strategy

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateSMA - Simple Moving Average of the last period prices
func CalculateSMA(prices []decimal.Decimal, period int) decimal.Decimal {
	if period <= 0 || len(prices) < period {
		return decimal.Zero
	}

	sum := decimal.Zero
	for i := len(prices) - period; i < len(prices); i++ {
		sum = sum.Add(prices[i])
	}
	return sum.Div(decimal.NewFromInt(int64(period)))
}

// PercentChange - (to - from) / from in percent. ok is false when from is not positive.
func PercentChange(from, to decimal.Decimal) (pct decimal.Decimal, ok bool) {
	if !from.IsPositive() {
		return decimal.Zero, false
	}
	return to.Sub(from).Div(from).Mul(hundred), true
}
