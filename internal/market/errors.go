// File: internal/market/errors.go
// ============================================
package market

import "fmt"

// NoPriceDataError means the queried window held no bar with a valid close.
type NoPriceDataError struct {
	Ticker string
}

func (e *NoPriceDataError) Error() string {
	return fmt.Sprintf("no price data for %s", e.Ticker)
}
