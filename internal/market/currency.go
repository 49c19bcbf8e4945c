// File: internal/market/currency.go
// ============================================
package market

import (
	"strings"

	"order-levels-bot/internal/config"
)

const defaultCurrency = "USD"

// Exchange suffixes of euro-area listings.
var eurSuffixes = []string{
	".MI", // Milan
	".PA", // Paris
	".DE", // XETRA
	".F",  // Frankfurt
	".AS", // Amsterdam
	".MC", // Madrid
	".BR", // Brussels
	".LS", // Lisbon
	".VI", // Vienna
	".HE", // Helsinki
	".IR", // Dublin
}

// ResolveCurrency prefers the instrument's declared currency and falls
// back to the ticker suffix convention.
func ResolveCurrency(ticker, declared string) string {
	declared = strings.ToUpper(strings.TrimSpace(declared))
	if config.IsCurrencyCode(declared) {
		return declared
	}
	return CurrencyFromSuffix(ticker)
}

// CurrencyFromSuffix guesses the quote currency from the exchange suffix.
func CurrencyFromSuffix(ticker string) string {
	ticker = strings.ToUpper(ticker)
	for _, suffix := range eurSuffixes {
		if strings.HasSuffix(ticker, suffix) {
			return "EUR"
		}
	}
	return defaultCurrency
}
