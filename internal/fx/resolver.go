// File: internal/fx/resolver.go
// ============================================
package fx

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var one = decimal.NewFromInt(1)

// PriceSource returns the last price of a synthetic pair symbol.
type PriceSource interface {
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Strategy is one quoting convention for a currency pair.
type Strategy struct {
	Name string
	// Symbol builds the pair symbol for quote/base.
	Symbol func(quote, base string) string
	// Rate turns the pair price into base units per quote unit.
	Rate func(price decimal.Decimal) decimal.Decimal
}

// Direct pair: units of quote per one base, e.g. EURUSD=X for USD->EUR.
var Direct = Strategy{
	Name:   "direct",
	Symbol: func(quote, base string) string { return base + quote + "=X" },
	Rate:   func(price decimal.Decimal) decimal.Decimal { return one.Div(price) },
}

// Inverse pair: units of base per one quote, e.g. USDEUR=X for USD->EUR.
var Inverse = Strategy{
	Name:   "inverse",
	Symbol: func(quote, base string) string { return quote + base + "=X" },
	Rate:   func(price decimal.Decimal) decimal.Decimal { return price },
}

// DefaultStrategies is the lookup order used by NewResolver.
var DefaultStrategies = []Strategy{Direct, Inverse}

// UnavailableError means no strategy produced a usable quote.
type UnavailableError struct {
	Quote string
	Base  string
	Err   error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no fx rate %s->%s: %v", e.Quote, e.Base, e.Err)
	}
	return fmt.Sprintf("no fx rate %s->%s", e.Quote, e.Base)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

type pair struct{ quote, base string }

// Resolver converts quote-currency amounts into the base currency. Rates
// are cached for the lifetime of the resolver.
type Resolver struct {
	source     PriceSource
	strategies []Strategy
	cache      map[pair]decimal.Decimal
	logger     logrus.FieldLogger
}

func NewResolver(source PriceSource, logger logrus.FieldLogger, strategies ...Strategy) *Resolver {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}
	return &Resolver{
		source:     source,
		strategies: strategies,
		cache:      make(map[pair]decimal.Decimal),
		logger:     logger,
	}
}

// Rate returns base units per one quote unit.
func (r *Resolver) Rate(ctx context.Context, quote, base string) (decimal.Decimal, error) {
	quote = strings.ToUpper(strings.TrimSpace(quote))
	base = strings.ToUpper(strings.TrimSpace(base))
	if quote == base {
		return one, nil
	}

	key := pair{quote, base}
	if rate, ok := r.cache[key]; ok {
		return rate, nil
	}

	var lastErr error
	for _, s := range r.strategies {
		symbol := s.Symbol(quote, base)
		price, err := r.source.LastPrice(ctx, symbol)
		if err != nil {
			r.logger.Debugf("fx %s/%s via %s (%s) failed: %v", quote, base, s.Name, symbol, err)
			lastErr = err
			continue
		}
		if !price.IsPositive() {
			lastErr = fmt.Errorf("%s quoted %s", symbol, price)
			continue
		}

		rate := s.Rate(price)
		r.logger.Debugf("fx %s/%s = %s via %s (%s)", quote, base, rate, s.Name, symbol)
		r.cache[key] = rate
		return rate, nil
	}

	return decimal.Zero, &UnavailableError{Quote: quote, Base: base, Err: lastErr}
}
