// File: internal/market/fetcher.go
// ============================================
package market

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"order-levels-bot/internal/strategy"
	"order-levels-bot/pkg/types"
)

// Series is a window of daily bars plus the instrument's declared currency.
type Series struct {
	Symbol   string
	Currency string
	Bars     []types.Bar
}

// BarSource returns the daily bars of symbol between start and end.
type BarSource interface {
	DailyBars(ctx context.Context, symbol string, start, end time.Time) (Series, error)
}

type Fetcher struct {
	source       BarSource
	lookbackDays int
	now          func() time.Time
}

func NewFetcher(source BarSource, lookbackDays int) *Fetcher {
	return &Fetcher{
		source:       source,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// FetchLastClose returns the most recent valid close of ticker.
func (f *Fetcher) FetchLastClose(ctx context.Context, ticker string) (types.PriceQuote, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return types.PriceQuote{}, fmt.Errorf("empty ticker")
	}

	series, err := f.window(ctx, ticker)
	if err != nil {
		return types.PriceQuote{}, err
	}

	valid := validBars(series.Bars)
	if len(valid) == 0 {
		return types.PriceQuote{}, &NoPriceDataError{Ticker: ticker}
	}

	closes := make([]decimal.Decimal, len(valid))
	for i, b := range valid {
		closes[i] = b.Close
	}

	last := valid[len(valid)-1]
	quote := types.PriceQuote{
		Ticker:   ticker,
		Close:    last.Close,
		Currency: ResolveCurrency(ticker, series.Currency),
		AsOf:     last.Date,
		AvgClose: strategy.CalculateSMA(closes, len(closes)),
	}
	if len(valid) > 1 {
		quote.PrevClose = valid[len(valid)-2].Close
	}
	return quote, nil
}

// LastPrice returns the most recent valid close of any symbol, e.g. an FX pair.
func (f *Fetcher) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	series, err := f.window(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	valid := validBars(series.Bars)
	if len(valid) == 0 {
		return decimal.Zero, &NoPriceDataError{Ticker: symbol}
	}
	return valid[len(valid)-1].Close, nil
}

func (f *Fetcher) window(ctx context.Context, symbol string) (Series, error) {
	end := f.now()
	start := end.AddDate(0, 0, -f.lookbackDays)

	series, err := f.source.DailyBars(ctx, symbol, start, end)
	if err != nil {
		return Series{}, fmt.Errorf("failed to fetch bars for %s: %w", symbol, err)
	}
	return series, nil
}

// validBars drops bars without a positive close and orders the rest by date.
func validBars(bars []types.Bar) []types.Bar {
	out := make([]types.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Close.IsPositive() {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
