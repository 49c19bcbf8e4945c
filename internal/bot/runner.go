// File: internal/bot/runner.go
// ============================================
package bot

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"order-levels-bot/internal/risk"
	"order-levels-bot/pkg/types"
)

// PriceFetcher returns the last close of a ticker.
type PriceFetcher interface {
	FetchLastClose(ctx context.Context, ticker string) (types.PriceQuote, error)
}

// RateResolver returns base units per one quote unit.
type RateResolver interface {
	Rate(ctx context.Context, quote, base string) (decimal.Decimal, error)
}

// Runner processes the ticker universe one ticker at a time.
type Runner struct {
	config *types.Config
	prices PriceFetcher
	rates  RateResolver
	risk   *risk.Manager
	logger logrus.FieldLogger
}

func NewRunner(config *types.Config, prices PriceFetcher, rates RateResolver, logger logrus.FieldLogger) *Runner {
	return &Runner{
		config: config,
		prices: prices,
		rates:  rates,
		risk:   risk.NewManager(config),
		logger: logger,
	}
}

// Run returns one result per configured ticker, in configuration order.
// A failing ticker never stops the batch.
func (r *Runner) Run(ctx context.Context) []types.TickerResult {
	results := make([]types.TickerResult, 0, len(r.config.Universe.Tickers))
	for _, ticker := range r.config.Universe.Tickers {
		res := r.processTicker(ctx, ticker)

		log := r.logger.WithField("ticker", ticker)
		if res.OK() {
			log.Infof("✅ close %s %s, entry %s, tp %s, sl %s",
				res.Quote.Close, res.Quote.Currency, res.Levels.Entry.StringFixed(4),
				res.Levels.TakeProfit.StringFixed(4), res.Levels.StopLoss.StringFixed(4))
		} else {
			log.Warnf("❌ %v", res.Err)
		}
		results = append(results, res)
	}
	return results
}

func (r *Runner) processTicker(ctx context.Context, ticker string) (res types.TickerResult) {
	res.Ticker = ticker
	defer func() {
		if p := recover(); p != nil {
			res = types.TickerResult{Ticker: ticker, Err: fmt.Errorf("unexpected error: %v", p)}
		}
	}()

	quote, err := r.prices.FetchLastClose(ctx, ticker)
	if err != nil {
		res.Err = err
		return res
	}

	rate, err := r.rates.Rate(ctx, quote.Currency, r.config.General.BaseCurrency)
	if err != nil {
		res.Err = err
		return res
	}

	res.Quote = quote
	res.Levels = r.risk.Levels(quote.Close, rate)
	res.Quantity = r.risk.CalculatePositionSize(res.Levels.Entry, rate)
	return res
}
