// File: internal/market/yahoo.go
// ============================================
package market

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"order-levels-bot/pkg/types"
)

// YahooSource reads daily bars from the Yahoo Finance chart endpoint.
// Equities and FX pairs ("EURUSD=X") share the same endpoint.
type YahooSource struct {
	limiter *rate.Limiter
	logger  logrus.FieldLogger
}

func NewYahooSource(requestsPerSecond float64, logger logrus.FieldLogger) *YahooSource {
	return &YahooSource{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:  logger,
	}
}

func (y *YahooSource) DailyBars(ctx context.Context, symbol string, start, end time.Time) (Series, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return Series{}, err
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	bars := make([]types.Bar, 0)
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, types.Bar{
			Date:  time.Unix(int64(bar.Timestamp), 0).UTC(),
			Close: bar.Close,
		})
	}
	if err := iter.Err(); err != nil {
		return Series{}, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	meta := iter.Meta()
	y.logger.Debugf("yahoo %s: %d bars, currency %q", symbol, len(bars), meta.Currency)

	return Series{
		Symbol:   symbol,
		Currency: meta.Currency,
		Bars:     bars,
	}, nil
}
