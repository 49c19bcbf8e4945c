// File: internal/market/alpaca.go
// ============================================
package market

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"

	"order-levels-bot/pkg/types"
)

const (
	AlpacaKeyEnv    = "APCA_API_KEY_ID"
	AlpacaSecretEnv = "APCA_API_SECRET_KEY"
)

// AlpacaSource reads daily bars of US equities from Alpaca market data.
// Alpaca only lists USD instruments.
type AlpacaSource struct {
	client *marketdata.Client
}

func NewAlpacaSource(apiKey, apiSecret string) *AlpacaSource {
	return &AlpacaSource{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}
}

func (a *AlpacaSource) DailyBars(ctx context.Context, symbol string, start, end time.Time) (Series, error) {
	if err := ctx.Err(); err != nil {
		return Series{}, err
	}

	raw, err := a.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
		Feed:      marketdata.IEX,
	})
	if err != nil {
		return Series{}, fmt.Errorf("alpaca bars %s: %w", symbol, err)
	}

	bars := make([]types.Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, types.Bar{
			Date:  b.Timestamp.UTC(),
			Close: decimal.NewFromFloat(b.Close),
		})
	}

	return Series{
		Symbol:   symbol,
		Currency: "USD",
		Bars:     bars,
	}, nil
}
