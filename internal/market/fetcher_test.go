package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-levels-bot/pkg/types"
)

type fakeSource struct {
	series map[string]Series
	err    error
	calls  []string
	start  time.Time
	end    time.Time
}

func (f *fakeSource) DailyBars(_ context.Context, symbol string, start, end time.Time) (Series, error) {
	f.calls = append(f.calls, symbol)
	f.start, f.end = start, end
	if f.err != nil {
		return Series{}, f.err
	}
	return f.series[symbol], nil
}

func day(n int) time.Time {
	return time.Date(2026, 10, n, 0, 0, 0, 0, time.UTC)
}

func bar(n int, close string) types.Bar {
	return types.Bar{Date: day(n), Close: decimal.RequireFromString(close)}
}

func newTestFetcher(src BarSource) *Fetcher {
	f := NewFetcher(src, 10)
	f.now = func() time.Time { return day(17) }
	return f
}

func TestFetchLastClose_SkipsMissingTrailingBars(t *testing.T) {
	src := &fakeSource{series: map[string]Series{
		"AAPL": {Currency: "USD", Bars: []types.Bar{
			bar(13, "98"), bar(14, "99.5"), bar(15, "100"), bar(16, "0"),
		}},
	}}

	q, err := newTestFetcher(src).FetchLastClose(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", q.Ticker)
	assert.True(t, q.Close.Equal(decimal.NewFromInt(100)))
	assert.True(t, q.PrevClose.Equal(decimal.RequireFromString("99.5")))
	assert.InDelta(t, 99.1666666, q.AvgClose.InexactFloat64(), 1e-6)
	assert.Equal(t, day(15), q.AsOf)
	assert.Equal(t, "USD", q.Currency)

	assert.Equal(t, day(7), src.start)
	assert.Equal(t, day(17), src.end)
}

func TestFetchLastClose_UnorderedBars(t *testing.T) {
	src := &fakeSource{series: map[string]Series{
		"ENI.MI": {Bars: []types.Bar{bar(16, "14.2"), bar(14, "14.0")}},
	}}

	q, err := newTestFetcher(src).FetchLastClose(context.Background(), "ENI.MI")
	require.NoError(t, err)
	assert.True(t, q.Close.Equal(decimal.RequireFromString("14.2")))
	assert.Equal(t, "EUR", q.Currency, "suffix fallback when metadata has no currency")
}

func TestFetchLastClose_NoPriceData(t *testing.T) {
	src := &fakeSource{series: map[string]Series{
		"GONE": {Currency: "USD", Bars: []types.Bar{bar(15, "0"), bar(16, "0")}},
	}}

	_, err := newTestFetcher(src).FetchLastClose(context.Background(), "GONE")
	require.Error(t, err)

	var npd *NoPriceDataError
	require.True(t, errors.As(err, &npd))
	assert.Equal(t, "GONE", npd.Ticker)
}

func TestFetchLastClose_SourceError(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{err: boom}

	_, err := newTestFetcher(src).FetchLastClose(context.Background(), "AAPL")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestFetchLastClose_EmptyTicker(t *testing.T) {
	src := &fakeSource{}
	_, err := newTestFetcher(src).FetchLastClose(context.Background(), "  ")
	require.Error(t, err)
	assert.Empty(t, src.calls)
}

func TestLastPrice(t *testing.T) {
	src := &fakeSource{series: map[string]Series{
		"EURUSD=X": {Bars: []types.Bar{bar(15, "1.08"), bar(16, "1.1")}},
	}}

	f := newTestFetcher(src)
	p, err := f.LastPrice(context.Background(), "EURUSD=X")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.RequireFromString("1.1")))

	_, err = f.LastPrice(context.Background(), "GBPUSD=X")
	var npd *NoPriceDataError
	assert.True(t, errors.As(err, &npd))
}

func TestResolveCurrency(t *testing.T) {
	assert.Equal(t, "GBP", ResolveCurrency("VOD.L", "gbp"))
	assert.Equal(t, "EUR", ResolveCurrency("ENI.MI", ""))
	assert.Equal(t, "EUR", ResolveCurrency("SAP.DE", "n/a"))
	assert.Equal(t, "USD", ResolveCurrency("AAPL", ""))
	assert.Equal(t, "USD", CurrencyFromSuffix("BRK.B"))
}
