// File: pkg/types/models.go
// ============================================
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config represents the bot configuration
type Config struct {
	General struct {
		Timezone     string `yaml:"timezone"`
		BaseCurrency string `yaml:"base_currency"`
		OutDir       string `yaml:"out_dir"`
		CSVPath      string `yaml:"csv_path"`
		LogCSV       bool   `yaml:"log_csv"`
	} `yaml:"general"`

	Strategy struct {
		PositionSize  float64 `yaml:"position_size_eur"`
		BuyOffsetPct  float64 `yaml:"buy_offset_pct"`
		TakeProfitPct float64 `yaml:"take_profit_pct"`
		StopLossPct   float64 `yaml:"stop_loss_pct"`
	} `yaml:"strategy"`

	Universe struct {
		Tickers []string `yaml:"tickers"`
	} `yaml:"universe"`

	Notify struct {
		Enabled   *bool  `yaml:"enabled"`
		TokenEnv  string `yaml:"token_env"`
		ChatIDEnv string `yaml:"chat_id_env"`
	} `yaml:"notify"`

	Market struct {
		Provider          string  `yaml:"provider"`
		LookbackDays      int     `yaml:"lookback_days"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"market"`
}

// NotifyEnabled reports whether messages go to Telegram. Absent means enabled.
func (c *Config) NotifyEnabled() bool {
	return c.Notify.Enabled == nil || *c.Notify.Enabled
}

// SizingEnabled reports whether quantities are computed for each ticker.
func (c *Config) SizingEnabled() bool {
	return c.Strategy.PositionSize > 0
}

// Credentials holds the Telegram bot token and destination chat.
type Credentials struct {
	BotToken string
	ChatID   string
}

// Bar is one daily bar. A zero Close means the source had no value.
type Bar struct {
	Date  time.Time
	Close decimal.Decimal
}

// PriceQuote is the last valid close of a ticker.
type PriceQuote struct {
	Ticker    string
	Close     decimal.Decimal
	Currency  string
	AsOf      time.Time
	PrevClose decimal.Decimal // zero when the window holds a single valid bar
	AvgClose  decimal.Decimal
}

// LevelSet holds the derived order levels in quote and base currency.
type LevelSet struct {
	Entry      decimal.Decimal
	TakeProfit decimal.Decimal
	StopLoss   decimal.Decimal

	Rate           decimal.Decimal
	CloseBase      decimal.Decimal
	EntryBase      decimal.Decimal
	TakeProfitBase decimal.Decimal
	StopLossBase   decimal.Decimal
}

// TickerResult is the outcome of processing one ticker.
type TickerResult struct {
	Ticker   string
	Quote    PriceQuote
	Levels   LevelSet
	Quantity int64
	Err      error
}

func (r TickerResult) OK() bool {
	return r.Err == nil
}

// EstimatedCost is quantity times the base-currency entry.
func (r TickerResult) EstimatedCost() decimal.Decimal {
	return r.Levels.EntryBase.Mul(decimal.NewFromInt(r.Quantity))
}

// ReportRow is one CSV log line.
type ReportRow struct {
	Date          string
	Ticker        string
	CloseEUR      decimal.Decimal
	EntryEUR      decimal.Decimal
	TakeProfitEUR decimal.Decimal
	StopLossEUR   decimal.Decimal
	BuyOffsetPct  float64
	TakeProfitPct float64
	StopLossPct   float64
}
