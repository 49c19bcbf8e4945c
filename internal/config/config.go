// File: internal/config/config.go
// ============================================
package config

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/lestrrat-go/strftime"
	"gopkg.in/yaml.v3"

	"order-levels-bot/pkg/types"
)

const (
	DefaultPath           = "config/config.yaml"
	DefaultTimezone       = "UTC"
	DefaultBaseCurrency   = "EUR"
	DefaultOutDir         = "out"
	DefaultCSVPath        = "orders_%Y-%m-%d.csv"
	DefaultTokenEnv       = "TELEGRAM_BOT_TOKEN"
	DefaultChatIDEnv      = "TELEGRAM_CHAT_ID"
	DefaultProvider       = "yahoo"
	DefaultLookbackDays   = 10
	DefaultRequestsPerSec = 2

	minLookbackDays = 5
	maxLookbackDays = 30

	// CSV columns are EUR-denominated.
	csvCurrency = "EUR"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// IsCurrencyCode reports whether s is a 3-letter upper-case code.
func IsCurrencyCode(s string) bool {
	return currencyCode.MatchString(s)
}

// Load reads, defaults and validates the YAML config at path.
func Load(path string) (*types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document into a validated config.
func Parse(data []byte) (*types.Config, error) {
	var cfg types.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills every unset optional field.
func ApplyDefaults(cfg *types.Config) {
	if cfg.General.Timezone == "" {
		cfg.General.Timezone = DefaultTimezone
	}
	cfg.General.BaseCurrency = strings.ToUpper(strings.TrimSpace(cfg.General.BaseCurrency))
	if cfg.General.BaseCurrency == "" {
		cfg.General.BaseCurrency = DefaultBaseCurrency
	}
	if cfg.General.OutDir == "" {
		cfg.General.OutDir = DefaultOutDir
	}
	if cfg.General.CSVPath == "" {
		cfg.General.CSVPath = DefaultCSVPath
	}
	if cfg.Notify.TokenEnv == "" {
		cfg.Notify.TokenEnv = DefaultTokenEnv
	}
	if cfg.Notify.ChatIDEnv == "" {
		cfg.Notify.ChatIDEnv = DefaultChatIDEnv
	}
	cfg.Market.Provider = strings.ToLower(strings.TrimSpace(cfg.Market.Provider))
	if cfg.Market.Provider == "" {
		cfg.Market.Provider = DefaultProvider
	}
	if cfg.Market.LookbackDays == 0 {
		cfg.Market.LookbackDays = DefaultLookbackDays
	}
	if cfg.Market.LookbackDays < minLookbackDays {
		cfg.Market.LookbackDays = minLookbackDays
	}
	if cfg.Market.LookbackDays > maxLookbackDays {
		cfg.Market.LookbackDays = maxLookbackDays
	}
	if cfg.Market.RequestsPerSecond <= 0 {
		cfg.Market.RequestsPerSecond = DefaultRequestsPerSec
	}

	tickers := make([]string, 0, len(cfg.Universe.Tickers))
	for _, t := range cfg.Universe.Tickers {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			tickers = append(tickers, t)
		}
	}
	cfg.Universe.Tickers = tickers
}

// Validate checks a defaulted config.
func Validate(cfg *types.Config) error {
	if _, err := time.LoadLocation(cfg.General.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.General.Timezone, err)
	}
	if !IsCurrencyCode(cfg.General.BaseCurrency) {
		return fmt.Errorf("invalid base currency %q", cfg.General.BaseCurrency)
	}
	if cfg.General.LogCSV && cfg.General.BaseCurrency != csvCurrency {
		return fmt.Errorf("csv log is %s-denominated but base currency is %s", csvCurrency, cfg.General.BaseCurrency)
	}
	if cfg.General.LogCSV {
		if _, err := strftime.New(cfg.General.CSVPath); err != nil {
			return fmt.Errorf("invalid general.csv_path %q: %w", cfg.General.CSVPath, err)
		}
	}
	if len(cfg.Universe.Tickers) == 0 {
		return fmt.Errorf("universe.tickers is empty")
	}

	pcts := map[string]float64{
		"strategy.position_size_eur": cfg.Strategy.PositionSize,
		"strategy.buy_offset_pct":    cfg.Strategy.BuyOffsetPct,
		"strategy.take_profit_pct":   cfg.Strategy.TakeProfitPct,
		"strategy.stop_loss_pct":     cfg.Strategy.StopLossPct,
	}
	for name, v := range pcts {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite", name)
		}
	}
	if cfg.Strategy.PositionSize < 0 {
		return fmt.Errorf("strategy.position_size_eur must not be negative")
	}

	switch cfg.Market.Provider {
	case "yahoo", "alpaca":
	default:
		return fmt.Errorf("unknown market provider %q", cfg.Market.Provider)
	}
	return nil
}

// Location returns the configured timezone. Validate has already checked it.
func Location(cfg *types.Config) *time.Location {
	loc, err := time.LoadLocation(cfg.General.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
