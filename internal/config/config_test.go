package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
general:
  timezone: Europe/Rome
  base_currency: eur
  out_dir: out
  csv_path: orders_%Y-%m-%d.csv
  log_csv: true
strategy:
  position_size_eur: 1000
  buy_offset_pct: -1.0
  take_profit_pct: 3.0
  stop_loss_pct: -2.0
universe:
  tickers: [aapl, " ENI.MI ", ""]
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "Europe/Rome", cfg.General.Timezone)
	assert.Equal(t, "EUR", cfg.General.BaseCurrency)
	assert.Equal(t, []string{"AAPL", "ENI.MI"}, cfg.Universe.Tickers)
	assert.Equal(t, DefaultTokenEnv, cfg.Notify.TokenEnv)
	assert.Equal(t, DefaultChatIDEnv, cfg.Notify.ChatIDEnv)
	assert.Equal(t, DefaultProvider, cfg.Market.Provider)
	assert.Equal(t, DefaultLookbackDays, cfg.Market.LookbackDays)
	assert.Equal(t, float64(DefaultRequestsPerSec), cfg.Market.RequestsPerSecond)
	assert.True(t, cfg.NotifyEnabled())
	assert.True(t, cfg.SizingEnabled())
	assert.Equal(t, -1.0, cfg.Strategy.BuyOffsetPct)
}

func TestParse_LookbackIsClamped(t *testing.T) {
	cfg, err := Parse([]byte("universe:\n  tickers: [AAPL]\nmarket:\n  lookback_days: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, minLookbackDays, cfg.Market.LookbackDays)

	cfg, err = Parse([]byte("universe:\n  tickers: [AAPL]\nmarket:\n  lookback_days: 400\n"))
	require.NoError(t, err)
	assert.Equal(t, maxLookbackDays, cfg.Market.LookbackDays)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"no tickers":       "general:\n  timezone: UTC\n",
		"bad timezone":     "general:\n  timezone: Mars/Olympus\nuniverse:\n  tickers: [AAPL]\n",
		"bad currency":     "general:\n  base_currency: EURO\nuniverse:\n  tickers: [AAPL]\n",
		"csv not in eur":   "general:\n  base_currency: USD\n  log_csv: true\nuniverse:\n  tickers: [AAPL]\n",
		"bad csv template": "general:\n  log_csv: true\n  csv_path: orders_%Q.csv\nuniverse:\n  tickers: [AAPL]\n",
		"negative budget":  "strategy:\n  position_size_eur: -5\nuniverse:\n  tickers: [AAPL]\n",
		"unknown provider": "market:\n  provider: bloomberg\nuniverse:\n  tickers: [AAPL]\n",
		"not yaml":         "general: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_NotifyDisabled(t *testing.T) {
	cfg, err := Parse([]byte("notify:\n  enabled: false\nuniverse:\n  tickers: [AAPL]\n"))
	require.NoError(t, err)
	assert.False(t, cfg.NotifyEnabled())
	assert.False(t, cfg.SizingEnabled())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Rome", Location(cfg).String())
}

func TestResolveCredentials(t *testing.T) {
	cfg, err := Parse([]byte("notify:\n  token_env: MY_TOKEN\n  chat_id_env: MY_CHAT\nuniverse:\n  tickers: [AAPL]\n"))
	require.NoError(t, err)

	env := map[string]string{"MY_TOKEN": "123:abc", "MY_CHAT": " 42 "}
	creds, err := ResolveCredentials(cfg, func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, "123:abc", creds.BotToken)
	assert.Equal(t, "42", creds.ChatID)

	delete(env, "MY_CHAT")
	_, err = ResolveCredentials(cfg, func(k string) string { return env[k] })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MY_CHAT")
	assert.NotContains(t, err.Error(), "MY_TOKEN")
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LEVELS_TEST_A=fromfile\nLEVELS_TEST_B=fromfile\n"), 0o600))

	t.Setenv("LEVELS_TEST_A", "fromenv")
	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))

	assert.Equal(t, "fromenv", os.Getenv("LEVELS_TEST_A"))
	assert.Equal(t, "fromfile", os.Getenv("LEVELS_TEST_B"))
	os.Unsetenv("LEVELS_TEST_B")
}
