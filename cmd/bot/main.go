// File: cmd/bot/main.go
// ============================================
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"order-levels-bot/internal/bot"
	"order-levels-bot/internal/config"
	"order-levels-bot/internal/fx"
	"order-levels-bot/internal/market"
	"order-levels-bot/internal/report"
	"order-levels-bot/internal/telegram"
)

var version = "dev"

type options struct {
	configPath string
	envFile    string
	dryRun     bool
	logLevel   string
}

func newLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetLevel(lvl)
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger, nil
}

// NewBot loads configuration and credentials and wires the pipeline.
func NewBot(opts options, logger *logrus.Logger) (*bot.Bot, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	log := logger.WithField("run_id", uuid.NewString())

	// FX pairs always come from Yahoo.
	yahoo := market.NewFetcher(market.NewYahooSource(cfg.Market.RequestsPerSecond, log), cfg.Market.LookbackDays)

	var prices bot.PriceFetcher = yahoo
	if cfg.Market.Provider == "alpaca" {
		key, secret := os.Getenv(market.AlpacaKeyEnv), os.Getenv(market.AlpacaSecretEnv)
		if key == "" || secret == "" {
			return nil, fmt.Errorf("missing credentials: %s and %s are required for the alpaca provider",
				market.AlpacaKeyEnv, market.AlpacaSecretEnv)
		}
		prices = market.NewFetcher(market.NewAlpacaSource(key, secret), cfg.Market.LookbackDays)
	}

	runner := bot.NewRunner(cfg, prices, fx.NewResolver(yahoo, log), log)

	var sink bot.Sink
	chatID := "stdout"
	if opts.dryRun || !cfg.NotifyEnabled() {
		log.Warn("⚠️ Telegram notifications disabled, printing report to stdout")
		sink = bot.ConsoleSink{W: os.Stdout}
	} else {
		creds, err := config.ResolveCredentials(cfg, nil)
		if err != nil {
			return nil, err
		}
		sink = telegram.NewNotifier(creds.BotToken, log)
		chatID = creds.ChatID
	}

	var csv *report.CSVLogger
	if cfg.General.LogCSV {
		csv = report.NewCSVLogger(cfg.General.OutDir, cfg.General.CSVPath)
	}

	return bot.New(cfg, runner, sink, chatID, csv, config.Location(cfg), log), nil
}

func newRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:           "order-levels-bot",
		Short:         "Compute end-of-day order levels and send them to Telegram",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.logLevel)
			if err != nil {
				return err
			}

			b, err := NewBot(opts, logger)
			if err != nil {
				return err
			}

			results, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if !r.OK() {
					failed++
				}
			}
			logger.Infof("🏁 Done: %d tickers, %d failed", len(results), failed)
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Configuration file path")
	rootCmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "Optional .env file with credentials")
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the report instead of sending it")
	rootCmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newCSVCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newCSVCmd prints a CSV log back as a table
func newCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "csv [FILE]",
		Short: "Print a CSV log written by previous runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := report.ReadRows(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTICKER\tCLOSE\tENTRY\tTAKE PROFIT\tSTOP LOSS")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Date, r.Ticker,
					report.FormatMoney(r.CloseEUR, "EUR"), report.FormatMoney(r.EntryEUR, "EUR"),
					report.FormatMoney(r.TakeProfitEUR, "EUR"), report.FormatMoney(r.StopLossEUR, "EUR"))
			}
			return w.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "order-levels-bot %s\n", version)
		},
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
