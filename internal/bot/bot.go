// File: internal/bot/bot.go
// ============================================
package bot

import (
	"context"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"order-levels-bot/internal/report"
	"order-levels-bot/pkg/types"
)

// Sink receives the final report text.
type Sink interface {
	Send(ctx context.Context, chatID, text string) error
}

// ConsoleSink writes the report to w instead of a chat.
type ConsoleSink struct {
	W io.Writer
}

func (c ConsoleSink) Send(_ context.Context, chatID, text string) error {
	_, err := fmt.Fprintf(c.W, "--- message for chat %q ---\n%s\n", chatID, text)
	return err
}

type Bot struct {
	config *types.Config
	runner *Runner
	sink   Sink
	chatID string
	csv    *report.CSVLogger
	loc    *time.Location
	now    func() time.Time
	logger logrus.FieldLogger
}

// New wires a bot. csv may be nil when CSV logging is disabled.
func New(config *types.Config, runner *Runner, sink Sink, chatID string, csv *report.CSVLogger, loc *time.Location, logger logrus.FieldLogger) *Bot {
	return &Bot{
		config: config,
		runner: runner,
		sink:   sink,
		chatID: chatID,
		csv:    csv,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

// Run processes every ticker, writes the CSV log and sends the report.
// Per-ticker failures are part of the report; only a failed send is
// returned as an error.
func (b *Bot) Run(ctx context.Context) ([]types.TickerResult, error) {
	b.logger.Infof("🚀 Computing levels for %d tickers (base %s)",
		len(b.config.Universe.Tickers), b.config.General.BaseCurrency)
	b.logger.Infof("⚙️  Offsets: buy %.2f%%, take profit %.2f%%, stop loss %.2f%%",
		b.config.Strategy.BuyOffsetPct, b.config.Strategy.TakeProfitPct, b.config.Strategy.StopLossPct)

	results := b.runner.Run(ctx)
	now := b.now().In(b.loc)

	rep := report.Build(now, b.loc, b.config, results)

	if b.csv != nil {
		rows := report.RowsFromResults(now.Format("2006-01-02"), b.config, results)
		path, err := b.csv.Append(now, rows)
		if err != nil {
			b.logger.Errorf("❌ CSV log %s not written: %v", path, err)
			rep.AddNote(fmt.Sprintf("⚠️ CSV log not written: %s", html.EscapeString(err.Error())))
		} else {
			b.logger.Infof("💾 %d rows appended to %s", len(rows), path)
		}
	}

	if err := b.sink.Send(ctx, b.chatID, rep.String()); err != nil {
		return results, fmt.Errorf("failed to send report: %w", err)
	}
	return results, nil
}
