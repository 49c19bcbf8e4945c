// File: internal/report/formatter.go
// ============================================
package report

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"order-levels-bot/internal/strategy"
	"order-levels-bot/pkg/types"
)

const blockSeparator = "\n\n"

// Report is the chat message: a header, one block per ticker and
// trailing notes.
type Report struct {
	Header string
	Blocks []string
	Notes  []string
}

// Build renders results in order. now is shown in the configured timezone.
func Build(now time.Time, loc *time.Location, cfg *types.Config, results []types.TickerResult) *Report {
	ok := 0
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		if r.OK() {
			ok++
		}
		blocks = append(blocks, FormatBlock(r, cfg))
	}

	header := fmt.Sprintf("📊 <b>Order levels</b> · %s (%s)\n", now.In(loc).Format("2006-01-02 15:04"), html.EscapeString(loc.String()))
	header += fmt.Sprintf("Base: <b>%s</b> · Tickers: %d/%d ok", cfg.General.BaseCurrency, ok, len(results))

	return &Report{
		Header: header,
		Blocks: blocks,
		Notes:  []string{"⚠️ <i>Hypothetical levels only, no orders were placed.</i>"},
	}
}

// AddNote appends a line after the ticker blocks.
func (r *Report) AddNote(note string) {
	r.Notes = append(r.Notes, note)
}

// Sections returns header, blocks and notes as separate message parts.
func (r *Report) Sections() []string {
	parts := make([]string, 0, len(r.Blocks)+2)
	parts = append(parts, r.Header)
	parts = append(parts, r.Blocks...)
	if len(r.Notes) > 0 {
		parts = append(parts, strings.Join(r.Notes, "\n"))
	}
	return parts
}

func (r *Report) String() string {
	return strings.Join(r.Sections(), blockSeparator)
}

// FormatBlock renders one ticker. Failed tickers are a single line.
func FormatBlock(r types.TickerResult, cfg *types.Config) string {
	if !r.OK() {
		return fmt.Sprintf("❌ <b>%s</b>: %s", html.EscapeString(r.Ticker), html.EscapeString(r.Err.Error()))
	}

	q := r.Quote
	lv := r.Levels
	base := cfg.General.BaseCurrency
	converted := q.Currency != base

	money := func(quoteAmount, baseAmount decimal.Decimal) string {
		s := fmt.Sprintf("<code>%s</code>", FormatMoney(quoteAmount, q.Currency))
		if converted {
			s += fmt.Sprintf(" (%s)", FormatMoney(baseAmount, base))
		}
		return s
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "💎 <b>%s</b> (%s) · %s\n", html.EscapeString(r.Ticker), q.Currency, q.AsOf.Format("2006-01-02"))

	fmt.Fprintf(&sb, "Close: %s", money(q.Close, lv.CloseBase))
	if pct, ok := strategy.PercentChange(q.PrevClose, q.Close); ok {
		fmt.Fprintf(&sb, " · 1d %s", FormatPct(pct.InexactFloat64()))
	}
	sb.WriteString("\n")

	if q.AvgClose.IsPositive() {
		fmt.Fprintf(&sb, "Avg close: %s\n", money(q.AvgClose, q.AvgClose.Mul(lv.Rate)))
	}

	if converted {
		fmt.Fprintf(&sb, "FX: 1 %s = %s %s\n", q.Currency, lv.Rate.StringFixed(6), base)
	}

	fmt.Fprintf(&sb, "💰 Entry: %s [%s]\n", money(lv.Entry, lv.EntryBase), FormatPct(cfg.Strategy.BuyOffsetPct))
	fmt.Fprintf(&sb, "🎯 Take profit: %s [%s]\n", money(lv.TakeProfit, lv.TakeProfitBase), FormatPct(cfg.Strategy.TakeProfitPct))
	fmt.Fprintf(&sb, "🛑 Stop loss: %s [%s]", money(lv.StopLoss, lv.StopLossBase), FormatPct(cfg.Strategy.StopLossPct))

	if cfg.SizingEnabled() {
		fmt.Fprintf(&sb, "\n📦 Quantity: <b>%d</b> (~%s)", r.Quantity, FormatMoney(r.EstimatedCost(), base))
	}
	return sb.String()
}
