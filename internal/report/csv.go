// File: internal/report/csv.go
// ============================================
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"order-levels-bot/pkg/types"
)

var csvHeader = []string{
	"date",
	"ticker",
	"close_eur",
	"entry_eur",
	"take_profit_eur",
	"stop_loss_eur",
	"buy_offset_pct",
	"take_profit_pct",
	"stop_loss_pct",
}

const (
	amountDecimals = 4
	pctDecimals    = 2
)

// RowsFromResults builds one row per successful ticker, in order.
func RowsFromResults(date string, cfg *types.Config, results []types.TickerResult) []types.ReportRow {
	rows := make([]types.ReportRow, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			continue
		}
		rows = append(rows, types.ReportRow{
			Date:          date,
			Ticker:        r.Ticker,
			CloseEUR:      r.Levels.CloseBase,
			EntryEUR:      r.Levels.EntryBase,
			TakeProfitEUR: r.Levels.TakeProfitBase,
			StopLossEUR:   r.Levels.StopLossBase,
			BuyOffsetPct:  cfg.Strategy.BuyOffsetPct,
			TakeProfitPct: cfg.Strategy.TakeProfitPct,
			StopLossPct:   cfg.Strategy.StopLossPct,
		})
	}
	return rows
}

// CSVLogger appends report rows to a file whose name is a strftime
// template resolved at write time.
type CSVLogger struct {
	dir          string
	pathTemplate string
}

func NewCSVLogger(dir, pathTemplate string) *CSVLogger {
	return &CSVLogger{dir: dir, pathTemplate: pathTemplate}
}

// Path returns the file the logger writes to at t.
func (l *CSVLogger) Path(t time.Time) (string, error) {
	name, err := Strftime(l.pathTemplate, t)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(name) || l.dir == "" {
		return name, nil
	}
	return filepath.Join(l.dir, name), nil
}

// Append writes rows to the file for t, creating the directory and the
// header as needed. It returns the path written.
func (l *CSVLogger) Append(t time.Time, rows []types.ReportRow) (string, error) {
	path, err := l.Path(t)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, fmt.Errorf("failed to create csv dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return path, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return path, fmt.Errorf("failed to stat csv: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return path, fmt.Errorf("failed to write csv header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(encodeRow(row)); err != nil {
			return path, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return path, fmt.Errorf("failed to flush csv: %w", err)
	}
	return path, f.Close()
}

func encodeRow(r types.ReportRow) []string {
	return []string{
		r.Date,
		r.Ticker,
		r.CloseEUR.StringFixed(amountDecimals),
		r.EntryEUR.StringFixed(amountDecimals),
		r.TakeProfitEUR.StringFixed(amountDecimals),
		r.StopLossEUR.StringFixed(amountDecimals),
		strconv.FormatFloat(r.BuyOffsetPct, 'f', pctDecimals, 64),
		strconv.FormatFloat(r.TakeProfitPct, 'f', pctDecimals, 64),
		strconv.FormatFloat(r.StopLossPct, 'f', pctDecimals, 64),
	}
}

// ReadRows reads back a CSV log written by Append.
func ReadRows(path string) ([]types.ReportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	rows := make([]types.ReportRow, 0)
	for line := 1; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if line == 1 && rec[0] == csvHeader[0] {
			continue
		}

		row, err := decodeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRow(rec []string) (types.ReportRow, error) {
	row := types.ReportRow{Date: rec[0], Ticker: rec[1]}

	amounts := []*decimal.Decimal{&row.CloseEUR, &row.EntryEUR, &row.TakeProfitEUR, &row.StopLossEUR}
	for i, dst := range amounts {
		v, err := decimal.NewFromString(rec[2+i])
		if err != nil {
			return row, fmt.Errorf("%s: %w", csvHeader[2+i], err)
		}
		*dst = v
	}

	pcts := []*float64{&row.BuyOffsetPct, &row.TakeProfitPct, &row.StopLossPct}
	for i, dst := range pcts {
		v, err := strconv.ParseFloat(rec[6+i], 64)
		if err != nil {
			return row, fmt.Errorf("%s: %w", csvHeader[6+i], err)
		}
		*dst = v
	}
	return row, nil
}
