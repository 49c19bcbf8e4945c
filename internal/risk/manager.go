// File: internal/risk/manager.go
// ============================================
package risk

import (
	"github.com/shopspring/decimal"

	"order-levels-bot/pkg/types"
)

var hundred = decimal.NewFromInt(100)

// offset returns v * (1 + pct/100).
func offset(v decimal.Decimal, pct float64) decimal.Decimal {
	return v.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(pct).Div(hundred)))
}

// ComputeLevels derives entry, take profit and stop loss from a close.
// Percentages are signed and applied as given.
func ComputeLevels(close decimal.Decimal, buyOffsetPct, takeProfitPct, stopLossPct float64) (entry, takeProfit, stopLoss decimal.Decimal) {
	entry = offset(close, buyOffsetPct)
	takeProfit = offset(entry, takeProfitPct)
	stopLoss = offset(entry, stopLossPct)
	return entry, takeProfit, stopLoss
}

// SizePosition returns how many whole units of entry (quote currency)
// the budget (base currency) can buy at the given rate.
func SizePosition(budget, entry, rate decimal.Decimal) int64 {
	entryBase := entry.Mul(rate)
	if !entryBase.IsPositive() {
		return 0
	}
	qty := budget.Div(entryBase).Floor()
	if qty.IsNegative() {
		return 0
	}
	return qty.IntPart()
}

type Manager struct {
	config *types.Config
}

func NewManager(config *types.Config) *Manager {
	return &Manager{config: config}
}

// Levels computes the level set of a quote once its FX rate is known.
func (m *Manager) Levels(close, rate decimal.Decimal) types.LevelSet {
	entry, tp, sl := ComputeLevels(close,
		m.config.Strategy.BuyOffsetPct,
		m.config.Strategy.TakeProfitPct,
		m.config.Strategy.StopLossPct,
	)

	return types.LevelSet{
		Entry:          entry,
		TakeProfit:     tp,
		StopLoss:       sl,
		Rate:           rate,
		CloseBase:      close.Mul(rate),
		EntryBase:      entry.Mul(rate),
		TakeProfitBase: tp.Mul(rate),
		StopLossBase:   sl.Mul(rate),
	}
}

// CalculatePositionSize sizes the configured budget at entry. It returns 0
// when sizing is disabled.
func (m *Manager) CalculatePositionSize(entry, rate decimal.Decimal) int64 {
	if !m.config.SizingEnabled() {
		return 0
	}
	return SizePosition(decimal.NewFromFloat(m.config.Strategy.PositionSize), entry, rate)
}
