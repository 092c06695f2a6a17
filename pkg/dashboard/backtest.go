package dashboard

import (
	"fmt"
	"sort"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
)

// renderBacktest draws the strategy tab: MA-crossover parameters, the run
// button, live strategy controls and the latest backtest result.
func (m *Model) renderBacktest(b *screenBuilder) {
	m.field(b, "Symbol", "cbx:symbol", m.symbolBox.TriggerView(m.symbol), true)
	m.field(b, "Interval", "sel:ktype", m.ktypeSel.TriggerView(m.ktype), true)
	m.field(b, "Fast MA", "in:fast", m.fastInput.View(), false)
	m.field(b, "Slow MA", "in:slow", m.slowInput.View(), false)
	m.field(b, "Qty", "in:qty", m.qtyInput.View(), false)
	b.add("")
	m.buttons(b,
		[]string{"btn:btrun", "btn:ststart", "btn:ststop"},
		[]string{"Run backtest", "Start live", "Stop"})
	b.add("")

	if m.strategy != nil && m.strategy.Active {
		b.add("  " + connectedStyle.Render(fmt.Sprintf("● live: %s %d/%d %s",
			m.strategy.Symbol, m.strategy.Fast, m.strategy.Slow, m.strategy.KType)))
		b.add("")
	}

	switch {
	case m.btRunning:
		b.add("  " + hintStyle.Render("backtest running…"))
	case m.btResult != nil:
		m.renderBacktestResult(b)
	}
}

func (m *Model) renderBacktestResult(b *screenBuilder) {
	b.add("  " + labelStyle.Render("Metrics"))
	keys := make([]string, 0, len(m.btResult.Metrics))
	for k := range m.btResult.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := m.btResult.Metrics[k]
		style := valueStyle
		if k == "total_pnl" || k == "avg_pnl" {
			style = profitStyle
			if v < 0 {
				style = lossStyle
			}
		}
		b.add(fmt.Sprintf("    %-18s %s", k, style.Render(trimFloat(v))))
	}

	if len(m.btResult.TradesSample) == 0 {
		return
	}
	b.add("")
	b.add("  " + labelStyle.Render(fmt.Sprintf("Trades (%d shown)", len(m.btResult.TradesSample))))
	for i, t := range m.btResult.TradesSample {
		if i >= 6 {
			b.add("  " + hintStyle.Render(fmt.Sprintf("  … %d more", len(m.btResult.TradesSample)-i)))
			break
		}
		pnl := profitStyle
		if t.PnL < 0 {
			pnl = lossStyle
		}
		b.add(fmt.Sprintf("    %-5s %8.2f → %-8.2f %s",
			t.Side, t.EntryPx, t.ExitPx, pnl.Render(fmt.Sprintf("%+.2f", t.PnL))))
	}
}

// strategyParams validates the shared backtest/live inputs.
func (m *Model) strategyParams() (models.BacktestRequest, error) {
	var req models.BacktestRequest
	if m.symbol == "" {
		return req, fmt.Errorf("pick a symbol first")
	}
	fast, err := strconv.Atoi(m.fastInput.Value())
	if err != nil || fast < 1 {
		return req, fmt.Errorf("fast MA must be a positive integer")
	}
	slow, err := strconv.Atoi(m.slowInput.Value())
	if err != nil || slow < 1 {
		return req, fmt.Errorf("slow MA must be a positive integer")
	}
	if fast >= slow {
		return req, fmt.Errorf("fast MA must be below slow MA")
	}
	qty, err := strconv.ParseFloat(m.qtyInput.Value(), 64)
	if err != nil || qty <= 0 {
		return req, fmt.Errorf("qty must be a positive number")
	}
	req = models.BacktestRequest{
		Symbol: m.symbol,
		Fast:   fast,
		Slow:   slow,
		KType:  m.ktype,
		Qty:    qty,
	}
	return req, nil
}

func (m *Model) runBacktest() tea.Cmd {
	req, err := m.strategyParams()
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.btRunning = true
	m.btResult = nil
	return m.backtestCmd(req)
}

func (m *Model) startStrategy() tea.Cmd {
	req, err := m.strategyParams()
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	// Starting against a REAL account needs the explicit flag, same as the
	// bot's own safety check.
	status := models.StrategyStatus{
		Symbol:      req.Symbol,
		Fast:        req.Fast,
		Slow:        req.Slow,
		KType:       req.KType,
		Qty:         req.Qty,
		SizeMode:    "shares",
		IntervalSec: 30,
		AllowReal:   m.tradeEnv == models.EnvReal,
	}
	return tea.Batch(
		m.setStatus("starting strategy on "+req.Symbol, false),
		m.strategyStartCmd(status),
	)
}
