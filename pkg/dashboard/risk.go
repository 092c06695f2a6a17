package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// renderRisk draws the risk-limits tab. The values mirror the bot's risk
// config file; saving posts them back and reloads.
func (m *Model) renderRisk(b *screenBuilder) {
	if !m.riskLoaded {
		b.add("  " + hintStyle.Render("loading risk limits…"))
		return
	}

	m.field(b, "Checks", "sel:riskon", m.riskOnSel.TriggerView(riskOnValue(m.risk.Enabled)), true)
	m.field(b, "Max $/trade", "in:maxusd", m.maxUSDInput.View(), false)
	m.field(b, "Max positions", "in:maxpos", m.maxPosInput.View(), false)
	m.field(b, "Max daily loss", "in:maxloss", m.maxLossInput.View(), false)
	m.field(b, "Hours (PT)", "",
		valueStyle.Render(m.risk.TradingHoursPT.Start+" – "+m.risk.TradingHoursPT.End), false)
	m.field(b, "Flatten", "",
		valueStyle.Render(fmt.Sprintf("%d min before close", m.risk.FlattenBeforeCloseMin)), false)
	if len(m.risk.SymbolWhitelist) > 0 {
		m.field(b, "Whitelist", "", valueStyle.Render(joinCapped(m.risk.SymbolWhitelist, 6)), false)
	}
	b.add("")
	m.buttons(b, []string{"btn:risksave", "btn:riskreload"}, []string{"Save", "Reload"})
}

// saveRisk validates the edited fields and posts the config to the bot.
func (m *Model) saveRisk() tea.Cmd {
	cfg := m.risk

	maxUSD, err := strconv.ParseFloat(m.maxUSDInput.Value(), 64)
	if err != nil || maxUSD <= 0 {
		return m.setStatus("max $/trade must be a positive number", true)
	}
	maxPos, err := strconv.Atoi(m.maxPosInput.Value())
	if err != nil || maxPos < 1 {
		return m.setStatus("max positions must be a positive integer", true)
	}
	maxLoss, err := strconv.ParseFloat(m.maxLossInput.Value(), 64)
	if err != nil || maxLoss <= 0 {
		return m.setStatus("max daily loss must be a positive number", true)
	}

	cfg.MaxUSDPerTrade = maxUSD
	cfg.MaxOpenPositions = maxPos
	cfg.MaxDailyLossUSD = maxLoss
	return m.riskSaveCmd(cfg)
}

func joinCapped(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, " ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(items[:limit], " "), len(items)-limit)
}
