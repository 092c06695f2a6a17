package dashboard

import (
	"fmt"
)

// renderConnection draws the gateway/account tab: host and port inputs,
// the connect buttons, the account and environment dropdowns, and a
// summary of positions and open orders for the active account.
func (m *Model) renderConnection(b *screenBuilder) {
	m.field(b, "API", "", valueStyle.Render(m.client.BaseURL()), false)
	m.field(b, "Host", "in:host", m.hostInput.View(), false)
	m.field(b, "Port", "in:port", m.portInput.View(), false)
	m.buttons(b, []string{"btn:connect", "btn:disconnect"}, []string{"Connect", "Disconnect"})
	b.add("")

	m.field(b, "Account", "sel:account", m.accountSel.TriggerView(m.accountID), true)
	m.field(b, "Env", "sel:env", m.envSel.TriggerView(string(m.tradeEnv)), true)
	b.add("")

	if !m.connected {
		b.add("  " + hintStyle.Render("not connected; the bot API must be running and OpenD reachable"))
		return
	}

	b.add("  " + labelStyle.Render(fmt.Sprintf("Positions (%d)", len(m.positions))))
	if len(m.positions) == 0 {
		b.add("  " + hintStyle.Render("  none"))
	}
	for i, p := range m.positions {
		if i >= 8 {
			b.add("  " + hintStyle.Render(fmt.Sprintf("  … %d more", len(m.positions)-i)))
			break
		}
		pnl := profitStyle
		if p.PnL < 0 {
			pnl = lossStyle
		}
		b.add(fmt.Sprintf("    %-8s %8.0f @ %-9.2f %s",
			p.Symbol, p.Qty, p.AvgPrice, pnl.Render(fmt.Sprintf("%+.2f", p.PnL))))
	}
	b.add("")

	b.add("  " + labelStyle.Render(fmt.Sprintf("Orders (%d)", len(m.orders))))
	if len(m.orders) == 0 {
		b.add("  " + hintStyle.Render("  none"))
	}
	for i, o := range m.orders {
		if i >= 8 {
			b.add("  " + hintStyle.Render(fmt.Sprintf("  … %d more", len(m.orders)-i)))
			break
		}
		b.add(fmt.Sprintf("    %-8s %-4s %8.0f %-7s %s",
			o.Symbol, o.Side, o.Qty, o.OrderType, valueStyle.Render(o.Status)))
	}
}
