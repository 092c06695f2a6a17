package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
	"github.com/110782829/moomoo-chatgpt-trader/pkg/dashboard/popover"
)

const (
	panelIndent = 2
	labelCol    = 14
)

// screenBuilder accumulates output lines so renderers can register click
// regions at the rows they are actually drawn on.
type screenBuilder struct {
	lines []string
}

// row is the index the next added line will land on.
func (b *screenBuilder) row() int { return len(b.lines) }

func (b *screenBuilder) add(s string) {
	b.lines = append(b.lines, strings.Split(s, "\n")...)
}

// View renders the full screen. The hit map and trigger rectangles are
// rebuilt from scratch every render, so click targets always match what is
// on screen. Open overlays are composited over the base last.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "starting…"
	}

	m.mouse.Clear()
	b := &screenBuilder{}

	m.renderHeader(b)
	m.renderTabs(b)
	b.add("")

	switch m.active {
	case PanelConnection:
		m.renderConnection(b)
	case PanelRisk:
		m.renderRisk(b)
	case PanelBacktest:
		m.renderBacktest(b)
	case PanelActivity:
		m.renderActivity(b)
	}

	body := max(m.height-2, 0)
	for len(b.lines) < body {
		b.add("")
	}
	if len(b.lines) > body {
		b.lines = b.lines[:body]
	}
	m.renderStatusLine(b)
	m.renderHints(b)

	base := strings.Join(b.lines, "\n")
	base = m.composeOverlays(base)
	if m.helpOpen {
		base = m.composeHelp(base)
	}
	return base
}

func (m *Model) renderHeader(b *screenBuilder) {
	title := titleStyle.Render("mmtrader")
	conn := disconnectedStyle.Render("● offline")
	if m.connected {
		conn = connectedStyle.Render("● " + m.gateway)
	}
	env := valueStyle.Render(string(m.tradeEnv))
	if m.tradeEnv == models.EnvReal {
		env = realEnvStyle.Render("REAL")
	}
	left := title + "  " + conn + "  " + env
	b.add(left)
}

func (m *Model) renderTabs(b *screenBuilder) {
	row := b.row()
	var parts []string
	x := 0
	for p := Panel(0); p < panelCount; p++ {
		style := tabStyle
		if p == m.active {
			style = tabActiveStyle
		}
		tab := style.Render(fmt.Sprintf("%d %s", int(p)+1, p))
		m.mouse.HitMap.AddRect(fmt.Sprintf("tab:%d", int(p)), x, row, lipgloss.Width(tab), 1, nil)
		x += lipgloss.Width(tab) + 1
		parts = append(parts, tab)
	}
	b.add(strings.Join(parts, " "))
}

func (m *Model) renderStatusLine(b *screenBuilder) {
	if m.status == "" {
		b.add("")
		return
	}
	style := statusStyle
	if m.statusErr {
		style = statusErrStyle
	}
	b.add(" " + style.Render(ansi.Truncate(m.status, max(m.width-2, 1), "…")))
}

func (m *Model) renderHints(b *screenBuilder) {
	hints := "tab focus · enter activate · 1-4 tabs · r refresh · ? help · q quit"
	b.add(" " + hintStyle.Render(ansi.Truncate(hints, max(m.width-2, 1), "…")))
}

// field emits one "label control" line, registering the control's click
// region and, for dropdown triggers, its anchor rectangle.
func (m *Model) field(b *screenBuilder, label, id, view string, isTrigger bool) {
	row := b.row()
	x := labelCol
	w := lipgloss.Width(view)

	mark := "  "
	if id != "" && id == m.focusID() {
		mark = focusMarkStyle.Render("» ")
	}
	line := mark + labelStyle.Render(padRight(label, labelCol-panelIndent)) + view
	b.add(line)

	if id == "" {
		return
	}
	m.mouse.HitMap.AddRect(id, x, row, w, 1, nil)
	if isTrigger {
		m.triggers[id] = popover.Rect{X: x, Y: row, W: w, H: 1}
	}
}

// buttons emits a row of buttons at the label-column offset.
func (m *Model) buttons(b *screenBuilder, ids, labels []string) {
	row := b.row()
	x := labelCol
	var parts []string
	bx := x
	for i, id := range ids {
		style := buttonStyle
		if id == m.focusID() {
			style = buttonFocusStyle
		}
		btn := style.Render(labels[i])
		m.mouse.HitMap.AddRect(id, bx, row, lipgloss.Width(btn), 1, nil)
		bx += lipgloss.Width(btn) + 2
		parts = append(parts, btn)
	}
	b.add(strings.Repeat(" ", x) + strings.Join(parts, "  "))
}

// composeOverlays paints every open overlay onto the base at its resolved
// placement and registers a covering hit region so clicks on the overlay
// never fall through to controls underneath.
func (m *Model) composeOverlays(base string) string {
	paint := func(name, view string, p popover.Placement) {
		base = overlayAt(base, view, p.Left, p.Top)
		m.mouse.HitMap.AddRect("overlay:"+name, p.Left, p.Top, p.Width, lipgloss.Height(view), nil)
	}
	if m.accountSel.IsOpen() {
		paint("account", m.accountSel.View(m.accountID), m.accountSel.Placement())
	}
	if m.envSel.IsOpen() {
		paint("env", m.envSel.View(string(m.tradeEnv)), m.envSel.Placement())
	}
	if m.riskOnSel.IsOpen() {
		paint("riskon", m.riskOnSel.View(riskOnValue(m.risk.Enabled)), m.riskOnSel.Placement())
	}
	if m.ktypeSel.IsOpen() {
		paint("ktype", m.ktypeSel.View(m.ktype), m.ktypeSel.Placement())
	}
	if m.symbolBox.IsOpen() {
		paint("symbol", m.symbolBox.View(m.symbol), m.symbolBox.Placement())
	}
	return base
}

// overlayAt splices overlay into base at cell position x,y. Base rows are
// padded when the overlay extends past their end; rows the overlay does
// not cover are left untouched. Both sides may carry ANSI sequences.
func overlayAt(base, overlay string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	for i, ol := range strings.Split(overlay, "\n") {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		bl := baseLines[row]
		blWidth := ansi.StringWidth(bl)
		if blWidth < x {
			bl += strings.Repeat(" ", x-blWidth)
			blWidth = x
		}
		left := ansi.Truncate(bl, x, "")
		right := ""
		if cut := x + ansi.StringWidth(ol); blWidth > cut {
			right = ansi.TruncateLeft(bl, cut, "")
		}
		baseLines[row] = left + ol + right
	}
	return strings.Join(baseLines, "\n")
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func riskOnValue(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
