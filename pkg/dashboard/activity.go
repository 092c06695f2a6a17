package dashboard

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
)

// renderActivity draws the feed tab: orders, fills and strategy events,
// newest first, scrollable with the wheel or j/k.
func (m *Model) renderActivity(b *screenBuilder) {
	if len(m.activity) == 0 {
		b.add("  " + hintStyle.Render("no activity yet"))
		return
	}

	visible := max(m.height-8, 3)
	start := m.activityOffset
	if start > len(m.activity)-1 {
		start = len(m.activity) - 1
	}
	end := min(start+visible, len(m.activity))

	if start > 0 {
		b.add("  " + hintStyle.Render(fmt.Sprintf("↑ %d newer", start)))
	}
	for _, it := range m.activity[start:end] {
		ts := ""
		if !it.Timestamp.IsZero() {
			ts = it.Timestamp.Format("15:04:05")
		}
		line := fmt.Sprintf("  %s %s %s",
			feedTimeStyle.Render(fmt.Sprintf("%-8s", ts)),
			feedKindStyle.Render(it.Kind),
			valueStyle.Render(it.Message))
		b.add(ansi.Truncate(line, max(m.width-1, 1), "…"))
	}
	if end < len(m.activity) {
		b.add("  " + hintStyle.Render(fmt.Sprintf("↓ %d older", len(m.activity)-end)))
	}
}
