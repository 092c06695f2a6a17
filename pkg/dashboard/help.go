package dashboard

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# mmtrader

Terminal dashboard for the moomoo trading bot.

## Keys

| Key | Action |
|-----|--------|
| tab / shift+tab | move focus |
| enter | activate the focused control |
| esc | close a dropdown, or unfocus an input |
| 1-4, h/l | switch tabs |
| r | refresh the visible tab |
| j/k, wheel | scroll the activity feed |
| q | quit |

## Dropdowns

Click a dropdown or press enter on it to open. Click a row or press
enter to pick; clicking anywhere else or pressing esc closes it without
changing the value. The symbol box filters as you type.
`

var helpBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("212")).
	Padding(0, 1)

// helpRendered caches the glamour output; the markdown never changes.
var helpRendered string

func (m *Model) helpView() string {
	if helpRendered == "" {
		out, err := glamour.Render(helpMarkdown, "dark")
		if err != nil {
			out = helpMarkdown
		}
		helpRendered = strings.TrimRight(out, "\n")
	}
	return helpBox.Render(helpRendered)
}

// composeHelp centers the help modal over the base view.
func (m *Model) composeHelp(base string) string {
	help := m.helpView()
	w := lipgloss.Width(help)
	h := lipgloss.Height(help)
	x := max((m.width-w)/2, 0)
	y := max((m.height-h)/2, 0)
	base = overlayAt(base, help, x, y)
	// Swallow any click while the modal is up.
	m.mouse.HitMap.AddRect("overlay:help", 0, 0, m.width, m.height, nil)
	return base
}
