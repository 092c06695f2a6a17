package dashboard

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusTTL is how long a toast stays on the status line.
const statusTTL = 4 * time.Second

// setStatus shows a transient message on the status line and schedules its
// removal. Errors stay until replaced or cleared like any other status.
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.status = msg
	m.statusErr = isErr
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
