package popover

import "github.com/charmbracelet/lipgloss"

// Colors matching the dashboard palette in pkg/dashboard/styles.go.
var (
	Primary      = lipgloss.Color("212")
	Muted        = lipgloss.Color("241")
	BorderNormal = lipgloss.Color("240")
)

// Trigger styles.
var (
	Trigger = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("238")).
		Padding(0, 1)

	TriggerOpen = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(Primary).
			Bold(true).
			Padding(0, 1)
)

// Overlay styles.
var (
	OverlayBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)

	RowNormal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	RowActive = lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	RowCursor = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	MutedText = lipgloss.NewStyle().Foreground(Muted)
)
