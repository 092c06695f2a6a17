package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/110782829/moomoo-chatgpt-trader/internal/api"
	"github.com/110782829/moomoo-chatgpt-trader/internal/history"
	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
	"github.com/110782829/moomoo-chatgpt-trader/pkg/dashboard"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the dashboard (the default when no subcommand is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDash()
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
}

func runDash() error {
	client := newClient()

	hist, err := history.Open(getBaseDir())
	if err != nil {
		// The dashboard works without persistence; log and carry on.
		logger.Warn("history unavailable", "err", err)
		hist = nil
	} else {
		defer hist.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var events <-chan models.ActivityItem
	if stream, err := api.NewStream(client.BaseURL(), logger); err != nil {
		logger.Warn("event stream unavailable", "err", err)
	} else {
		go stream.Run(ctx)
		events = stream.Events()
	}

	m := dashboard.New(client, cfg, getBaseDir(), hist, events, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
