package dashboard

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/110782829/moomoo-chatgpt-trader/internal/api"
	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
	"github.com/110782829/moomoo-chatgpt-trader/internal/suggest"
)

// requestTimeout bounds every bot API call issued from the dashboard. The
// gateway connect handshake can take a while on a cold OpenD process.
const requestTimeout = 15 * time.Second

type (
	connectedMsg       struct{ res *api.ConnectResult }
	disconnectedMsg    struct{}
	accountsMsg        struct{ accounts []models.Account }
	accountSelectedMsg struct {
		id  string
		env models.TradeEnv
	}
	positionsMsg struct{ positions []models.Position }
	ordersMsg    struct{ orders []models.Order }
	riskMsg      struct{ cfg *models.RiskConfig }
	riskSavedMsg struct{}
	strategyMsg  struct{ status *models.StrategyStatus }
	backtestMsg  struct{ result *models.BacktestResult }
	activityMsg  struct{ item models.ActivityItem }
	historyMsg   struct {
		items   []models.ActivityItem
		symbols []string
	}
	errMsg         struct{ err error }
	clearStatusMsg struct{}
)

func reqCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func (m *Model) connectCmd() tea.Cmd {
	host := m.hostInput.Value()
	port, err := strconv.Atoi(m.portInput.Value())
	if err != nil {
		port = 0 // let the bot fall back to its configured port
	}
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		res, err := client.Connect(ctx, api.ConnectRequest{Host: host, Port: port})
		if err != nil {
			return errMsg{err}
		}
		return connectedMsg{res}
	}
}

func (m *Model) disconnectCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			return errMsg{err}
		}
		return disconnectedMsg{}
	}
}

func (m *Model) accountsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		accounts, err := client.ListAccounts(ctx)
		if err != nil {
			return errMsg{err}
		}
		return accountsMsg{accounts}
	}
}

func (m *Model) selectAccountCmd(id string, env models.TradeEnv) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		if err := client.SelectAccount(ctx, id, env); err != nil {
			return errMsg{err}
		}
		return accountSelectedMsg{id: id, env: env}
	}
}

func (m *Model) positionsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		positions, err := client.Positions(ctx)
		if err != nil {
			return errMsg{err}
		}
		return positionsMsg{positions}
	}
}

func (m *Model) ordersCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		orders, err := client.Orders(ctx)
		if err != nil {
			return errMsg{err}
		}
		return ordersMsg{orders}
	}
}

func (m *Model) riskLoadCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		cfg, err := client.RiskConfig(ctx)
		if err != nil {
			return errMsg{err}
		}
		return riskMsg{cfg}
	}
}

func (m *Model) riskSaveCmd(cfg models.RiskConfig) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		if err := client.SetRiskConfig(ctx, cfg); err != nil {
			return errMsg{err}
		}
		return riskSavedMsg{}
	}
}

func (m *Model) strategyStatusCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		status, err := client.StrategyStatus(ctx)
		if err != nil {
			return errMsg{err}
		}
		return strategyMsg{status}
	}
}

func (m *Model) strategyStartCmd(status models.StrategyStatus) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		if err := client.StartMACrossover(ctx, status); err != nil {
			return errMsg{err}
		}
		st, err := client.StrategyStatus(ctx)
		if err != nil {
			return errMsg{err}
		}
		return strategyMsg{st}
	}
}

func (m *Model) strategyStopCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		if err := client.StopStrategy(ctx); err != nil {
			return errMsg{err}
		}
		st, err := client.StrategyStatus(ctx)
		if err != nil {
			return errMsg{err}
		}
		return strategyMsg{st}
	}
}

func (m *Model) backtestCmd(req models.BacktestRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		result, err := client.BacktestMA(ctx, req)
		if err != nil {
			return errMsg{err}
		}
		return backtestMsg{result}
	}
}

// historyCmd loads the persisted activity feed and the recently traded
// symbols that seed the backtest symbol suggestions.
func (m *Model) historyCmd() tea.Cmd {
	hist := m.history
	if hist == nil {
		return nil
	}
	return func() tea.Msg {
		items, err := hist.Recent(activityKeep)
		if err != nil {
			return errMsg{err}
		}
		symbols, err := hist.RecentSymbols(20)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg{items: items, symbols: suggest.Symbols("", symbols)}
	}
}

// listenStream waits for the next item on the bot's event stream. The
// command re-arms itself from the activityMsg handler.
func (m *Model) listenStream() tea.Cmd {
	ch := m.stream
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		item, ok := <-ch
		if !ok {
			return nil
		}
		return activityMsg{item}
	}
}
