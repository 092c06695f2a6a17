// Package dashboard is the mmtrader terminal UI: a tabbed front-end for
// the trading bot API with mouse-driven dropdown widgets for account,
// environment and strategy parameters.
package dashboard

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/110782829/moomoo-chatgpt-trader/internal/api"
	"github.com/110782829/moomoo-chatgpt-trader/internal/history"
	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
	"github.com/110782829/moomoo-chatgpt-trader/internal/settings"
	"github.com/110782829/moomoo-chatgpt-trader/pkg/dashboard/mouse"
	"github.com/110782829/moomoo-chatgpt-trader/pkg/dashboard/popover"
)

// Panel identifies one dashboard tab.
type Panel int

const (
	PanelConnection Panel = iota
	PanelRisk
	PanelBacktest
	PanelActivity
	panelCount
)

func (p Panel) String() string {
	switch p {
	case PanelConnection:
		return "Connection"
	case PanelRisk:
		return "Risk"
	case PanelBacktest:
		return "Backtest"
	case PanelActivity:
		return "Activity"
	}
	return "?"
}

// activityKeep caps the in-memory feed and the persisted history.
const activityKeep = 200

// Model is the dashboard's bubbletea model. It is used by pointer so the
// widget change callbacks created in New can write back into it.
type Model struct {
	client   *api.Client
	settings *settings.Settings
	baseDir  string
	history  *history.DB
	stream   <-chan models.ActivityItem
	log      *slog.Logger

	width, height int
	active        Panel
	focus         int
	helpOpen      bool
	quitting      bool

	// events feeds the popover widgets; mouse resolves click targets
	// against regions registered during the last render. triggers holds
	// the measured trigger rectangles, written each render and read by
	// the widgets' rect providers.
	events   *popover.Events
	mouse    *mouse.Handler
	triggers map[string]popover.Rect

	// pending collects commands queued by widget change callbacks, which
	// cannot return tea.Cmd themselves. Drained at the end of Update.
	pending []tea.Cmd

	// connection
	hostInput textinput.Model
	portInput textinput.Model
	connected bool
	gateway   string
	accounts  []models.Account
	accountID string
	tradeEnv  models.TradeEnv
	positions []models.Position
	orders    []models.Order

	accountSel *popover.Select
	envSel     *popover.Select

	// risk
	risk         models.RiskConfig
	riskLoaded   bool
	riskOnSel    *popover.Select
	maxUSDInput  textinput.Model
	maxPosInput  textinput.Model
	maxLossInput textinput.Model

	// backtest / strategy
	symbol     string
	symbolPool []string
	symbolBox  *popover.Combobox
	ktype      string
	ktypeSel   *popover.Select
	fastInput  textinput.Model
	slowInput  textinput.Model
	qtyInput   textinput.Model
	btResult   *models.BacktestResult
	btRunning  bool
	strategy   *models.StrategyStatus

	// activity
	activity       []models.ActivityItem
	activityOffset int
	appendsSince   int

	status    string
	statusErr bool
}

// New builds the dashboard model. hist and stream may be nil; the feed
// then only shows events from the current session.
func New(client *api.Client, st *settings.Settings, baseDir string, hist *history.DB, stream <-chan models.ActivityItem, log *slog.Logger) *Model {
	m := &Model{
		client:   client,
		settings: st,
		baseDir:  baseDir,
		history:  hist,
		stream:   stream,
		log:      log,
		events:   popover.NewEvents(),
		mouse:    mouse.NewHandler(),
		triggers: make(map[string]popover.Rect),

		accountID: st.AccountID,
		tradeEnv:  st.TradeEnv,
		ktype:     "K_1M",
	}

	m.hostInput = newInput(st.Host, 18)
	m.portInput = newInput(strconv.Itoa(st.Port), 8)
	m.maxUSDInput = newInput("", 10)
	m.maxPosInput = newInput("", 6)
	m.maxLossInput = newInput("", 10)
	m.fastInput = newInput("9", 5)
	m.slowInput = newInput("21", 5)
	m.qtyInput = newInput("1", 7)

	m.accountSel = popover.NewSelect(m.events, m.triggerRect("sel:account"), nil,
		func(v string) {
			m.accountID = v
			m.pending = append(m.pending, m.selectAccountCmd(v, m.tradeEnv))
		},
		popover.WithSelectWidth(22), popover.WithSelectMaxVisible(6))

	m.envSel = popover.NewSelect(m.events, m.triggerRect("sel:env"),
		[]popover.Option{
			{Value: string(models.EnvSimulate), Label: "SIMULATE"},
			{Value: string(models.EnvReal), Label: "REAL"},
		},
		func(v string) {
			m.tradeEnv = models.TradeEnv(v)
			if m.accountID != "" {
				m.pending = append(m.pending, m.selectAccountCmd(m.accountID, m.tradeEnv))
			}
		},
		popover.WithSelectWidth(12))

	m.riskOnSel = popover.NewSelect(m.events, m.triggerRect("sel:riskon"),
		[]popover.Option{
			{Value: "on", Label: "enabled"},
			{Value: "off", Label: "disabled"},
		},
		func(v string) { m.risk.Enabled = v == "on" },
		popover.WithSelectWidth(12))

	ktypes := models.KTypes()
	ktypeOptions := make([]popover.Option, len(ktypes))
	for i, k := range ktypes {
		ktypeOptions[i] = popover.Option{Value: k, Label: k}
	}
	m.ktypeSel = popover.NewSelect(m.events, m.triggerRect("sel:ktype"), ktypeOptions,
		func(v string) { m.ktype = v },
		popover.WithSelectWidth(10))

	m.symbolBox = popover.NewCombobox(m.events, m.triggerRect("cbx:symbol"), nil,
		func(v string) { m.symbol = v },
		popover.WithComboboxWidth(16), popover.WithPlaceholder("symbol…"))

	// The resolver defaults are pixel-scale; the terminal works in cells.
	for _, r := range m.resolvers() {
		r.MinWidth = 14
		r.Margin = 1
		r.Gap = 0
	}
	return m
}

func newInput(value string, width int) textinput.Model {
	ti := textinput.New()
	ti.SetValue(value)
	ti.Width = width
	ti.CharLimit = 64
	ti.Prompt = ""
	return ti
}

// triggerRect makes a rect provider reading the trigger rectangle measured
// during the last render. An id absent from the map (the widget's panel is
// not on screen) reports unmeasurable, so the resolver keeps the last good
// placement.
func (m *Model) triggerRect(id string) popover.RectProvider {
	triggers := m.triggers
	return popover.RectProviderFunc(func() (popover.Rect, bool) {
		r, ok := triggers[id]
		return r, ok
	})
}

func (m *Model) resolvers() []*popover.Resolver {
	return []*popover.Resolver{
		m.accountSel.Resolver(),
		m.envSel.Resolver(),
		m.riskOnSel.Resolver(),
		m.ktypeSel.Resolver(),
		m.symbolBox.Resolver(),
	}
}

func (m *Model) selects() []*popover.Select {
	return []*popover.Select{m.accountSel, m.envSel, m.riskOnSel, m.ktypeSel}
}

func (m *Model) anyOverlayOpen() bool {
	if m.symbolBox.IsOpen() {
		return true
	}
	for _, s := range m.selects() {
		if s.IsOpen() {
			return true
		}
	}
	return false
}

// Init kicks off the initial data loads and the event stream listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.riskLoadCmd(),
		m.strategyStatusCmd(),
		m.historyCmd(),
		m.listenStream(),
		textinput.Blink,
	)
}

// Update routes messages. Pointer, key, scroll and resize input is
// dispatched to the popover event stream before the dashboard's own
// handling, so open overlays always see it first.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		vp := popover.Viewport{Width: msg.Width, Height: msg.Height}
		for _, s := range m.selects() {
			s.SetViewport(vp)
		}
		m.symbolBox.SetViewport(vp)
		m.events.Dispatch(popover.Resize{Width: msg.Width, Height: msg.Height})
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case connectedMsg:
		m.connected = true
		m.gateway = fmt.Sprintf("%s:%d", msg.res.Host, msg.res.Port)
		return m, tea.Batch(
			m.setStatus("connected to gateway "+m.gateway, false),
			m.accountsCmd(),
			m.recordLocal("connect", "", "connected to gateway "+m.gateway),
		)

	case disconnectedMsg:
		m.connected = false
		m.accounts = nil
		m.positions = nil
		m.orders = nil
		m.accountSel.SetOptions(nil)
		return m, m.setStatus("disconnected", false)

	case accountsMsg:
		m.accounts = msg.accounts
		opts := make([]popover.Option, len(msg.accounts))
		for i, a := range msg.accounts {
			label := a.ID
			if a.AccType != "" {
				label += " " + a.AccType
			}
			opts[i] = popover.Option{Value: a.ID, Label: label}
		}
		m.accountSel.SetOptions(opts)
		if m.accountID == "" && len(msg.accounts) > 0 {
			m.accountID = msg.accounts[0].ID
		}
		if m.accountID != "" {
			return m, m.selectAccountCmd(m.accountID, m.tradeEnv)
		}
		return m, nil

	case accountSelectedMsg:
		m.accountID = msg.id
		m.tradeEnv = msg.env
		m.saveSettings()
		return m, tea.Batch(
			m.setStatus(fmt.Sprintf("account %s active (%s)", msg.id, msg.env), false),
			m.positionsCmd(),
			m.ordersCmd(),
		)

	case positionsMsg:
		m.positions = msg.positions
		return m, nil

	case ordersMsg:
		m.orders = msg.orders
		return m, nil

	case riskMsg:
		m.risk = *msg.cfg
		m.riskLoaded = true
		m.maxUSDInput.SetValue(trimFloat(msg.cfg.MaxUSDPerTrade))
		m.maxPosInput.SetValue(strconv.Itoa(msg.cfg.MaxOpenPositions))
		m.maxLossInput.SetValue(trimFloat(msg.cfg.MaxDailyLossUSD))
		return m, nil

	case riskSavedMsg:
		return m, tea.Batch(
			m.setStatus("risk limits saved", false),
			m.riskLoadCmd(),
		)

	case strategyMsg:
		m.strategy = msg.status
		return m, nil

	case backtestMsg:
		m.btRunning = false
		m.btResult = msg.result
		return m, tea.Batch(
			m.setStatus("backtest finished", false),
			m.recordLocal("backtest", m.symbol, fmt.Sprintf("MA %s/%s on %s done",
				m.fastInput.Value(), m.slowInput.Value(), m.symbol)),
		)

	case activityMsg:
		m.appendActivity(msg.item)
		return m, m.listenStream()

	case historyMsg:
		m.activity = msg.items
		m.symbolPool = msg.symbols
		m.symbolBox.SetOptions(symbolOptions(msg.symbols))
		return m, nil

	case errMsg:
		m.btRunning = false
		m.log.Warn("request failed", "err", msg.err)
		return m, m.setStatus(msg.err.Error(), true)

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	return m, m.flush(nil)
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	act := m.mouse.HandleMouse(msg)
	switch act.Type {
	case mouse.ActionClick:
		if m.helpOpen {
			m.helpOpen = false
			return m, nil
		}
		m.events.Dispatch(popover.PointerDown{X: act.X, Y: act.Y})

		// An overlay that survived the dispatch owns the click.
		if opt, ok := m.symbolBox.HitRow(act.X, act.Y); ok {
			m.symbolBox.Commit(opt.Value)
			return m, m.flush(nil)
		}
		for _, s := range m.selects() {
			if opt, ok := s.HitRow(act.X, act.Y); ok {
				s.Commit(opt.Value)
				return m, m.flush(nil)
			}
		}
		if act.Region == nil || strings.HasPrefix(act.Region.ID, "overlay:") {
			return m, m.flush(nil)
		}
		m.focusControl(act.Region.ID)
		return m, m.flush(m.activate(act.Region.ID))

	case mouse.ActionScrollUp:
		m.events.Dispatch(popover.Scroll{})
		if m.active == PanelActivity {
			m.activityOffset = min(m.activityOffset+1, max(0, len(m.activity)-1))
		}
	case mouse.ActionScrollDown:
		m.events.Dispatch(popover.Scroll{})
		if m.active == PanelActivity {
			m.activityOffset = max(0, m.activityOffset-1)
		}
	}
	return m, m.flush(nil)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.helpOpen {
		m.helpOpen = false
		return m, nil
	}

	// Open overlays are modal for the keyboard: the cancel key dismisses,
	// enter accepts the combobox's first match, everything else edits the
	// combobox query or is swallowed.
	if m.symbolBox.IsOpen() {
		switch key {
		case popover.CancelKey:
			m.events.Dispatch(popover.KeyDown{Key: key})
			return m, m.flush(nil)
		case "enter":
			m.symbolBox.CommitFirst()
			return m, m.flush(nil)
		default:
			return m, m.flush(m.symbolBox.Update(msg))
		}
	}
	if m.anyOverlayOpen() {
		m.events.Dispatch(popover.KeyDown{Key: key})
		return m, m.flush(nil)
	}

	switch key {
	case "esc":
		if in := m.focusedInput(); in != nil {
			in.Blur()
		}
		return m, nil
	case "tab":
		m.moveFocus(1)
		return m, nil
	case "shift+tab":
		m.moveFocus(-1)
		return m, nil
	case "enter":
		return m, m.flush(m.activate(m.focusID()))
	}

	if in := m.focusedInput(); in != nil && in.Focused() {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "1", "2", "3", "4":
		m.setPanel(Panel(int(key[0] - '1')))
	case "left", "h":
		m.setPanel((m.active + panelCount - 1) % panelCount)
	case "right", "l":
		m.setPanel((m.active + 1) % panelCount)
	case "?":
		m.helpOpen = true
	case "r":
		return m, m.refreshPanel()
	case "up", "k":
		if m.active == PanelActivity {
			m.activityOffset = min(m.activityOffset+1, max(0, len(m.activity)-1))
		}
	case "down", "j":
		if m.active == PanelActivity {
			m.activityOffset = max(0, m.activityOffset-1)
		}
	}
	return m, nil
}

func (m *Model) setPanel(p Panel) {
	if p < 0 || p >= panelCount || p == m.active {
		return
	}
	// Changing tabs unmounts any overlay living on the old one.
	for _, s := range m.selects() {
		s.Dismiss()
	}
	m.symbolBox.Dismiss()
	m.blurInputs()
	m.active = p
	m.focus = 0
}

// refreshPanel reloads the data behind the visible tab.
func (m *Model) refreshPanel() tea.Cmd {
	switch m.active {
	case PanelConnection:
		if m.connected {
			return tea.Batch(m.accountsCmd(), m.positionsCmd(), m.ordersCmd())
		}
	case PanelRisk:
		return m.riskLoadCmd()
	case PanelBacktest:
		return m.strategyStatusCmd()
	case PanelActivity:
		return m.historyCmd()
	}
	return nil
}

// focusRing lists the tabbable controls on the active panel, in order.
func (m *Model) focusRing() []string {
	switch m.active {
	case PanelConnection:
		return []string{"in:host", "in:port", "btn:connect", "btn:disconnect", "sel:account", "sel:env"}
	case PanelRisk:
		return []string{"sel:riskon", "in:maxusd", "in:maxpos", "in:maxloss", "btn:risksave", "btn:riskreload"}
	case PanelBacktest:
		return []string{"cbx:symbol", "sel:ktype", "in:fast", "in:slow", "in:qty", "btn:btrun", "btn:ststart", "btn:ststop"}
	}
	return nil
}

func (m *Model) focusID() string {
	ring := m.focusRing()
	if len(ring) == 0 {
		return ""
	}
	return ring[m.focus%len(ring)]
}

func (m *Model) moveFocus(delta int) {
	ring := m.focusRing()
	if len(ring) == 0 {
		return
	}
	m.focus = (m.focus + delta + len(ring)) % len(ring)
	m.syncInputFocus()
}

func (m *Model) focusControl(id string) {
	for i, rid := range m.focusRing() {
		if rid == id {
			m.focus = i
			m.syncInputFocus()
			return
		}
	}
}

// syncInputFocus focuses the text input under the focus cursor and blurs
// the rest.
func (m *Model) syncInputFocus() {
	m.blurInputs()
	if in := m.focusedInput(); in != nil {
		in.Focus()
	}
}

func (m *Model) blurInputs() {
	for _, in := range m.inputs() {
		in.Blur()
	}
}

func (m *Model) inputs() []*textinput.Model {
	return []*textinput.Model{
		&m.hostInput, &m.portInput,
		&m.maxUSDInput, &m.maxPosInput, &m.maxLossInput,
		&m.fastInput, &m.slowInput, &m.qtyInput,
	}
}

func (m *Model) inputByID(id string) *textinput.Model {
	switch id {
	case "in:host":
		return &m.hostInput
	case "in:port":
		return &m.portInput
	case "in:maxusd":
		return &m.maxUSDInput
	case "in:maxpos":
		return &m.maxPosInput
	case "in:maxloss":
		return &m.maxLossInput
	case "in:fast":
		return &m.fastInput
	case "in:slow":
		return &m.slowInput
	case "in:qty":
		return &m.qtyInput
	}
	return nil
}

func (m *Model) focusedInput() *textinput.Model {
	return m.inputByID(m.focusID())
}

// activate runs the action behind a control id, from a click or from enter
// on the focused control.
func (m *Model) activate(id string) tea.Cmd {
	if strings.HasPrefix(id, "tab:") {
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "tab:")); err == nil {
			m.setPanel(Panel(n))
		}
		return nil
	}

	switch id {
	case "btn:connect":
		return tea.Batch(m.setStatus("connecting…", false), m.connectCmd())
	case "btn:disconnect":
		return m.disconnectCmd()
	case "btn:risksave":
		return m.saveRisk()
	case "btn:riskreload":
		return m.riskLoadCmd()
	case "btn:btrun":
		return m.runBacktest()
	case "btn:ststart":
		return m.startStrategy()
	case "btn:ststop":
		return m.strategyStopCmd()

	case "sel:account":
		m.accountSel.Toggle()
	case "sel:env":
		m.envSel.Toggle()
	case "sel:riskon":
		m.riskOnSel.Toggle()
	case "sel:ktype":
		m.ktypeSel.Toggle()
	case "cbx:symbol":
		if !m.symbolBox.IsOpen() {
			m.symbolBox.SetOptions(symbolOptions(m.symbolPool))
		}
		m.symbolBox.Toggle()
	}
	return nil
}

// flush appends commands queued by widget callbacks to cmd.
func (m *Model) flush(cmd tea.Cmd) tea.Cmd {
	if len(m.pending) == 0 {
		return cmd
	}
	cmds := m.pending
	m.pending = nil
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) appendActivity(item models.ActivityItem) {
	m.activity = append([]models.ActivityItem{item}, m.activity...)
	if len(m.activity) > activityKeep {
		m.activity = m.activity[:activityKeep]
	}
	if m.history != nil {
		if err := m.history.Append(item); err != nil {
			m.log.Warn("history append failed", "err", err)
		}
		m.appendsSince++
		if m.appendsSince >= 100 {
			m.appendsSince = 0
			if err := m.history.Prune(activityKeep * 2); err != nil {
				m.log.Warn("history prune failed", "err", err)
			}
		}
	}
}

// recordLocal appends a locally generated feed entry.
func (m *Model) recordLocal(kind, symbol, message string) tea.Cmd {
	m.appendActivity(models.ActivityItem{Kind: kind, Symbol: symbol, Message: message})
	return nil
}

func (m *Model) saveSettings() {
	m.settings.Host = m.hostInput.Value()
	if port, err := strconv.Atoi(m.portInput.Value()); err == nil {
		m.settings.Port = port
	}
	m.settings.AccountID = m.accountID
	m.settings.TradeEnv = m.tradeEnv
	if err := settings.Save(m.baseDir, m.settings); err != nil {
		m.log.Warn("settings save failed", "err", err)
	}
}

func symbolOptions(symbols []string) []popover.Option {
	opts := make([]popover.Option, len(symbols))
	for i, s := range symbols {
		opts[i] = popover.Option{Value: s, Label: s}
	}
	return opts
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
